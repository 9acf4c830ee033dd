// Package waterfall implements the fund-level capital-return waterfall:
// return of capital, preferred return, GP catch-up, and profit split,
// applied per investor across ordered tiers with time-weighted accrual.
//
// The calculator is a pure function. It performs no I/O, never mutates its
// input, and never reads a wall clock; accrual is measured against the
// distribution date carried in the input.
package waterfall

import (
	"errors"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// Typed calculator failures. The calculator either returns a complete,
// internally consistent output or one of these; it never partially returns.
var (
	// ErrNegativeDistributable indicates a negative distribution amount,
	// which is not a valid domain concept.
	ErrNegativeDistributable = errors.New("total distributable cannot be negative")

	// ErrInvalidTierPercentage indicates a tier percentage outside [0,1].
	ErrInvalidTierPercentage = errors.New("tier percentage must be between 0 and 1")

	// ErrNegativePrefRate indicates a negative preferred-return rate.
	ErrNegativePrefRate = errors.New("preferred return rate cannot be negative")
)

// PriorTotals holds the cumulative amounts an investor has already received
// under each tier across all previously recorded distributions for the fund.
type PriorTotals struct {
	ReturnOfCapital float64 `json:"returnOfCapital"`
	PreferredReturn float64 `json:"preferredReturn"`
	CatchUp         float64 `json:"catchUp"`
	ProfitSplit     float64 `json:"profitSplit"`
}

// InvestorPosition is one investor's input to the calculator.
// A nil ContributionDate falls back to the distribution date, which yields
// zero accrued preferred return for this round.
type InvestorPosition struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	IsGP             bool        `json:"isGp"`
	CalledAmount     float64     `json:"calledAmount"`
	ContributionDate *time.Time  `json:"contributionDate,omitempty"`
	Prior            PriorTotals `json:"prior"`
}

// Tier is one step of the distribution priority sequence. Nil parameters
// mean unset; a tier missing its parameter allocates nothing.
type Tier struct {
	Order      int            `json:"order"`
	Name       model.TierName `json:"name"`
	PrefRate   *float64       `json:"prefRate,omitempty"`
	CatchUpPct *float64       `json:"catchUpPct,omitempty"`
	GPSplitPct *float64       `json:"gpSplitPct,omitempty"`
	LPSplitPct *float64       `json:"lpSplitPct,omitempty"`
}

// Input is the complete calculator input. Tiers are processed exactly in the
// order given: the caller's sequence is authoritative, the calculator never
// resorts, and duplicate Order values are tolerated (list position wins).
type Input struct {
	DistributionDate   time.Time          `json:"distributionDate"`
	TotalDistributable float64            `json:"totalDistributable"`
	Investors          []InvestorPosition `json:"investors"`
	Tiers              []Tier             `json:"tiers"`
}

// Allocation is one investor's computed amounts for this round, broken down
// by tier category. Total is the sum of the four categories.
type Allocation struct {
	InvestorID      string  `json:"investorId"`
	Name            string  `json:"name"`
	IsGP            bool    `json:"isGp"`
	ReturnOfCapital float64 `json:"returnOfCapital"`
	PreferredReturn float64 `json:"preferredReturn"`
	CatchUp         float64 `json:"catchUp"`
	ProfitSplit     float64 `json:"profitSplit"`
	Total           float64 `json:"total"`
}

// Output is the complete calculator result. Investors appear in input order,
// including investors that received nothing. TotalDistributed plus
// RemainingUndistributed always equals the input's TotalDistributable.
type Output struct {
	Investors              []Allocation               `json:"investors"`
	TotalDistributed       float64                    `json:"totalDistributed"`
	RemainingUndistributed float64                    `json:"remainingUndistributed"`
	TierTotals             map[model.TierName]float64 `json:"tierTotals"`
}

// AllocationFor returns the allocation for the given investor ID, or nil.
func (o *Output) AllocationFor(investorID string) *Allocation {
	for i := range o.Investors {
		if o.Investors[i].InvestorID == investorID {
			return &o.Investors[i]
		}
	}
	return nil
}
