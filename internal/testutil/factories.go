package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	// Simple creation with defaults
//	fund := testutil.NewFund().Build(t, db)
//
//	// Customized fund
//	fund := testutil.NewFund().
//	    WithName("Custom Fund").
//	    WithPreferredReturnRate(0.08).
//	    Build(t, db)
type FundBuilder struct {
	ID                  string
	Name                string
	PreferredReturnRate *float64
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	rate := 0.08
	return &FundBuilder{
		ID:                  MakeID(),
		Name:                MakeFundName("Test Fund"),
		PreferredReturnRate: &rate,
	}
}

// WithID sets a custom ID.
func (b *FundBuilder) WithID(id string) *FundBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithPreferredReturnRate sets a custom preferred return rate.
func (b *FundBuilder) WithPreferredReturnRate(rate float64) *FundBuilder {
	b.PreferredReturnRate = &rate
	return b
}

// WithoutPreferredReturnRate clears the preferred return rate.
func (b *FundBuilder) WithoutPreferredReturnRate() *FundBuilder {
	b.PreferredReturnRate = nil
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	query := `
		INSERT INTO fund (id, name, preferred_return_rate)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.PreferredReturnRate)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{
		ID:                  b.ID,
		Name:                b.Name,
		PreferredReturnRate: b.PreferredReturnRate,
	}
}

// InvestorBuilder provides a fluent interface for creating test investors.
//
// Example usage:
//
//	investor := testutil.NewInvestor(fund.ID).
//	    WithCalledAmount(800000).
//	    AsGP().
//	    Build(t, db)
type InvestorBuilder struct {
	ID                string
	FundID            string
	Name              string
	IsGP              bool
	CalledAmount      float64
	ContributionDate  *time.Time
	DistributedAmount float64
}

// NewInvestor creates an InvestorBuilder for the given fund with sensible defaults.
func NewInvestor(fundID string) *InvestorBuilder {
	contribution := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &InvestorBuilder{
		ID:               MakeID(),
		FundID:           fundID,
		Name:             MakeInvestorName("Test Investor"),
		IsGP:             false,
		CalledAmount:     100000,
		ContributionDate: &contribution,
	}
}

// WithID sets a custom ID.
func (b *InvestorBuilder) WithID(id string) *InvestorBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *InvestorBuilder) WithName(name string) *InvestorBuilder {
	b.Name = name
	return b
}

// AsGP marks the investor as the general partner.
func (b *InvestorBuilder) AsGP() *InvestorBuilder {
	b.IsGP = true
	return b
}

// WithCalledAmount sets the called capital amount.
func (b *InvestorBuilder) WithCalledAmount(amount float64) *InvestorBuilder {
	b.CalledAmount = amount
	return b
}

// WithContributionDate sets the contribution date.
func (b *InvestorBuilder) WithContributionDate(date time.Time) *InvestorBuilder {
	b.ContributionDate = &date
	return b
}

// WithoutContributionDate clears the contribution date.
func (b *InvestorBuilder) WithoutContributionDate() *InvestorBuilder {
	b.ContributionDate = nil
	return b
}

// WithDistributedAmount sets the lifetime distributed balance.
func (b *InvestorBuilder) WithDistributedAmount(amount float64) *InvestorBuilder {
	b.DistributedAmount = amount
	return b
}

// Build creates the investor in the database and returns it.
func (b *InvestorBuilder) Build(t *testing.T, db *sql.DB) model.Investor {
	t.Helper()

	query := `
		INSERT INTO investor (id, fund_id, name, is_gp, called_amount, contribution_date, distributed_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var contributionDate interface{}
	if b.ContributionDate != nil {
		contributionDate = b.ContributionDate.Format("2006-01-02")
	}

	_, err := db.Exec(query, b.ID, b.FundID, b.Name, b.IsGP, b.CalledAmount, contributionDate, b.DistributedAmount)
	if err != nil {
		t.Fatalf("Failed to create test investor: %v", err)
	}

	return model.Investor{
		ID:                b.ID,
		FundID:            b.FundID,
		Name:              b.Name,
		IsGP:              b.IsGP,
		CalledAmount:      b.CalledAmount,
		ContributionDate:  b.ContributionDate,
		DistributedAmount: b.DistributedAmount,
	}
}

// TierBuilder provides a fluent interface for creating test waterfall tiers.
//
// Example usage:
//
//	tier := testutil.NewTier(fund.ID, 1, model.TierReturnOfCapital).Build(t, db)
type TierBuilder struct {
	ID         string
	FundID     string
	TierOrder  int
	TierName   model.TierName
	PrefRate   *float64
	CatchUpPct *float64
	GPSplitPct *float64
	LPSplitPct *float64
}

// NewTier creates a TierBuilder for the given fund, order and tier name.
func NewTier(fundID string, order int, name model.TierName) *TierBuilder {
	return &TierBuilder{
		ID:        MakeID(),
		FundID:    fundID,
		TierOrder: order,
		TierName:  name,
	}
}

// WithPrefRate sets the preferred return rate parameter.
func (b *TierBuilder) WithPrefRate(rate float64) *TierBuilder {
	b.PrefRate = &rate
	return b
}

// WithCatchUpPct sets the catch-up percentage parameter.
func (b *TierBuilder) WithCatchUpPct(pct float64) *TierBuilder {
	b.CatchUpPct = &pct
	return b
}

// WithSplit sets the GP and LP profit split percentages.
func (b *TierBuilder) WithSplit(gpPct, lpPct float64) *TierBuilder {
	b.GPSplitPct = &gpPct
	b.LPSplitPct = &lpPct
	return b
}

// Build creates the tier in the database and returns it.
func (b *TierBuilder) Build(t *testing.T, db *sql.DB) model.WaterfallTier {
	t.Helper()

	query := `
		INSERT INTO waterfall_tier (id, fund_id, tier_order, tier_name, pref_rate, catch_up_pct, gp_split_pct, lp_split_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.FundID, b.TierOrder, string(b.TierName), b.PrefRate, b.CatchUpPct, b.GPSplitPct, b.LPSplitPct)
	if err != nil {
		t.Fatalf("Failed to create test tier: %v", err)
	}

	return model.WaterfallTier{
		ID:         b.ID,
		FundID:     b.FundID,
		TierOrder:  b.TierOrder,
		TierName:   b.TierName,
		PrefRate:   b.PrefRate,
		CatchUpPct: b.CatchUpPct,
		GPSplitPct: b.GPSplitPct,
		LPSplitPct: b.LPSplitPct,
	}
}

// DistributionBuilder provides a fluent interface for creating test distributions.
//
// Example usage:
//
//	dist := testutil.NewDistribution(fund.ID).
//	    WithAmount(1200000).
//	    WithDate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type DistributionBuilder struct {
	ID     string
	FundID string
	Amount float64
	Date   time.Time
	Status model.DistributionStatus
}

// NewDistribution creates a DistributionBuilder for the given fund with
// sensible defaults.
func NewDistribution(fundID string) *DistributionBuilder {
	return &DistributionBuilder{
		ID:     MakeID(),
		FundID: fundID,
		Amount: 100000,
		Date:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Status: model.DistributionDraft,
	}
}

// WithID sets a custom ID.
func (b *DistributionBuilder) WithID(id string) *DistributionBuilder {
	b.ID = id
	return b
}

// WithAmount sets the distributable amount.
func (b *DistributionBuilder) WithAmount(amount float64) *DistributionBuilder {
	b.Amount = amount
	return b
}

// WithDate sets the distribution date.
func (b *DistributionBuilder) WithDate(date time.Time) *DistributionBuilder {
	b.Date = date
	return b
}

// Paid marks the distribution as paid.
func (b *DistributionBuilder) Paid() *DistributionBuilder {
	b.Status = model.DistributionPaid
	return b
}

// Build creates the distribution in the database and returns it.
func (b *DistributionBuilder) Build(t *testing.T, db *sql.DB) model.Distribution {
	t.Helper()

	query := `
		INSERT INTO distribution (id, fund_id, amount, date, status)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.FundID, b.Amount, b.Date.Format("2006-01-02"), string(b.Status))
	if err != nil {
		t.Fatalf("Failed to create test distribution: %v", err)
	}

	return model.Distribution{
		ID:     b.ID,
		FundID: b.FundID,
		Amount: b.Amount,
		Date:   b.Date,
		Status: b.Status,
	}
}

// Convenience functions

// CreateStandardTiers creates the canonical four-tier waterfall for a fund:
// return of capital, 8% preferred return, 100% GP catch-up to 20% of profit,
// then an 80/20 LP/GP profit split.
func CreateStandardTiers(t *testing.T, db *sql.DB, fundID string) []model.WaterfallTier {
	t.Helper()

	return []model.WaterfallTier{
		NewTier(fundID, 1, model.TierReturnOfCapital).Build(t, db),
		NewTier(fundID, 2, model.TierPreferredReturn).WithPrefRate(0.08).Build(t, db),
		NewTier(fundID, 3, model.TierCatchUp).WithCatchUpPct(0.20).Build(t, db),
		NewTier(fundID, 4, model.TierProfitSplit).WithSplit(0.20, 0.80).Build(t, db),
	}
}
