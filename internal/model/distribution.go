package model

import "time"

// DistributionStatus is the lifecycle status of a distribution cash event.
type DistributionStatus string

const (
	DistributionDraft DistributionStatus = "draft"
	DistributionPaid  DistributionStatus = "paid"
)

// CalculationStatus is the lifecycle status of a distribution calculation.
// Transitions are strictly draft -> approved -> recorded; recorded is terminal.
type CalculationStatus string

const (
	CalculationDraft    CalculationStatus = "draft"
	CalculationApproved CalculationStatus = "approved"
	CalculationRecorded CalculationStatus = "recorded"
)

// Distribution represents a single cash event for a fund.
// Amount and date are calculator inputs and do not change once a
// calculation has been recorded against the distribution.
type Distribution struct {
	ID        string             `json:"id"`
	FundID    string             `json:"fundId"`
	Amount    float64            `json:"amount"`
	Date      time.Time          `json:"date"`
	Status    DistributionStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// DistributionCalculation is an immutable computed snapshot tied to a
// distribution. Input and output snapshots are stored as JSON so a recorded
// calculation stays reproducible even if tier configuration later changes.
type DistributionCalculation struct {
	ID                 string            `json:"id"`
	DistributionID     string            `json:"distributionId"`
	FundID             string            `json:"fundId"`
	TotalDistributable float64           `json:"totalDistributable"`
	TotalDistributed   float64           `json:"totalDistributed"`
	InputSnapshot      string            `json:"inputSnapshot"`
	OutputSnapshot     string            `json:"outputSnapshot"`
	Status             CalculationStatus `json:"status"`
	ApprovedBy         *string           `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time        `json:"approvedAt,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
}

// DistributionLineItem is one (investor, tier) allocation row belonging to
// exactly one calculation. IsGP and InvestorName are denormalized for display.
type DistributionLineItem struct {
	ID             string   `json:"id"`
	CalculationID  string   `json:"calculationId"`
	DistributionID string   `json:"distributionId"`
	FundID         string   `json:"fundId"`
	InvestorID     string   `json:"investorId"`
	InvestorName   string   `json:"investorName"`
	TierName       TierName `json:"tierName"`
	TierOrder      int      `json:"tierOrder"`
	Amount         float64  `json:"amount"`
	IsGP           bool     `json:"isGp"`
}

// TierTotal is a per-tier aggregate used in distribution summaries.
type TierTotal struct {
	TierName TierName `json:"tierName"`
	Amount   float64  `json:"amount"`
}

// DistributionSummary combines a distribution with per-tier totals derived
// from its recorded line items.
type DistributionSummary struct {
	Distribution Distribution `json:"distribution"`
	TierTotals   []TierTotal  `json:"tierTotals"`
	Total        float64      `json:"total"`
}
