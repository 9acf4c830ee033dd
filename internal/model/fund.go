package model

import "time"

// Fund represents a pooled investment vehicle from the database.
type Fund struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	PreferredReturnRate *float64   `json:"preferredReturnRate,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// Investor represents one capital position in a fund.
// DistributedAmount is mutated only when a distribution is recorded.
type Investor struct {
	ID                string     `json:"id"`
	FundID            string     `json:"fundId"`
	Name              string     `json:"name"`
	IsGP              bool       `json:"isGp"`
	CalledAmount      float64    `json:"calledAmount"`
	ContributionDate  *time.Time `json:"contributionDate,omitempty"`
	DistributedAmount float64    `json:"distributedAmount"`
	CreatedAt         time.Time  `json:"createdAt"`
}
