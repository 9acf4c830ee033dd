package model

import "time"

// AccrualSnapshot is a dated record of an investor's accrued-but-unpaid
// preferred return, written by the nightly accrual job for dashboards.
// The distribution calculator never reads these; it always recomputes
// accrual from contribution dates and recorded line items.
type AccrualSnapshot struct {
	ID               string    `json:"id"`
	FundID           string    `json:"fundId"`
	InvestorID       string    `json:"investorId"`
	Date             time.Time `json:"date"`
	AccruedPreferred float64   `json:"accruedPreferred"`
}
