package request

// CreateDistributionRequest is the payload for creating a distribution.
type CreateDistributionRequest struct {
	FundID string  `json:"fundId"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ApproveCalculationRequest carries the approver identity.
type ApproveCalculationRequest struct {
	ApproverID string `json:"approverId"`
}
