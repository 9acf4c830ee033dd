package request

// CreateFundRequest is the payload for creating a fund.
type CreateFundRequest struct {
	Name                string   `json:"name"`
	PreferredReturnRate *float64 `json:"preferredReturnRate,omitempty"`
}
