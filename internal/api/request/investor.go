package request

// CreateInvestorRequest is the payload for adding an investor to a fund.
// ContributionDate is optional; without one the investor accrues no
// preferred return until it is set.
type CreateInvestorRequest struct {
	Name             string  `json:"name"`
	IsGP             bool    `json:"isGp"`
	CalledAmount     float64 `json:"calledAmount"`
	ContributionDate *string `json:"contributionDate,omitempty"`
}

// UpdateInvestorRequest is the payload for updating an investor.
// All fields are optional; the distributed balance is never updatable.
type UpdateInvestorRequest struct {
	Name             *string  `json:"name,omitempty"`
	IsGP             *bool    `json:"isGp,omitempty"`
	CalledAmount     *float64 `json:"calledAmount,omitempty"`
	ContributionDate *string  `json:"contributionDate,omitempty"`
}
