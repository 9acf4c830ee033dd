package validation

import (
	"strings"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
)

// ValidateCreateFund validates a fund creation request.
//
// Required fields:
//   - name: non-empty
//
// Optional fields (validated if provided):
//   - preferredReturnRate: must be non-negative
func ValidateCreateFund(req request.CreateFundRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if req.PreferredReturnRate != nil && *req.PreferredReturnRate < 0 {
		errors["preferredReturnRate"] = "preferredReturnRate cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCreateInvestor validates an investor creation request.
//
// Required fields:
//   - name: non-empty
//   - calledAmount: must be non-negative
//
// Optional fields (validated if provided):
//   - contributionDate: must be in YYYY-MM-DD format
func ValidateCreateInvestor(req request.CreateInvestorRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if req.CalledAmount < 0 {
		errors["calledAmount"] = "calledAmount cannot be negative"
	}

	if req.ContributionDate != nil {
		if _, err := time.Parse("2006-01-02", *req.ContributionDate); err != nil {
			errors["contributionDate"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateInvestor validates an investor update request.
// All fields are optional, but if provided, they must meet the same
// constraints as create.
func ValidateUpdateInvestor(req request.UpdateInvestorRequest) error {
	errors := make(map[string]string)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errors["name"] = "name cannot be empty"
	}

	if req.CalledAmount != nil && *req.CalledAmount < 0 {
		errors["calledAmount"] = "calledAmount cannot be negative"
	}

	if req.ContributionDate != nil {
		if _, err := time.Parse("2006-01-02", *req.ContributionDate); err != nil {
			errors["contributionDate"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
