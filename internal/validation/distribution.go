package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// ValidateCreateDistribution validates a distribution creation request.
//
// Required fields:
//   - fundId: must be a valid UUID
//   - date: must be in YYYY-MM-DD format
//   - amount: must be non-negative (zero-amount distributions are legal)
func ValidateCreateDistribution(req request.CreateDistributionRequest) error {
	if err := ValidateUUID(req.FundID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if req.Amount < 0 {
		errors["amount"] = "amount cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateReplaceTiers validates a tier-configuration replacement request.
//
// Each tier must have a known tier name and a strictly positive order, and
// any percentage parameter must fall in [0,1]. A preferred-return rate must
// be non-negative.
func ValidateReplaceTiers(req request.ReplaceTiersRequest) error {
	errors := make(map[string]string)

	if len(req.Tiers) == 0 {
		errors["tiers"] = "at least one tier is required"
	}

	for i, tier := range req.Tiers {
		prefix := fmt.Sprintf("tiers[%d]", i)

		if !model.TierName(tier.TierName).Valid() {
			errors[prefix+".tierName"] = fmt.Sprintf("unknown tier name: %s", tier.TierName)
		}

		if tier.TierOrder <= 0 {
			errors[prefix+".tierOrder"] = "tierOrder must be positive"
		}

		if tier.PrefRate != nil && *tier.PrefRate < 0 {
			errors[prefix+".prefRate"] = "prefRate cannot be negative"
		}

		pcts := map[string]*float64{
			"catchUpPct": tier.CatchUpPct,
			"gpSplitPct": tier.GPSplitPct,
			"lpSplitPct": tier.LPSplitPct,
		}
		for field, pct := range pcts {
			if pct != nil && (*pct < 0 || *pct > 1) {
				errors[prefix+"."+field] = field + " must be between 0 and 1"
			}
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateApproveCalculation validates an approval request.
func ValidateApproveCalculation(req request.ApproveCalculationRequest) error {
	if strings.TrimSpace(req.ApproverID) == "" {
		return &Error{Fields: map[string]string{"approverId": "approverId is required"}}
	}
	return nil
}
