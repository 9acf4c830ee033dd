package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/repository"
	"github.com/landrise/Fund-Distribution-Backend/internal/waterfall"
)

// AccrualService computes dated snapshots of each investor's accrued-but-
// unpaid preferred return, using the fund's default preferred rate and the
// same accrual math as the calculator. Snapshots feed dashboards only; the
// distribution workflow always recomputes accrual from source data.
type AccrualService struct {
	fundRepo        *repository.FundRepository
	investorRepo    *repository.InvestorRepository
	calculationRepo *repository.CalculationRepository
	accrualRepo     *repository.AccrualRepository
}

// NewAccrualService creates a new AccrualService with the provided repository dependencies.
func NewAccrualService(
	fundRepo *repository.FundRepository,
	investorRepo *repository.InvestorRepository,
	calculationRepo *repository.CalculationRepository,
	accrualRepo *repository.AccrualRepository,
) *AccrualService {
	return &AccrualService{
		fundRepo:        fundRepo,
		investorRepo:    investorRepo,
		calculationRepo: calculationRepo,
		accrualRepo:     accrualRepo,
	}
}

// RunSnapshots writes an accrual snapshot for every investor of every fund
// that has a default preferred return rate. Snapshots for the same investor
// and date are replaced, so the job can be rerun safely.
func (s *AccrualService) RunSnapshots(ctx context.Context, asOf time.Time) (int, error) {
	funds, err := s.fundRepo.GetFunds()
	if err != nil {
		return 0, err
	}

	written := 0
	for _, fund := range funds {
		if fund.PreferredReturnRate == nil || *fund.PreferredReturnRate <= 0 {
			continue
		}

		investors, err := s.investorRepo.GetInvestors(fund.ID)
		if err != nil {
			return written, err
		}

		// Empty exclusion: count every recorded distribution of the fund.
		priorTotals, err := s.calculationRepo.GetPriorTierTotals(fund.ID, "")
		if err != nil {
			return written, err
		}

		for _, inv := range investors {
			if inv.ContributionDate == nil {
				continue
			}

			accrued := waterfall.AccruedPreferred(inv.CalledAmount, *fund.PreferredReturnRate, *inv.ContributionDate, asOf)
			accrued -= priorTotals[inv.ID][model.TierPreferredReturn]
			if accrued < 0 {
				accrued = 0
			}

			snapshot := &model.AccrualSnapshot{
				FundID:           fund.ID,
				InvestorID:       inv.ID,
				Date:             asOf,
				AccruedPreferred: accrued,
			}
			if err := s.accrualRepo.UpsertSnapshot(ctx, snapshot); err != nil {
				return written, fmt.Errorf("failed to snapshot accrual for investor %s: %w", inv.ID, err)
			}
			written++
		}
	}

	log.Printf("Accrual snapshot run complete: %d snapshots as of %s", written, asOf.Format("2006-01-02"))
	return written, nil
}

// GetSnapshots retrieves a fund's accrual snapshots for a given date.
func (s *AccrualService) GetSnapshots(fundID string, date time.Time) ([]model.AccrualSnapshot, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}
	return s.accrualRepo.GetSnapshots(fundID, date)
}
