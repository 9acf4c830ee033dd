package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/repository"
)

// FundService handles fund, investor, and tier-configuration business logic.
type FundService struct {
	fundRepo        *repository.FundRepository
	investorRepo    *repository.InvestorRepository
	tierRepo        *repository.TierRepository
	calculationRepo *repository.CalculationRepository
}

// NewFundService creates a new FundService with the provided repository dependencies.
func NewFundService(
	fundRepo *repository.FundRepository,
	investorRepo *repository.InvestorRepository,
	tierRepo *repository.TierRepository,
	calculationRepo *repository.CalculationRepository,
) *FundService {
	return &FundService{
		fundRepo:        fundRepo,
		investorRepo:    investorRepo,
		tierRepo:        tierRepo,
		calculationRepo: calculationRepo,
	}
}

// GetAllFunds retrieves all funds.
func (s *FundService) GetAllFunds() ([]model.Fund, error) {
	return s.fundRepo.GetFunds()
}

// GetFund retrieves a single fund by ID.
func (s *FundService) GetFund(fundID string) (model.Fund, error) {
	return s.fundRepo.GetFund(fundID)
}

// CreateFund creates a new fund.
func (s *FundService) CreateFund(ctx context.Context, req request.CreateFundRequest) (*model.Fund, error) {
	fund := &model.Fund{
		ID:                  uuid.New().String(),
		Name:                req.Name,
		PreferredReturnRate: req.PreferredReturnRate,
		CreatedAt:           time.Now(),
	}

	if err := s.fundRepo.InsertFund(ctx, fund); err != nil {
		return nil, fmt.Errorf("failed to create fund: %w", err)
	}

	return fund, nil
}

// GetInvestors retrieves all investors for a fund.
func (s *FundService) GetInvestors(fundID string) ([]model.Investor, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}
	return s.investorRepo.GetInvestors(fundID)
}

// CreateInvestor adds an investor to a fund.
func (s *FundService) CreateInvestor(ctx context.Context, fundID string, req request.CreateInvestorRequest) (*model.Investor, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}

	inv := &model.Investor{
		ID:           uuid.New().String(),
		FundID:       fundID,
		Name:         req.Name,
		IsGP:         req.IsGP,
		CalledAmount: req.CalledAmount,
		CreatedAt:    time.Now(),
	}

	if req.ContributionDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ContributionDate)
		if err != nil {
			return nil, err
		}
		inv.ContributionDate = &parsed
	}

	if err := s.investorRepo.InsertInvestor(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create investor: %w", err)
	}

	return inv, nil
}

// UpdateInvestor updates an investor's mutable attributes. The cumulative
// distributed balance is not updatable through this path.
func (s *FundService) UpdateInvestor(ctx context.Context, investorID string, req request.UpdateInvestorRequest) (*model.Investor, error) {
	inv, err := s.investorRepo.GetInvestor(investorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		inv.Name = *req.Name
	}
	if req.IsGP != nil {
		inv.IsGP = *req.IsGP
	}
	if req.CalledAmount != nil {
		inv.CalledAmount = *req.CalledAmount
	}
	if req.ContributionDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ContributionDate)
		if err != nil {
			return nil, err
		}
		inv.ContributionDate = &parsed
	}

	if err := s.investorRepo.UpdateInvestor(ctx, &inv); err != nil {
		return nil, fmt.Errorf("failed to update investor: %w", err)
	}

	return &inv, nil
}

// GetTiers retrieves a fund's waterfall tier configuration ordered by tier order.
func (s *FundService) GetTiers(fundID string) ([]model.WaterfallTier, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}
	return s.tierRepo.GetTiers(fundID)
}

// ReplaceTiers replaces a fund's waterfall tier configuration wholesale.
// Once any of the fund's distributions carries an approved or recorded
// calculation the configuration is locked: the recorded line items reference
// tiers by name, and replacing them would orphan that audit trail.
func (s *FundService) ReplaceTiers(ctx context.Context, fundID string, req request.ReplaceTiersRequest) ([]model.WaterfallTier, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}

	locked, err := s.calculationRepo.HasFundCalculationInStatus(fundID, model.CalculationApproved, model.CalculationRecorded)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, apperrors.ErrTiersLocked
	}

	tiers := make([]model.WaterfallTier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		tiers = append(tiers, model.WaterfallTier{
			ID:         uuid.New().String(),
			FundID:     fundID,
			TierOrder:  t.TierOrder,
			TierName:   model.TierName(t.TierName),
			PrefRate:   t.PrefRate,
			CatchUpPct: t.CatchUpPct,
			GPSplitPct: t.GPSplitPct,
			LPSplitPct: t.LPSplitPct,
		})
	}

	if err := s.tierRepo.ReplaceTiers(ctx, fundID, tiers); err != nil {
		return nil, fmt.Errorf("failed to replace tiers: %w", err)
	}

	return s.tierRepo.GetTiers(fundID)
}
