package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/repository"
	"github.com/landrise/Fund-Distribution-Backend/internal/waterfall"
)

// DistributionService orchestrates the distribution workflow around the
// waterfall calculator: calculate (pure, no persistence), save snapshot,
// approve, record. The lifecycle is strictly draft -> approved -> recorded
// and recording is the only operation that mutates investor balances.
type DistributionService struct {
	db               *sql.DB
	fundRepo         *repository.FundRepository
	investorRepo     *repository.InvestorRepository
	tierRepo         *repository.TierRepository
	distributionRepo *repository.DistributionRepository
	calculationRepo  *repository.CalculationRepository
}

// NewDistributionService creates a new DistributionService with the provided repository dependencies.
func NewDistributionService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	investorRepo *repository.InvestorRepository,
	tierRepo *repository.TierRepository,
	distributionRepo *repository.DistributionRepository,
	calculationRepo *repository.CalculationRepository,
) *DistributionService {
	return &DistributionService{
		db:               db,
		fundRepo:         fundRepo,
		investorRepo:     investorRepo,
		tierRepo:         tierRepo,
		distributionRepo: distributionRepo,
		calculationRepo:  calculationRepo,
	}
}

// CalculationResult carries a freshly computed waterfall output together
// with the exact input it was computed from, plus non-blocking warnings.
// It is ephemeral until SaveCalculation persists it.
type CalculationResult struct {
	DistributionID string            `json:"distributionId"`
	FundID         string            `json:"fundId"`
	Input          waterfall.Input   `json:"input"`
	Output         *waterfall.Output `json:"output"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// CreateDistribution creates a new draft distribution for a fund.
func (s *DistributionService) CreateDistribution(ctx context.Context, req request.CreateDistributionRequest) (*model.Distribution, error) {
	if _, err := s.fundRepo.GetFund(req.FundID); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	dist := &model.Distribution{
		ID:        uuid.New().String(),
		FundID:    req.FundID,
		Amount:    req.Amount,
		Date:      date,
		Status:    model.DistributionDraft,
		CreatedAt: time.Now(),
	}

	if err := s.distributionRepo.InsertDistribution(ctx, dist); err != nil {
		return nil, fmt.Errorf("failed to create distribution: %w", err)
	}

	return dist, nil
}

// GetDistribution retrieves a single distribution by ID.
func (s *DistributionService) GetDistribution(distributionID string) (model.Distribution, error) {
	return s.distributionRepo.GetDistribution(distributionID)
}

// GetDistributionSummaries returns a fund's distributions with per-tier
// totals aggregated from recorded line items. Totals come from the line-item
// table, not from cached fields, so they always match what was paid.
func (s *DistributionService) GetDistributionSummaries(fundID string) ([]model.DistributionSummary, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}

	distributions, err := s.distributionRepo.GetDistributionsByFund(fundID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.DistributionSummary, 0, len(distributions))
	for _, dist := range distributions {
		tierTotals, err := s.calculationRepo.GetRecordedTierTotals(dist.ID)
		if err != nil {
			return nil, err
		}

		summary := model.DistributionSummary{
			Distribution: dist,
			TierTotals:   tierTotals,
		}
		for _, tt := range tierTotals {
			summary.Total += tt.Amount
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetCalculation returns a single calculation by ID.
func (s *DistributionService) GetCalculation(calculationID string) (model.DistributionCalculation, error) {
	return s.calculationRepo.GetCalculation(calculationID)
}

// GetLatestCalculation returns a distribution's most recent calculation and
// its line items.
func (s *DistributionService) GetLatestCalculation(distributionID string) (model.DistributionCalculation, []model.DistributionLineItem, error) {
	calc, err := s.calculationRepo.GetLatestCalculation(distributionID)
	if err != nil {
		return model.DistributionCalculation{}, nil, err
	}

	items, err := s.calculationRepo.GetLineItems(calc.ID)
	if err != nil {
		return model.DistributionCalculation{}, nil, err
	}

	return calc, items, nil
}

// Calculate loads the distribution's fund, investors, tier configuration,
// and prior recorded line items, runs the waterfall calculator, and returns
// the result without persisting anything.
//
// Hard preconditions (each reported, never silently skipped): the
// distribution must be in draft status, its fund must exist, the fund must
// have at least one tier and at least one investor. Investors missing a
// contribution date produce a non-blocking warning: they fall back to the
// distribution date and accrue no preferred return this round.
func (s *DistributionService) Calculate(ctx context.Context, distributionID string) (*CalculationResult, error) {
	dist, err := s.distributionRepo.GetDistribution(distributionID)
	if err != nil {
		return nil, err
	}
	if dist.Status != model.DistributionDraft {
		return nil, apperrors.ErrDistributionNotDraft
	}

	var (
		investors   []model.Investor
		tiers       []model.WaterfallTier
		priorTotals map[string]map[model.TierName]float64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.fundRepo.GetFund(dist.FundID)
		return err
	})
	g.Go(func() error {
		var err error
		investors, err = s.investorRepo.GetInvestors(dist.FundID)
		return err
	})
	g.Go(func() error {
		var err error
		tiers, err = s.tierRepo.GetTiers(dist.FundID)
		return err
	})
	g.Go(func() error {
		var err error
		priorTotals, err = s.calculationRepo.GetPriorTierTotals(dist.FundID, dist.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(tiers) == 0 {
		return nil, apperrors.ErrNoTiersConfigured
	}
	if len(investors) == 0 {
		return nil, apperrors.ErrNoInvestors
	}

	input := waterfall.Input{
		DistributionDate:   dist.Date,
		TotalDistributable: dist.Amount,
		Investors:          make([]waterfall.InvestorPosition, 0, len(investors)),
		Tiers:              make([]waterfall.Tier, 0, len(tiers)),
	}

	var warnings []string
	for _, inv := range investors {
		if inv.ContributionDate == nil {
			warnings = append(warnings, fmt.Sprintf(
				"investor %q has no contribution date; using distribution date (no preferred return accrues this round)", inv.Name))
		}

		prior := priorTotals[inv.ID]
		input.Investors = append(input.Investors, waterfall.InvestorPosition{
			ID:               inv.ID,
			Name:             inv.Name,
			IsGP:             inv.IsGP,
			CalledAmount:     inv.CalledAmount,
			ContributionDate: inv.ContributionDate,
			Prior: waterfall.PriorTotals{
				ReturnOfCapital: prior[model.TierReturnOfCapital],
				PreferredReturn: prior[model.TierPreferredReturn],
				CatchUp:         prior[model.TierCatchUp],
				ProfitSplit:     prior[model.TierProfitSplit],
			},
		})
	}

	for _, tier := range tiers {
		input.Tiers = append(input.Tiers, waterfall.Tier{
			Order:      tier.TierOrder,
			Name:       tier.TierName,
			PrefRate:   tier.PrefRate,
			CatchUpPct: tier.CatchUpPct,
			GPSplitPct: tier.GPSplitPct,
			LPSplitPct: tier.LPSplitPct,
		})
	}

	output, err := waterfall.Calculate(input)
	if err != nil {
		return nil, err
	}

	return &CalculationResult{
		DistributionID: dist.ID,
		FundID:         dist.FundID,
		Input:          input,
		Output:         output,
		Warnings:       warnings,
	}, nil
}

// SaveCalculation persists a calculation result as a draft snapshot. Each
// save fully supersedes any prior draft for the distribution: old draft
// calculations and all of the distribution's line items are deleted and the
// new set inserted in a single transaction, so repeated saves never
// accumulate duplicates. Saving is rejected with a conflict once a
// calculation for the distribution has been approved or recorded.
func (s *DistributionService) SaveCalculation(ctx context.Context, result *CalculationResult) (*model.DistributionCalculation, error) {
	if recorded, err := s.calculationRepo.HasCalculationInStatus(result.DistributionID, model.CalculationRecorded); err != nil {
		return nil, err
	} else if recorded {
		return nil, apperrors.ErrCalculationAlreadyRecorded
	}
	if approved, err := s.calculationRepo.HasCalculationInStatus(result.DistributionID, model.CalculationApproved); err != nil {
		return nil, err
	} else if approved {
		return nil, apperrors.ErrCalculationAlreadyApproved
	}

	inputJSON, err := json.Marshal(result.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input snapshot: %w", err)
	}
	outputJSON, err := json.Marshal(result.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output snapshot: %w", err)
	}

	calc := &model.DistributionCalculation{
		ID:                 uuid.New().String(),
		DistributionID:     result.DistributionID,
		FundID:             result.FundID,
		TotalDistributable: result.Input.TotalDistributable,
		TotalDistributed:   result.Output.TotalDistributed,
		InputSnapshot:      string(inputJSON),
		OutputSnapshot:     string(outputJSON),
		Status:             model.CalculationDraft,
		CreatedAt:          time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	calcRepo := s.calculationRepo.WithTx(tx)

	if err := calcRepo.DeleteLineItemsForDistribution(ctx, result.DistributionID); err != nil {
		return nil, err
	}
	if err := calcRepo.DeleteDraftCalculations(ctx, result.DistributionID); err != nil {
		return nil, err
	}
	if err := calcRepo.InsertCalculation(ctx, calc); err != nil {
		return nil, err
	}
	if err := calcRepo.InsertLineItems(ctx, buildLineItems(calc, result)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit calculation save: %w", err)
	}

	return calc, nil
}

// Approve transitions a draft calculation to approved, recording the
// approver identity and timestamp. No recomputation happens and investor
// balances are untouched. Approving anything but a draft is a conflict.
func (s *DistributionService) Approve(ctx context.Context, calculationID, approverID string) (model.DistributionCalculation, error) {
	ok, err := s.calculationRepo.SetApproval(ctx, calculationID, approverID, time.Now())
	if err != nil {
		return model.DistributionCalculation{}, err
	}
	if !ok {
		// Guard failed: either the calculation is missing or it is no
		// longer a draft. Disambiguate for the caller.
		calc, err := s.calculationRepo.GetCalculation(calculationID)
		if err != nil {
			return model.DistributionCalculation{}, err
		}
		if calc.Status == model.CalculationRecorded {
			return model.DistributionCalculation{}, apperrors.ErrCalculationAlreadyRecorded
		}
		return model.DistributionCalculation{}, apperrors.ErrCalculationNotDraft
	}

	return s.calculationRepo.GetCalculation(calculationID)
}

// Record applies an approved calculation: each investor's line items are
// summed and, if positive, added to the investor's cumulative distributed
// balance; the distribution flips to paid and the calculation to recorded.
//
// Everything runs in one transaction whose first statement is a
// compare-and-swap on the calculation status (approved -> recorded). If the
// guard fails the whole operation is rejected as a conflict, which is what
// makes a concurrent or repeated Record safe: the balance increments can
// never be applied twice.
func (s *DistributionService) Record(ctx context.Context, calculationID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	calcRepo := s.calculationRepo.WithTx(tx)

	ok, err := calcRepo.TransitionStatus(ctx, calculationID, model.CalculationApproved, model.CalculationRecorded)
	if err != nil {
		return err
	}
	if !ok {
		calc, err := calcRepo.GetCalculation(calculationID)
		if err != nil {
			return err
		}
		if calc.Status == model.CalculationRecorded {
			return apperrors.ErrCalculationAlreadyRecorded
		}
		return apperrors.ErrCalculationNotApproved
	}

	calc, err := calcRepo.GetCalculation(calculationID)
	if err != nil {
		return err
	}

	items, err := calcRepo.GetLineItems(calculationID)
	if err != nil {
		return err
	}

	totals := make(map[string]float64)
	order := make([]string, 0, len(totals))
	for _, item := range items {
		if _, seen := totals[item.InvestorID]; !seen {
			order = append(order, item.InvestorID)
		}
		totals[item.InvestorID] += item.Amount
	}

	investorRepo := s.investorRepo.WithTx(tx)
	for _, investorID := range order {
		if totals[investorID] <= 0 {
			continue
		}
		if err := investorRepo.IncrementDistributed(ctx, investorID, totals[investorID]); err != nil {
			return err
		}
	}

	if err := s.distributionRepo.WithTx(tx).MarkPaid(ctx, calc.DistributionID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit distribution record: %w", err)
	}

	return nil
}

// buildLineItems flattens a calculator output into one row per investor and
// configured tier. Zero-amount rows are kept so every investor appears under
// every tier in the persisted breakdown.
func buildLineItems(calc *model.DistributionCalculation, result *CalculationResult) []model.DistributionLineItem {
	// First occurrence of each known tier name wins its display order.
	tierOrders := make(map[model.TierName]int)
	tierSeen := []model.TierName{}
	for _, tier := range result.Input.Tiers {
		if !tier.Name.Valid() {
			continue
		}
		if _, ok := tierOrders[tier.Name]; !ok {
			tierOrders[tier.Name] = tier.Order
			tierSeen = append(tierSeen, tier.Name)
		}
	}

	items := make([]model.DistributionLineItem, 0, len(result.Output.Investors)*len(tierSeen))
	for _, alloc := range result.Output.Investors {
		amounts := map[model.TierName]float64{
			model.TierReturnOfCapital: alloc.ReturnOfCapital,
			model.TierPreferredReturn: alloc.PreferredReturn,
			model.TierCatchUp:         alloc.CatchUp,
			model.TierProfitSplit:     alloc.ProfitSplit,
		}

		for _, name := range tierSeen {
			items = append(items, model.DistributionLineItem{
				CalculationID:  calc.ID,
				DistributionID: calc.DistributionID,
				FundID:         calc.FundID,
				InvestorID:     alloc.InvestorID,
				InvestorName:   alloc.Name,
				TierName:       name,
				TierOrder:      tierOrders[name],
				Amount:         amounts[name],
				IsGP:           alloc.IsGP,
			})
		}
	}

	return items
}
