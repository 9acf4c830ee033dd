package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/testutil"
)

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

// TestFundService_CreateFund tests fund creation.
func TestFundService_CreateFund(t *testing.T) {
	t.Run("creates a fund with a preferred return rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		fund, err := svc.CreateFund(context.Background(), request.CreateFundRequest{
			Name:                "Landrise Real Estate I",
			PreferredReturnRate: floatPtr(0.08),
		})
		if err != nil {
			t.Fatalf("CreateFund() returned unexpected error: %v", err)
		}

		loaded, err := svc.GetFund(fund.ID)
		if err != nil {
			t.Fatalf("GetFund() returned unexpected error: %v", err)
		}
		if loaded.Name != "Landrise Real Estate I" {
			t.Errorf("Expected fund name to round-trip, got %q", loaded.Name)
		}
		if loaded.PreferredReturnRate == nil || *loaded.PreferredReturnRate != 0.08 {
			t.Errorf("Expected preferred return rate 0.08, got %v", loaded.PreferredReturnRate)
		}
	})

	t.Run("returns not found for unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		_, err := svc.GetFund(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

// TestFundService_Investors tests investor creation and updates.
//
// WHY: Investor positions are the calculator's per-investor input. Creation
// must parse the contribution date and updates must never touch the
// cumulative distributed balance.
func TestFundService_Investors(t *testing.T) {
	t.Run("creates an investor with a contribution date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		fund := testutil.NewFund().Build(t, db)

		inv, err := svc.CreateInvestor(context.Background(), fund.ID, request.CreateInvestorRequest{
			Name:             "Pension LP",
			CalledAmount:     500_000,
			ContributionDate: strPtr("2024-03-15"),
		})
		if err != nil {
			t.Fatalf("CreateInvestor() returned unexpected error: %v", err)
		}

		if inv.ContributionDate == nil {
			t.Fatal("Expected contribution date to be set")
		}
		if inv.ContributionDate.Format("2006-01-02") != "2024-03-15" {
			t.Errorf("Expected contribution date 2024-03-15, got %s", inv.ContributionDate.Format("2006-01-02"))
		}
	})

	t.Run("rejects creating an investor on an unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		_, err := svc.CreateInvestor(context.Background(), testutil.MakeID(), request.CreateInvestorRequest{
			Name:         "Pension LP",
			CalledAmount: 500_000,
		})
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("update does not touch the distributed balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		fund := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestor(fund.ID).
			WithCalledAmount(100_000).
			WithDistributedAmount(40_000).
			Build(t, db)

		updated, err := svc.UpdateInvestor(context.Background(), inv.ID, request.UpdateInvestorRequest{
			Name:         strPtr("Renamed LP"),
			CalledAmount: floatPtr(150_000),
		})
		if err != nil {
			t.Fatalf("UpdateInvestor() returned unexpected error: %v", err)
		}

		if updated.Name != "Renamed LP" {
			t.Errorf("Expected renamed investor, got %q", updated.Name)
		}
		if updated.CalledAmount != 150_000 {
			t.Errorf("Expected called amount 150000, got %.2f", updated.CalledAmount)
		}
		if updated.DistributedAmount != 40_000 {
			t.Errorf("Expected distributed balance to survive update, got %.2f", updated.DistributedAmount)
		}
	})

	t.Run("fails for unknown investor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		_, err := svc.UpdateInvestor(context.Background(), testutil.MakeID(), request.UpdateInvestorRequest{
			Name: strPtr("Ghost"),
		})
		if !errors.Is(err, apperrors.ErrInvestorNotFound) {
			t.Errorf("Expected ErrInvestorNotFound, got %v", err)
		}
	})
}

// TestFundService_ReplaceTiers tests wholesale tier replacement.
//
// WHY: Tier configuration is replaced, never patched. A replace must leave
// exactly the submitted tiers, in tier order, with no leftovers from the
// previous configuration.
func TestFundService_ReplaceTiers(t *testing.T) {
	t.Run("replaces the configuration wholesale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		fund := testutil.NewFund().Build(t, db)
		testutil.CreateStandardTiers(t, db, fund.ID)

		tiers, err := svc.ReplaceTiers(context.Background(), fund.ID, request.ReplaceTiersRequest{
			Tiers: []request.TierRequest{
				{TierOrder: 2, TierName: "preferred_return", PrefRate: floatPtr(0.06)},
				{TierOrder: 1, TierName: "return_of_capital"},
			},
		})
		if err != nil {
			t.Fatalf("ReplaceTiers() returned unexpected error: %v", err)
		}

		if len(tiers) != 2 {
			t.Fatalf("Expected 2 tiers after replace, got %d", len(tiers))
		}

		// Returned in tier order regardless of submission order.
		if tiers[0].TierName != model.TierReturnOfCapital {
			t.Errorf("Expected return_of_capital first, got %s", tiers[0].TierName)
		}
		if tiers[1].TierName != model.TierPreferredReturn {
			t.Errorf("Expected preferred_return second, got %s", tiers[1].TierName)
		}
		if tiers[1].PrefRate == nil || *tiers[1].PrefRate != 0.06 {
			t.Errorf("Expected pref rate 0.06, got %v", tiers[1].PrefRate)
		}
	})

	t.Run("fails for unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		_, err := svc.ReplaceTiers(context.Background(), testutil.MakeID(), request.ReplaceTiersRequest{
			Tiers: []request.TierRequest{{TierOrder: 1, TierName: "return_of_capital"}},
		})
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("rejects replacement once a calculation is approved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		distSvc := testutil.NewTestDistributionService(t, db)

		fund, dist := buildReferenceFund(t, db)
		calc := saveDraftCalculation(t, distSvc, dist.ID)
		if _, err := distSvc.Approve(context.Background(), calc.ID, "controller-1"); err != nil {
			t.Fatalf("Approve() returned unexpected error: %v", err)
		}

		_, err := svc.ReplaceTiers(context.Background(), fund.ID, request.ReplaceTiersRequest{
			Tiers: []request.TierRequest{{TierOrder: 1, TierName: "return_of_capital"}},
		})
		if !errors.Is(err, apperrors.ErrTiersLocked) {
			t.Fatalf("Expected ErrTiersLocked, got %v", err)
		}

		// The approved calculation's tier configuration must survive intact.
		tiers, err := svc.GetTiers(fund.ID)
		if err != nil {
			t.Fatalf("GetTiers() returned unexpected error: %v", err)
		}
		if len(tiers) != 4 {
			t.Errorf("Expected the original 4 tiers, got %d", len(tiers))
		}
	})

	t.Run("draft calculations do not lock the configuration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		distSvc := testutil.NewTestDistributionService(t, db)

		fund, dist := buildReferenceFund(t, db)
		saveDraftCalculation(t, distSvc, dist.ID)

		tiers, err := svc.ReplaceTiers(context.Background(), fund.ID, request.ReplaceTiersRequest{
			Tiers: []request.TierRequest{{TierOrder: 1, TierName: "return_of_capital"}},
		})
		if err != nil {
			t.Fatalf("ReplaceTiers() returned unexpected error: %v", err)
		}
		if len(tiers) != 1 {
			t.Errorf("Expected 1 tier after replace, got %d", len(tiers))
		}
	})
}
