package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/testutil"
)

func setupAccrualHandler(t *testing.T) (*AccrualHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAccrualService(t, db)
	return NewAccrualHandler(svc), db
}

func TestAccrualHandler_FundAccruals(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("returns the fund's snapshots for the requested date", func(t *testing.T) {
		handler, db := setupAccrualHandler(t)
		svc := testutil.NewTestAccrualService(t, db)

		fund := testutil.NewFund().WithPreferredReturnRate(0.08).Build(t, db)
		testutil.NewInvestor(fund.ID).
			WithCalledAmount(100_000).
			WithContributionDate(asOf.AddDate(0, 0, -365)).
			Build(t, db)

		if _, err := svc.RunSnapshots(context.Background(), asOf); err != nil {
			t.Fatalf("RunSnapshots() returned unexpected error: %v", err)
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/fund/"+fund.ID+"/accruals?date=2025-06-30",
			map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()

		handler.FundAccruals(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var snapshots []model.AccrualSnapshot
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&snapshots)

		if len(snapshots) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(snapshots))
		}
		if snapshots[0].FundID != fund.ID {
			t.Errorf("Expected snapshot for fund %s, got %s", fund.ID, snapshots[0].FundID)
		}
	})

	t.Run("returns 400 for a malformed date", func(t *testing.T) {
		handler, db := setupAccrualHandler(t)
		fund := testutil.NewFund().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/fund/"+fund.ID+"/accruals?date=30-06-2025",
			map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()

		handler.FundAccruals(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for an unknown fund", func(t *testing.T) {
		handler, _ := setupAccrualHandler(t)
		unknown := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/fund/"+unknown+"/accruals",
			map[string]string{"uuid": unknown})
		w := httptest.NewRecorder()

		handler.FundAccruals(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
