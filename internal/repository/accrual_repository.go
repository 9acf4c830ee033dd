package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// AccrualRepository provides data access methods for the accrual_snapshot table.
type AccrualRepository struct {
	db *sql.DB
}

// NewAccrualRepository creates a new AccrualRepository with the provided database connection.
func NewAccrualRepository(db *sql.DB) *AccrualRepository {
	return &AccrualRepository{db: db}
}

// UpsertSnapshot writes an investor's accrual snapshot for a date,
// replacing any existing snapshot for the same investor and date so the
// nightly job can be rerun safely.
func (r *AccrualRepository) UpsertSnapshot(ctx context.Context, snapshot *model.AccrualSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}

	query := `
		INSERT INTO accrual_snapshot (id, fund_id, investor_id, date, accrued_preferred)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (investor_id, date)
		DO UPDATE SET accrued_preferred = excluded.accrued_preferred
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.FundID,
		snapshot.InvestorID,
		snapshot.Date.UTC().Format("2006-01-02"),
		snapshot.AccruedPreferred,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert accrual snapshot: %w", err)
	}

	return nil
}

// GetSnapshots retrieves a fund's accrual snapshots for a given date.
func (r *AccrualRepository) GetSnapshots(fundID string, date time.Time) ([]model.AccrualSnapshot, error) {
	query := `
		SELECT id, fund_id, investor_id, date, accrued_preferred
		FROM accrual_snapshot
		WHERE fund_id = ? AND date = ?
	`

	rows, err := r.db.Query(query, fundID, date.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.AccrualSnapshot{}

	for rows.Next() {
		var snap model.AccrualSnapshot
		var dateStr string

		if err := rows.Scan(&snap.ID, &snap.FundID, &snap.InvestorID, &dateStr, &snap.AccruedPreferred); err != nil {
			return nil, fmt.Errorf("failed to scan accrual_snapshot results: %w", err)
		}

		snap.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snap)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accrual_snapshot table: %w", err)
	}

	return snapshots, nil
}
