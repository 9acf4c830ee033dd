package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// TierRepository provides data access methods for the waterfall_tier table.
type TierRepository struct {
	db *sql.DB
}

// NewTierRepository creates a new TierRepository with the provided database connection.
func NewTierRepository(db *sql.DB) *TierRepository {
	return &TierRepository{db: db}
}

// GetTiers retrieves a fund's waterfall tiers ordered ascending by tier
// order. This ordering is the processing sequence handed to the calculator.
func (r *TierRepository) GetTiers(fundID string) ([]model.WaterfallTier, error) {
	query := `
		SELECT id, fund_id, tier_order, tier_name, pref_rate, catch_up_pct, gp_split_pct, lp_split_pct
		FROM waterfall_tier
		WHERE fund_id = ?
		ORDER BY tier_order ASC
	`

	rows, err := r.db.Query(query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query waterfall_tier table: %w", err)
	}
	defer rows.Close()

	tiers := []model.WaterfallTier{}

	for rows.Next() {
		var tier model.WaterfallTier
		var prefRate, catchUpPct, gpSplitPct, lpSplitPct sql.NullFloat64

		err := rows.Scan(
			&tier.ID,
			&tier.FundID,
			&tier.TierOrder,
			&tier.TierName,
			&prefRate,
			&catchUpPct,
			&gpSplitPct,
			&lpSplitPct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waterfall_tier table results: %w", err)
		}

		tier.PrefRate = nullableFloat(prefRate)
		tier.CatchUpPct = nullableFloat(catchUpPct)
		tier.GPSplitPct = nullableFloat(gpSplitPct)
		tier.LPSplitPct = nullableFloat(lpSplitPct)

		tiers = append(tiers, tier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waterfall_tier table: %w", err)
	}

	return tiers, nil
}

// ReplaceTiers atomically replaces a fund's tier configuration.
// Existing rows are deleted and the new set inserted in one transaction so
// a partially applied configuration can never be observed.
func (r *TierRepository) ReplaceTiers(ctx context.Context, fundID string, tiers []model.WaterfallTier) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM waterfall_tier WHERE fund_id = ?`, fundID); err != nil {
		return fmt.Errorf("failed to delete existing tiers: %w", err)
	}

	insertQuery := `
		INSERT INTO waterfall_tier (id, fund_id, tier_order, tier_name, pref_rate, catch_up_pct, gp_split_pct, lp_split_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, tier := range tiers {
		_, err := tx.ExecContext(ctx, insertQuery,
			tier.ID,
			fundID,
			tier.TierOrder,
			string(tier.TierName),
			tier.PrefRate,
			tier.CatchUpPct,
			tier.GPSplitPct,
			tier.LPSplitPct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tier replacement: %w", err)
	}

	return nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
