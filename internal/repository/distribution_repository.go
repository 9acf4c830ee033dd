package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// DistributionRepository provides data access methods for the distribution
// table. Marking a distribution paid happens inside the record transaction,
// so the repository supports binding to an open transaction via WithTx.
type DistributionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewDistributionRepository creates a new DistributionRepository with the provided database connection.
func NewDistributionRepository(db *sql.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *DistributionRepository) WithTx(tx *sql.Tx) *DistributionRepository {
	return &DistributionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *DistributionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetDistribution retrieves a single distribution by ID.
// Returns apperrors.ErrDistributionNotFound if no such distribution exists.
func (r *DistributionRepository) GetDistribution(distributionID string) (model.Distribution, error) {
	query := `
		SELECT id, fund_id, amount, date, status, created_at
		FROM distribution
		WHERE id = ?
	`

	var dist model.Distribution
	var dateStr, createdAtStr string

	err := r.getQuerier().QueryRow(query, distributionID).Scan(
		&dist.ID,
		&dist.FundID,
		&dist.Amount,
		&dateStr,
		&dist.Status,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Distribution{}, apperrors.ErrDistributionNotFound
	}
	if err != nil {
		return model.Distribution{}, fmt.Errorf("failed to query distribution table: %w", err)
	}

	dist.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.Distribution{}, err
	}
	dist.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Distribution{}, err
	}

	return dist, nil
}

// GetDistributionsByFund retrieves all distributions for a fund, most recent first.
func (r *DistributionRepository) GetDistributionsByFund(fundID string) ([]model.Distribution, error) {
	query := `
		SELECT id, fund_id, amount, date, status, created_at
		FROM distribution
		WHERE fund_id = ?
		ORDER BY date DESC
	`

	rows, err := r.getQuerier().Query(query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution table: %w", err)
	}
	defer rows.Close()

	distributions := []model.Distribution{}

	for rows.Next() {
		var dist model.Distribution
		var dateStr, createdAtStr string

		err := rows.Scan(&dist.ID, &dist.FundID, &dist.Amount, &dateStr, &dist.Status, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution table results: %w", err)
		}

		dist.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		dist.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		distributions = append(distributions, dist)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution table: %w", err)
	}

	return distributions, nil
}

// InsertDistribution inserts a new distribution in draft status.
func (r *DistributionRepository) InsertDistribution(ctx context.Context, dist *model.Distribution) error {
	query := `
		INSERT INTO distribution (id, fund_id, amount, date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		dist.ID,
		dist.FundID,
		dist.Amount,
		dist.Date.UTC().Format("2006-01-02"),
		string(dist.Status),
		dist.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert distribution: %w", err)
	}

	return nil
}

// MarkPaid flips a distribution to the terminal paid status.
func (r *DistributionRepository) MarkPaid(ctx context.Context, distributionID string) error {
	query := `UPDATE distribution SET status = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, string(model.DistributionPaid), distributionID)
	if err != nil {
		return fmt.Errorf("failed to mark distribution paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check paid update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrDistributionNotFound
	}

	return nil
}
