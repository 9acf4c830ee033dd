package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// InvestorRepository provides data access methods for the investor table.
// Balance increments run inside the record-distribution transaction, so the
// repository supports binding to an open transaction via WithTx.
type InvestorRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInvestorRepository creates a new InvestorRepository with the provided database connection.
func NewInvestorRepository(db *sql.DB) *InvestorRepository {
	return &InvestorRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *InvestorRepository) WithTx(tx *sql.Tx) *InvestorRepository {
	return &InvestorRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InvestorRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetInvestors retrieves all investors for a fund, ordered by creation time.
// Returns an empty slice if the fund has no investors.
func (r *InvestorRepository) GetInvestors(fundID string) ([]model.Investor, error) {
	query := `
		SELECT id, fund_id, name, is_gp, called_amount, contribution_date, distributed_amount, created_at
		FROM investor
		WHERE fund_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.getQuerier().Query(query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investor table: %w", err)
	}
	defer rows.Close()

	investors := []model.Investor{}

	for rows.Next() {
		var inv model.Investor
		var contributionDate sql.NullString
		var createdAtStr string

		err := rows.Scan(
			&inv.ID,
			&inv.FundID,
			&inv.Name,
			&inv.IsGP,
			&inv.CalledAmount,
			&contributionDate,
			&inv.DistributedAmount,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investor table results: %w", err)
		}

		inv.ContributionDate, err = parseNullableTime(contributionDate)
		if err != nil {
			return nil, err
		}
		inv.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		investors = append(investors, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investor table: %w", err)
	}

	return investors, nil
}

// GetInvestor retrieves a single investor by ID.
// Returns apperrors.ErrInvestorNotFound if no such investor exists.
func (r *InvestorRepository) GetInvestor(investorID string) (model.Investor, error) {
	query := `
		SELECT id, fund_id, name, is_gp, called_amount, contribution_date, distributed_amount, created_at
		FROM investor
		WHERE id = ?
	`

	var inv model.Investor
	var contributionDate sql.NullString
	var createdAtStr string

	err := r.getQuerier().QueryRow(query, investorID).Scan(
		&inv.ID,
		&inv.FundID,
		&inv.Name,
		&inv.IsGP,
		&inv.CalledAmount,
		&contributionDate,
		&inv.DistributedAmount,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Investor{}, apperrors.ErrInvestorNotFound
	}
	if err != nil {
		return model.Investor{}, fmt.Errorf("failed to query investor table: %w", err)
	}

	inv.ContributionDate, err = parseNullableTime(contributionDate)
	if err != nil {
		return model.Investor{}, err
	}
	inv.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Investor{}, err
	}

	return inv, nil
}

// InsertInvestor inserts a new investor record.
func (r *InvestorRepository) InsertInvestor(ctx context.Context, inv *model.Investor) error {
	query := `
		INSERT INTO investor (id, fund_id, name, is_gp, called_amount, contribution_date, distributed_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var contributionDate any
	if inv.ContributionDate != nil {
		contributionDate = inv.ContributionDate.UTC().Format("2006-01-02")
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		inv.ID,
		inv.FundID,
		inv.Name,
		inv.IsGP,
		inv.CalledAmount,
		contributionDate,
		inv.DistributedAmount,
		inv.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investor: %w", err)
	}

	return nil
}

// UpdateInvestor updates an investor's mutable attributes (name, GP flag,
// called capital, contribution date). The distributed balance is excluded:
// only IncrementDistributed may touch it.
func (r *InvestorRepository) UpdateInvestor(ctx context.Context, inv *model.Investor) error {
	query := `
		UPDATE investor
		SET name = ?, is_gp = ?, called_amount = ?, contribution_date = ?
		WHERE id = ?
	`

	var contributionDate any
	if inv.ContributionDate != nil {
		contributionDate = inv.ContributionDate.UTC().Format("2006-01-02")
	}

	result, err := r.getQuerier().ExecContext(ctx, query,
		inv.Name,
		inv.IsGP,
		inv.CalledAmount,
		contributionDate,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update investor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvestorNotFound
	}

	return nil
}

// IncrementDistributed adds the given amount to an investor's cumulative
// distributed balance. Callers are expected to bind the repository to the
// recording transaction via WithTx so the increment commits atomically with
// the status transitions.
func (r *InvestorRepository) IncrementDistributed(ctx context.Context, investorID string, amount float64) error {
	query := `
		UPDATE investor
		SET distributed_amount = distributed_amount + ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, amount, investorID)
	if err != nil {
		return fmt.Errorf("failed to increment distributed amount: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check increment result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvestorNotFound
	}

	return nil
}
