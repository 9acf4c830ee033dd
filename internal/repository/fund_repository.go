package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// FundRepository provides data access methods for the fund table.
type FundRepository struct {
	db *sql.DB
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// GetFunds retrieves all funds ordered by creation time.
// Returns an empty slice if no funds exist.
func (r *FundRepository) GetFunds() ([]model.Fund, error) {
	query := `
		SELECT id, name, preferred_return_rate, created_at
		FROM fund
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := []model.Fund{}

	for rows.Next() {
		fund, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}

	return funds, nil
}

// GetFund retrieves a single fund by ID.
// Returns apperrors.ErrFundNotFound if no such fund exists.
func (r *FundRepository) GetFund(fundID string) (model.Fund, error) {
	query := `
		SELECT id, name, preferred_return_rate, created_at
		FROM fund
		WHERE id = ?
	`

	var fund model.Fund
	var rate sql.NullFloat64
	var createdAtStr string

	err := r.db.QueryRow(query, fundID).Scan(&fund.ID, &fund.Name, &rate, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to query fund table: %w", err)
	}

	if rate.Valid {
		fund.PreferredReturnRate = &rate.Float64
	}
	fund.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Fund{}, err
	}

	return fund, nil
}

// InsertFund inserts a new fund record.
func (r *FundRepository) InsertFund(ctx context.Context, fund *model.Fund) error {
	query := `
		INSERT INTO fund (id, name, preferred_return_rate, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		fund.ID,
		fund.Name,
		fund.PreferredReturnRate,
		fund.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}

	return nil
}

func scanFund(rows *sql.Rows) (model.Fund, error) {
	var fund model.Fund
	var rate sql.NullFloat64
	var createdAtStr string

	if err := rows.Scan(&fund.ID, &fund.Name, &rate, &createdAtStr); err != nil {
		return model.Fund{}, fmt.Errorf("failed to scan fund table results: %w", err)
	}

	if rate.Valid {
		fund.PreferredReturnRate = &rate.Float64
	}

	createdAt, err := ParseTime(createdAtStr)
	if err != nil {
		return model.Fund{}, err
	}
	fund.CreatedAt = createdAt

	return fund, nil
}
