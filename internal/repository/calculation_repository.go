package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// CalculationRepository provides data access methods for the
// distribution_calculation and distribution_line_item tables. Saving and
// recording both span multiple statements, so the repository supports
// binding to an open transaction via WithTx.
type CalculationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCalculationRepository creates a new CalculationRepository with the provided database connection.
func NewCalculationRepository(db *sql.DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CalculationRepository) WithTx(tx *sql.Tx) *CalculationRepository {
	return &CalculationRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CalculationRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetCalculation retrieves a single calculation by ID.
// Returns apperrors.ErrCalculationNotFound if no such calculation exists.
func (r *CalculationRepository) GetCalculation(calculationID string) (model.DistributionCalculation, error) {
	query := `
		SELECT id, distribution_id, fund_id, total_distributable, total_distributed,
		       input_snapshot, output_snapshot, status, approved_by, approved_at, created_at
		FROM distribution_calculation
		WHERE id = ?
	`

	return r.scanCalculationRow(r.getQuerier().QueryRow(query, calculationID))
}

// GetLatestCalculation retrieves the most recently created calculation for a
// distribution. The latest calculation wins: older drafts are superseded on
// save, so at most one live row per distribution is expected.
func (r *CalculationRepository) GetLatestCalculation(distributionID string) (model.DistributionCalculation, error) {
	query := `
		SELECT id, distribution_id, fund_id, total_distributable, total_distributed,
		       input_snapshot, output_snapshot, status, approved_by, approved_at, created_at
		FROM distribution_calculation
		WHERE distribution_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	return r.scanCalculationRow(r.getQuerier().QueryRow(query, distributionID))
}

func (r *CalculationRepository) scanCalculationRow(row *sql.Row) (model.DistributionCalculation, error) {
	var calc model.DistributionCalculation
	var approvedBy sql.NullString
	var approvedAt sql.NullString
	var createdAtStr string

	err := row.Scan(
		&calc.ID,
		&calc.DistributionID,
		&calc.FundID,
		&calc.TotalDistributable,
		&calc.TotalDistributed,
		&calc.InputSnapshot,
		&calc.OutputSnapshot,
		&calc.Status,
		&approvedBy,
		&approvedAt,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.DistributionCalculation{}, apperrors.ErrCalculationNotFound
	}
	if err != nil {
		return model.DistributionCalculation{}, fmt.Errorf("failed to scan distribution_calculation row: %w", err)
	}

	if approvedBy.Valid {
		calc.ApprovedBy = &approvedBy.String
	}
	calc.ApprovedAt, err = parseNullableTime(approvedAt)
	if err != nil {
		return model.DistributionCalculation{}, err
	}
	calc.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.DistributionCalculation{}, err
	}

	return calc, nil
}

// HasCalculationInStatus reports whether the distribution has any
// calculation in one of the given statuses.
func (r *CalculationRepository) HasCalculationInStatus(distributionID string, statuses ...model.CalculationStatus) (bool, error) {
	if len(statuses) == 0 {
		return false, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	args = append(args, distributionID)
	for i, status := range statuses {
		placeholders[i] = "?"
		args = append(args, string(status))
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT COUNT(*)
		FROM distribution_calculation
		WHERE distribution_id = ? AND status IN (` + strings.Join(placeholders, ",") + `)
	`

	var count int
	if err := r.getQuerier().QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count calculations: %w", err)
	}

	return count > 0, nil
}

// HasFundCalculationInStatus reports whether any distribution of the fund
// has a calculation in one of the given statuses.
func (r *CalculationRepository) HasFundCalculationInStatus(fundID string, statuses ...model.CalculationStatus) (bool, error) {
	if len(statuses) == 0 {
		return false, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	args = append(args, fundID)
	for i, status := range statuses {
		placeholders[i] = "?"
		args = append(args, string(status))
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT COUNT(*)
		FROM distribution_calculation dc
		JOIN distribution d ON d.id = dc.distribution_id
		WHERE d.fund_id = ? AND dc.status IN (` + strings.Join(placeholders, ",") + `)
	`

	var count int
	if err := r.getQuerier().QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count calculations: %w", err)
	}

	return count > 0, nil
}

// InsertCalculation inserts a new calculation row.
func (r *CalculationRepository) InsertCalculation(ctx context.Context, calc *model.DistributionCalculation) error {
	query := `
		INSERT INTO distribution_calculation
			(id, distribution_id, fund_id, total_distributable, total_distributed,
			 input_snapshot, output_snapshot, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		calc.ID,
		calc.DistributionID,
		calc.FundID,
		calc.TotalDistributable,
		calc.TotalDistributed,
		calc.InputSnapshot,
		calc.OutputSnapshot,
		string(calc.Status),
		calc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	return nil
}

// DeleteDraftCalculations removes all draft calculations for a distribution.
// Cascading deletes take their line items with them. Approved and recorded
// calculations are never touched.
func (r *CalculationRepository) DeleteDraftCalculations(ctx context.Context, distributionID string) error {
	query := `
		DELETE FROM distribution_calculation
		WHERE distribution_id = ? AND status = ?
	`

	if _, err := r.getQuerier().ExecContext(ctx, query, distributionID, string(model.CalculationDraft)); err != nil {
		return fmt.Errorf("failed to delete draft calculations: %w", err)
	}

	return nil
}

// TransitionStatus moves a calculation from one status to the next with a
// compare-and-swap guard: the update applies only when the current status is
// exactly fromStatus. Returns whether a row was updated. A false result with
// no error means the guard failed (conflict) or the calculation is missing;
// callers disambiguate with GetCalculation.
func (r *CalculationRepository) TransitionStatus(ctx context.Context, calculationID string, from, to model.CalculationStatus) (bool, error) {
	query := `
		UPDATE distribution_calculation
		SET status = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, string(to), calculationID, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to transition calculation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check transition result: %w", err)
	}

	return affected > 0, nil
}

// SetApproval records the approver identity and timestamp alongside the
// draft->approved transition, with the same compare-and-swap guard.
func (r *CalculationRepository) SetApproval(ctx context.Context, calculationID, approverID string, approvedAt time.Time) (bool, error) {
	query := `
		UPDATE distribution_calculation
		SET status = ?, approved_by = ?, approved_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		string(model.CalculationApproved),
		approverID,
		approvedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		calculationID,
		string(model.CalculationDraft),
	)
	if err != nil {
		return false, fmt.Errorf("failed to approve calculation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check approval result: %w", err)
	}

	return affected > 0, nil
}

// InsertLineItems inserts the per-investor per-tier rows for a calculation.
func (r *CalculationRepository) InsertLineItems(ctx context.Context, items []model.DistributionLineItem) error {
	query := `
		INSERT INTO distribution_line_item
			(id, calculation_id, distribution_id, fund_id, investor_id, investor_name,
			 tier_name, tier_order, amount, is_gp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := r.getQuerier().ExecContext(ctx, query,
			item.ID,
			item.CalculationID,
			item.DistributionID,
			item.FundID,
			item.InvestorID,
			item.InvestorName,
			string(item.TierName),
			item.TierOrder,
			item.Amount,
			item.IsGP,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}

	return nil
}

// DeleteLineItemsForDistribution removes every line item belonging to a
// distribution. Used when a new save supersedes a prior draft so duplicates
// can never accumulate.
func (r *CalculationRepository) DeleteLineItemsForDistribution(ctx context.Context, distributionID string) error {
	query := `DELETE FROM distribution_line_item WHERE distribution_id = ?`

	if _, err := r.getQuerier().ExecContext(ctx, query, distributionID); err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}

	return nil
}

// GetLineItems retrieves a calculation's line items ordered by tier then investor.
func (r *CalculationRepository) GetLineItems(calculationID string) ([]model.DistributionLineItem, error) {
	query := `
		SELECT id, calculation_id, distribution_id, fund_id, investor_id, investor_name,
		       tier_name, tier_order, amount, is_gp
		FROM distribution_line_item
		WHERE calculation_id = ?
		ORDER BY tier_order ASC, investor_name ASC
	`

	rows, err := r.getQuerier().Query(query, calculationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution_line_item table: %w", err)
	}
	defer rows.Close()

	items := []model.DistributionLineItem{}

	for rows.Next() {
		var item model.DistributionLineItem

		err := rows.Scan(
			&item.ID,
			&item.CalculationID,
			&item.DistributionID,
			&item.FundID,
			&item.InvestorID,
			&item.InvestorName,
			&item.TierName,
			&item.TierOrder,
			&item.Amount,
			&item.IsGP,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution_line_item results: %w", err)
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution_line_item table: %w", err)
	}

	return items, nil
}

// GetPriorTierTotals aggregates, per investor and tier, the amounts paid by
// all previously recorded distributions of the fund, excluding the given
// distribution. The line-item table is the source of truth for historical
// payouts; this query-time aggregation is deliberately recomputed on every
// calculation instead of trusting a cached running total.
func (r *CalculationRepository) GetPriorTierTotals(fundID, excludeDistributionID string) (map[string]map[model.TierName]float64, error) {
	query := `
		SELECT li.investor_id, li.tier_name, SUM(li.amount)
		FROM distribution_line_item li
		INNER JOIN distribution_calculation dc ON li.calculation_id = dc.id
		WHERE li.fund_id = ?
		  AND li.distribution_id != ?
		  AND dc.status = ?
		GROUP BY li.investor_id, li.tier_name
	`

	rows, err := r.getQuerier().Query(query, fundID, excludeDistributionID, string(model.CalculationRecorded))
	if err != nil {
		return nil, fmt.Errorf("failed to query prior line items: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]map[model.TierName]float64)

	for rows.Next() {
		var investorID string
		var tierName model.TierName
		var amount float64

		if err := rows.Scan(&investorID, &tierName, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan prior line item totals: %w", err)
		}

		if totals[investorID] == nil {
			totals[investorID] = make(map[model.TierName]float64)
		}
		totals[investorID][tierName] += amount
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prior line item totals: %w", err)
	}

	return totals, nil
}

// GetRecordedTierTotals aggregates per-tier totals of a distribution's
// recorded line items, for summary reporting.
func (r *CalculationRepository) GetRecordedTierTotals(distributionID string) ([]model.TierTotal, error) {
	query := `
		SELECT li.tier_name, SUM(li.amount)
		FROM distribution_line_item li
		INNER JOIN distribution_calculation dc ON li.calculation_id = dc.id
		WHERE li.distribution_id = ?
		  AND dc.status = ?
		GROUP BY li.tier_name
		ORDER BY MIN(li.tier_order) ASC
	`

	rows, err := r.getQuerier().Query(query, distributionID, string(model.CalculationRecorded))
	if err != nil {
		return nil, fmt.Errorf("failed to query recorded tier totals: %w", err)
	}
	defer rows.Close()

	totals := []model.TierTotal{}

	for rows.Next() {
		var tt model.TierTotal
		if err := rows.Scan(&tt.TierName, &tt.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan recorded tier totals: %w", err)
		}
		totals = append(totals, tt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recorded tier totals: %w", err)
	}

	return totals, nil
}
