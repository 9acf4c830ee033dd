package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// querier is the common subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// The migration seeds dates in the short form, while SQLite may round-trip
// timestamps written by the driver in RFC3339, so both are accepted.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// parseNullableTime parses an optional date column into a *time.Time.
func parseNullableTime(str sql.NullString) (*time.Time, error) {
	if !str.Valid || str.String == "" {
		return nil, nil
	}
	parsed, err := ParseTime(str.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
