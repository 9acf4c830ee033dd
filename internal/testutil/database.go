package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Fund table
		CREATE TABLE fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			preferred_return_rate FLOAT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Investor table
		CREATE TABLE investor (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_id VARCHAR(36) NOT NULL,
			name VARCHAR(100) NOT NULL,
			is_gp BOOLEAN NOT NULL DEFAULT FALSE,
			called_amount FLOAT NOT NULL DEFAULT 0,
			contribution_date DATE,
			distributed_amount FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE
		);

		-- Waterfall tier configuration table
		CREATE TABLE waterfall_tier (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_id VARCHAR(36) NOT NULL,
			tier_order INTEGER NOT NULL,
			tier_name VARCHAR(20) NOT NULL,
			pref_rate FLOAT,
			catch_up_pct FLOAT,
			gp_split_pct FLOAT,
			lp_split_pct FLOAT,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE,
			CONSTRAINT unique_fund_tier_order UNIQUE (fund_id, tier_order)
		);

		-- Distribution table
		CREATE TABLE distribution (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_id VARCHAR(36) NOT NULL,
			amount FLOAT NOT NULL,
			date DATE NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'draft',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE
		);

		-- Distribution calculation table
		CREATE TABLE distribution_calculation (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			distribution_id VARCHAR(36) NOT NULL,
			fund_id VARCHAR(36) NOT NULL,
			total_distributable FLOAT NOT NULL,
			total_distributed FLOAT NOT NULL,
			input_snapshot TEXT NOT NULL,
			output_snapshot TEXT NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'draft',
			approved_by VARCHAR(100),
			approved_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(distribution_id) REFERENCES distribution(id) ON DELETE CASCADE,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE
		);

		-- Distribution line item table
		CREATE TABLE distribution_line_item (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			calculation_id VARCHAR(36) NOT NULL,
			distribution_id VARCHAR(36) NOT NULL,
			fund_id VARCHAR(36) NOT NULL,
			investor_id VARCHAR(36) NOT NULL,
			investor_name VARCHAR(100) NOT NULL,
			tier_name VARCHAR(20) NOT NULL,
			tier_order INTEGER NOT NULL,
			amount FLOAT NOT NULL,
			is_gp BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(calculation_id) REFERENCES distribution_calculation(id) ON DELETE CASCADE,
			FOREIGN KEY(distribution_id) REFERENCES distribution(id) ON DELETE CASCADE,
			FOREIGN KEY(investor_id) REFERENCES investor(id) ON DELETE CASCADE
		);

		CREATE INDEX idx_line_item_fund ON distribution_line_item(fund_id);
		CREATE INDEX idx_line_item_distribution ON distribution_line_item(distribution_id);

		-- Accrual snapshot table
		CREATE TABLE accrual_snapshot (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_id VARCHAR(36) NOT NULL,
			investor_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			accrued_preferred FLOAT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE,
			FOREIGN KEY(investor_id) REFERENCES investor(id) ON DELETE CASCADE,
			CONSTRAINT unique_accrual_snapshot UNIQUE (investor_id, date)
		);
	`

	_, err := db.Exec(schema)
	return err
}
