package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/landrise/Fund-Distribution-Backend/internal/repository"
	"github.com/landrise/Fund-Distribution-Backend/internal/service"
)

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	fundRepo := repository.NewFundRepository(db)
	investorRepo := repository.NewInvestorRepository(db)
	tierRepo := repository.NewTierRepository(db)
	calculationRepo := repository.NewCalculationRepository(db)

	return service.NewFundService(
		fundRepo,
		investorRepo,
		tierRepo,
		calculationRepo,
	)
}

func NewTestDistributionService(t *testing.T, db *sql.DB) *service.DistributionService {
	t.Helper()

	fundRepo := repository.NewFundRepository(db)
	investorRepo := repository.NewInvestorRepository(db)
	tierRepo := repository.NewTierRepository(db)
	distributionRepo := repository.NewDistributionRepository(db)
	calculationRepo := repository.NewCalculationRepository(db)

	return service.NewDistributionService(
		db,
		fundRepo,
		investorRepo,
		tierRepo,
		distributionRepo,
		calculationRepo,
	)
}

func NewTestAccrualService(t *testing.T, db *sql.DB) *service.AccrualService {
	t.Helper()

	fundRepo := repository.NewFundRepository(db)
	investorRepo := repository.NewInvestorRepository(db)
	calculationRepo := repository.NewCalculationRepository(db)
	accrualRepo := repository.NewAccrualRepository(db)

	return service.NewAccrualService(
		fundRepo,
		investorRepo,
		calculationRepo,
		accrualRepo,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Growth Fund")
//	// Returns: "Growth Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeInvestorName generates a unique investor name for testing.
//
// Example usage:
//
//	name := testutil.MakeInvestorName("LP")
//	// Returns: "LP ABC123"
func MakeInvestorName(base string) string {
	if base == "" {
		base = "Investor"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
