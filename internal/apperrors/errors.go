package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundNotFound indicates that a fund with the given ID does not exist.
	ErrFundNotFound = errors.New("fund not found")

	// ErrInvestorNotFound indicates that an investor with the given ID does not exist.
	ErrInvestorNotFound = errors.New("investor not found")

	// ErrDistributionNotFound indicates that a distribution with the given ID does not exist.
	ErrDistributionNotFound = errors.New("distribution not found")

	// ErrCalculationNotFound indicates that a distribution calculation does not exist.
	ErrCalculationNotFound = errors.New("distribution calculation not found")
)

// Precondition errors represent user-correctable setup problems that block
// an operation before any calculation runs.
var (
	// ErrNoTiersConfigured indicates that the fund has no waterfall tiers,
	// so a distribution cannot be calculated.
	ErrNoTiersConfigured = errors.New("no waterfall tiers configured for fund")

	// ErrNoInvestors indicates that the fund has no investors,
	// so a distribution cannot be calculated.
	ErrNoInvestors = errors.New("no investors found for fund")
)

// Conflict errors represent state-machine violations. They are reported
// distinctly from generic persistence errors so callers can explain
// "already approved/recorded by someone else" instead of a generic failure.
var (
	// ErrDistributionNotDraft indicates that the distribution has already been paid.
	ErrDistributionNotDraft = errors.New("distribution is not in draft status")

	// ErrCalculationNotDraft indicates an approve attempt on a calculation
	// that is not in draft status.
	ErrCalculationNotDraft = errors.New("calculation is not in draft status")

	// ErrCalculationNotApproved indicates a record attempt on a calculation
	// that is not in approved status.
	ErrCalculationNotApproved = errors.New("calculation is not in approved status")

	// ErrCalculationAlreadyApproved indicates a save attempt would overwrite
	// an approved calculation, which is immutable.
	ErrCalculationAlreadyApproved = errors.New("calculation has already been approved")

	// ErrCalculationAlreadyRecorded indicates the calculation is the permanent
	// record of a paid distribution and can never be modified or re-recorded.
	ErrCalculationAlreadyRecorded = errors.New("calculation has already been recorded")

	// ErrTiersLocked indicates the fund's tier configuration cannot be
	// replaced because an approved or recorded calculation depends on it.
	ErrTiersLocked = errors.New("tier configuration is locked by an approved or recorded calculation")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidTierName indicates a tier name outside the known set.
	ErrInvalidTierName = errors.New("invalid tier name")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate that an operation failed, but not due to
// missing entities or validation issues.
var (
	ErrFailedToRetrieveFunds         = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveFund          = errors.New("failed to retrieve fund")
	ErrFailedToRetrieveInvestors     = errors.New("failed to retrieve investors")
	ErrFailedToRetrieveTiers         = errors.New("failed to retrieve waterfall tiers")
	ErrFailedToRetrieveDistributions = errors.New("failed to retrieve distributions")
	ErrFailedToRetrieveCalculation   = errors.New("failed to retrieve calculation")
)
