package domain

import "errors"

// Validation errors reject a request before anything is written.
var (
	// ErrUnbalancedEntry indicates that total debit and total credit differ.
	ErrUnbalancedEntry = errors.New("total debit and credit must be equal")
	// ErrEmptyEntry indicates a journal entry without postings.
	ErrEmptyEntry = errors.New("journal entry has no postings")
	// ErrInvalidPosting indicates a negative amount or a posting with both sides set.
	ErrInvalidPosting = errors.New("posting must have a non-negative debit or credit, not both")
	// ErrAmountOutOfRange indicates an amount beyond the stored precision.
	ErrAmountOutOfRange = errors.New("amount must have at most 16 integer digits and 4 decimal places")
	// ErrNameRequired indicates an account without a name.
	ErrNameRequired = errors.New("account name is required")
	// ErrInvalidCodeFormat indicates an account code that is not a dot-delimited list of positive integers.
	ErrInvalidCodeFormat = errors.New("invalid account code format")
	// ErrInvalidHierarchy indicates a main account with a parent or a sub-account without one.
	ErrInvalidHierarchy = errors.New("invalid account hierarchy")
	// ErrInvalidAccountType indicates an unsupported account type.
	ErrInvalidAccountType = errors.New("invalid account type")
	// ErrInvalidPagination indicates a page or limit below 1.
	ErrInvalidPagination = errors.New("page and limit must be positive")
	// ErrInvalidDateRange indicates a start date after the end date.
	ErrInvalidDateRange = errors.New("start date is after end date")
	// ErrTenantRequired indicates a request without tenant scope.
	ErrTenantRequired = errors.New("tenant id is required")
)

// Not found errors.
var (
	// ErrAccountNotFound indicates that the account is absent or out of tenant scope.
	ErrAccountNotFound = errors.New("account not found")
	// ErrParentNotFound indicates that the requested parent account does not exist.
	ErrParentNotFound = errors.New("parent account not found")
	// ErrJournalEntryNotFound indicates that the journal entry is absent or out of tenant scope.
	ErrJournalEntryNotFound = errors.New("journal entry not found")
)

// Conflict errors may be retried by the caller.
var (
	// ErrCodeConflict indicates that a concurrent creation took the derived account code.
	ErrCodeConflict = errors.New("account code already exists")
)

// Integrity errors signal a corrupted ledger.
var (
	// ErrCyclicHierarchy indicates a parent chain that revisits an account.
	ErrCyclicHierarchy = errors.New("cyclic account hierarchy")
	// ErrBalanceMismatch indicates a cached balance that disagrees with the transaction history.
	ErrBalanceMismatch = errors.New("account balance mismatch")
)

// IsValidation returns true if the error rejects malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnbalancedEntry) ||
		errors.Is(err, ErrEmptyEntry) ||
		errors.Is(err, ErrInvalidPosting) ||
		errors.Is(err, ErrAmountOutOfRange) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrInvalidCodeFormat) ||
		errors.Is(err, ErrInvalidHierarchy) ||
		errors.Is(err, ErrInvalidAccountType) ||
		errors.Is(err, ErrInvalidPagination) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrTenantRequired)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrParentNotFound) ||
		errors.Is(err, ErrJournalEntryNotFound)
}

// IsConflict returns true if the error is a retryable uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCodeConflict)
}

// IsIntegrity returns true if the error reports a corrupted ledger.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrCyclicHierarchy) ||
		errors.Is(err, ErrBalanceMismatch)
}
