package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by repositories
// and services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Friend errors
var (
	ErrFriendNotFound = errors.New("friend not found")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrEmailTaken     = errors.New("email already in use")
)

// Game errors
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyLoaned = errors.New("game is already loaned")
	ErrGameLoaned        = errors.New("game is loaned and cannot be modified")
	ErrDuplicateGame     = errors.New("game with this external source id already exists")
	ErrGameHasLoans      = errors.New("game has loan history and cannot be deleted")
)

// Loan errors
var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanAlreadyReturned = errors.New("loan already returned")
	ErrReturnBeforeLoan    = errors.New("expected return date is before the loan date")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
