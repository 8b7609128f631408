package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

// Loan links a game to the friend currently borrowing it. The status moves
// one way only: active loans become returned, never the reverse.
type Loan struct {
	ID             uuid.UUID
	FriendID       uuid.UUID
	GameID         uuid.UUID
	LoanDate       time.Time
	ExpectedReturn time.Time
	ReturnedAt     *time.Time
	Status         LoanStatus
}

// NewLoan creates an active loan starting now.
func NewLoan(friendID, gameID uuid.UUID, expectedReturn, now time.Time) (*Loan, error) {
	if expectedReturn.Before(now) {
		return nil, ErrReturnBeforeLoan
	}

	return &Loan{
		ID:             uuid.New(),
		FriendID:       friendID,
		GameID:         gameID,
		LoanDate:       now,
		ExpectedReturn: expectedReturn,
		Status:         LoanStatusActive,
	}, nil
}

// IsActive reports whether the loan is still open. Activity is defined by the
// status field alone, not by any date comparison.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// Reschedule moves the expected return date of an active loan.
func (l *Loan) Reschedule(newDate time.Time) error {
	if l.Status != LoanStatusActive {
		return ErrLoanAlreadyReturned
	}
	if newDate.Before(l.LoanDate) {
		return ErrReturnBeforeLoan
	}

	l.ExpectedReturn = newDate
	return nil
}

// Return closes the loan, stamping the actual return date exactly once.
func (l *Loan) Return(now time.Time) error {
	if l.Status != LoanStatusActive {
		return ErrLoanAlreadyReturned
	}

	l.Status = LoanStatusReturned
	l.ReturnedAt = &now
	return nil
}
