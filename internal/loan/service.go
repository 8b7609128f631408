// Package loan owns the loan lifecycle: creation, rescheduling, and return.
// Every command runs inside one unit of work so the game's availability flag
// and the loan's status always change together.
package loan

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
)

// EventPublisher receives loan lifecycle notifications after commit.
// Publishing is best-effort; failures are logged, never surfaced.
type EventPublisher interface {
	LoanCreated(ctx context.Context, loan *domain.Loan) error
	LoanReturned(ctx context.Context, loan *domain.Loan) error
}

// NopPublisher discards all events.
type NopPublisher struct{}

func (NopPublisher) LoanCreated(context.Context, *domain.Loan) error  { return nil }
func (NopPublisher) LoanReturned(context.Context, *domain.Loan) error { return nil }

// Service handles loan commands and queries.
type Service struct {
	uow    domain.UnitOfWork
	events EventPublisher
	now    func() time.Time
}

// NewService creates a new loan service. A nil publisher disables events.
func NewService(uow domain.UnitOfWork, events EventPublisher) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &Service{uow: uow, events: events, now: time.Now}
}

// CreateRequest contains data for opening a loan.
type CreateRequest struct {
	FriendID       uuid.UUID
	GameID         uuid.UUID
	ExpectedReturn time.Time
}

// Create opens a new loan. The friend must exist and not be soft-deleted,
// and the game must be available. The game reservation and the loan insert
// commit atomically; a conflict on either leaves no trace.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Loan, error) {
	now := s.now()
	if req.ExpectedReturn.Before(now) {
		return nil, domain.ErrReturnBeforeLoan
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	friend, err := uow.Friends().GetByID(ctx, req.FriendID)
	if err != nil {
		return nil, err
	}
	if friend.IsDeleted() {
		return nil, domain.ErrFriendNotFound
	}

	if err := uow.Games().ReserveForLoan(ctx, req.GameID); err != nil {
		return nil, err
	}

	loan, err := domain.NewLoan(req.FriendID, req.GameID, req.ExpectedReturn, now)
	if err != nil {
		return nil, err
	}
	if err := uow.Loans().Insert(ctx, loan); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.events.LoanCreated(ctx, loan); err != nil {
		slog.Warn("failed to publish loan created event", "loan_id", loan.ID, "error", err)
	}
	return loan, nil
}

// Reschedule moves the expected return date of an active loan.
func (s *Service) Reschedule(ctx context.Context, loanID uuid.UUID, newDate time.Time) (*domain.Loan, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	loan, err := uow.Loans().GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := loan.Reschedule(newDate); err != nil {
		return nil, err
	}
	if err := uow.Loans().Update(ctx, loan); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return loan, nil
}

// Return closes an active loan. The status flip and the game release become
// visible atomically; a second return of the same loan fails with
// ErrLoanAlreadyReturned and flips nothing.
func (s *Service) Return(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	loan, err := uow.Loans().GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := loan.Return(s.now()); err != nil {
		return nil, err
	}
	if err := uow.Loans().Update(ctx, loan); err != nil {
		return nil, err
	}
	if err := uow.Games().ReleaseFromLoan(ctx, loan.GameID); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.events.LoanReturned(ctx, loan); err != nil {
		slog.Warn("failed to publish loan returned event", "loan_id", loan.ID, "error", err)
	}
	return loan, nil
}

// List returns loans, optionally restricted to active ones.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]*domain.Loan, error) {
	return s.uow.Loans().List(ctx, onlyActive)
}

// ListByFriend returns all loans of one friend, including returned ones.
func (s *Service) ListByFriend(ctx context.Context, friendID uuid.UUID) ([]*domain.Loan, error) {
	if _, err := s.uow.Friends().GetByID(ctx, friendID); err != nil {
		return nil, err
	}
	return s.uow.Loans().ListByFriend(ctx, friendID)
}
