package domain

import (
	"context"

	"github.com/google/uuid"
)

// FriendRepository persists friend aggregates.
type FriendRepository interface {
	Insert(ctx context.Context, friend *Friend) error
	GetByID(ctx context.Context, id uuid.UUID) (*Friend, error)
	List(ctx context.Context) ([]*Friend, error)
	Update(ctx context.Context, friend *Friend) error
}

// GameRepository persists game aggregates and carries the availability guard.
//
// ReserveForLoan and ReleaseFromLoan are the only operations allowed to flip
// a game's IsLoaned flag, and both must be atomic with respect to concurrent
// reservations of the same game.
type GameRepository interface {
	Insert(ctx context.Context, game *Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	List(ctx context.Context) ([]*Game, error)
	Update(ctx context.Context, game *Game) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveForLoan marks the game as loaned. It returns
	// ErrGameAlreadyLoaned when the game is already out, or
	// ErrGameNotFound when the id is unknown.
	ReserveForLoan(ctx context.Context, id uuid.UUID) error

	// ReleaseFromLoan clears the loaned flag set by ReserveForLoan.
	ReleaseFromLoan(ctx context.Context, id uuid.UUID) error

	// ExistingExternalIDs reports which of the given external source ids are
	// already present, using a single batched query.
	ExistingExternalIDs(ctx context.Context, ids []string) (map[string]struct{}, error)

	// InsertBatch persists the games in one write, skipping entries whose
	// external source id already exists. It returns the number inserted.
	InsertBatch(ctx context.Context, games []*Game) (int, error)
}

// LoanRepository persists loan aggregates.
type LoanRepository interface {
	Insert(ctx context.Context, loan *Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	Update(ctx context.Context, loan *Loan) error
	List(ctx context.Context, onlyActive bool) ([]*Loan, error)
	ListByFriend(ctx context.Context, friendID uuid.UUID) ([]*Loan, error)
}

// UnitOfWork groups repository operations into one transactional boundary.
// Begin returns a transaction-scoped unit of work; writes made through its
// repositories become visible together on Commit or not at all.
type UnitOfWork interface {
	Begin(ctx context.Context) (UnitOfWork, error)
	Commit() error
	Rollback() error

	Friends() FriendRepository
	Games() GameRepository
	Loans() LoanRepository
}
