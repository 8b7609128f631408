// Package repository implements the domain repository interfaces on top of
// the SQL storage layer. The same code serves PostgreSQL and SQLite.
package repository

import (
	"context"
	"database/sql"

	"github.com/ludoteca/server/internal/domain"
	"github.com/ludoteca/server/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx so repositories run inside
// or outside a transaction unchanged.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLUnitOfWork implements domain.UnitOfWork over database/sql.
type SQLUnitOfWork struct {
	db *storage.DB
	tx *sql.Tx
	q  querier

	// Lazy-initialized repositories
	friends *FriendRepository
	games   *GameRepository
	loans   *LoanRepository
}

// NewSQLUnitOfWork creates a unit of work bound to the connection pool.
// Repository calls made without Begin run auto-committed.
func NewSQLUnitOfWork(db *storage.DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db, q: db}
}

// Begin starts a new unit of work with a transaction.
func (uow *SQLUnitOfWork) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	tx, err := uow.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &SQLUnitOfWork{db: uow.db, tx: tx, q: tx}, nil
}

// Commit commits the transaction.
func (uow *SQLUnitOfWork) Commit() error {
	if uow.tx == nil {
		return nil
	}
	return uow.tx.Commit()
}

// Rollback rolls back the transaction. Calling it after Commit is a no-op at
// the service layer (database/sql returns sql.ErrTxDone, which callers ignore
// via the deferred rollback pattern).
func (uow *SQLUnitOfWork) Rollback() error {
	if uow.tx == nil {
		return nil
	}
	return uow.tx.Rollback()
}

// Friends returns the friend repository.
func (uow *SQLUnitOfWork) Friends() domain.FriendRepository {
	if uow.friends == nil {
		uow.friends = NewFriendRepository(uow.q)
	}
	return uow.friends
}

// Games returns the game repository.
func (uow *SQLUnitOfWork) Games() domain.GameRepository {
	if uow.games == nil {
		uow.games = NewGameRepository(uow.q)
	}
	return uow.games
}

// Loans returns the loan repository.
func (uow *SQLUnitOfWork) Loans() domain.LoanRepository {
	if uow.loans == nil {
		uow.loans = NewLoanRepository(uow.q)
	}
	return uow.loans
}

// Ensure SQLUnitOfWork implements domain.UnitOfWork
var _ domain.UnitOfWork = (*SQLUnitOfWork)(nil)
