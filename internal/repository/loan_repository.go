package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
)

// LoanRepository implements domain.LoanRepository using SQL.
type LoanRepository struct {
	q querier
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(q querier) *LoanRepository {
	return &LoanRepository{q: q}
}

// Insert persists a new loan.
func (r *LoanRepository) Insert(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, friend_id, game_id, loan_date, expected_return, returned_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		loan.ID, loan.FriendID, loan.GameID, loan.LoanDate,
		loan.ExpectedReturn, nullTime(loan.ReturnedAt), string(loan.Status),
	)
	return err
}

// GetByID retrieves a loan by id.
func (r *LoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, friend_id, game_id, loan_date, expected_return, returned_at, status
		FROM loans WHERE id = $1
	`
	loan, err := scanLoan(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	return loan, err
}

// Update persists state changes to an existing loan. Only active loans accept
// writes; the status predicate makes the active-to-returned transition a
// single atomic statement, so of two racing returns exactly one wins.
// Placeholders are numbered in order of appearance for the SQLite driver.
func (r *LoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans SET expected_return = $1, returned_at = $2, status = $3
		WHERE id = $4 AND status = 'active'
	`
	result, err := r.q.ExecContext(ctx, query,
		loan.ExpectedReturn, nullTime(loan.ReturnedAt), string(loan.Status), loan.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingOrReturned(ctx, loan.ID)
	}
	return nil
}

// missingOrReturned explains a zero-row conditional write on a loan.
func (r *LoanRepository) missingOrReturned(ctx context.Context, id uuid.UUID) error {
	var status string
	row := r.q.QueryRowContext(ctx, `SELECT status FROM loans WHERE id = $1`, id)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrLoanNotFound
		}
		return err
	}
	if status == string(domain.LoanStatusReturned) {
		return domain.ErrLoanAlreadyReturned
	}
	return domain.ErrLoanNotFound
}

// List retrieves loans ordered by loan date, newest first. With onlyActive
// set, the filter is the status column alone.
func (r *LoanRepository) List(ctx context.Context, onlyActive bool) ([]*domain.Loan, error) {
	query := `
		SELECT id, friend_id, game_id, loan_date, expected_return, returned_at, status
		FROM loans
	`
	var args []any
	if onlyActive {
		query += ` WHERE status = $1`
		args = append(args, string(domain.LoanStatusActive))
	}
	query += ` ORDER BY loan_date DESC`

	return r.queryLoans(ctx, query, args...)
}

// ListByFriend retrieves all loans for one friend, newest first.
func (r *LoanRepository) ListByFriend(ctx context.Context, friendID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT id, friend_id, game_id, loan_date, expected_return, returned_at, status
		FROM loans WHERE friend_id = $1
		ORDER BY loan_date DESC
	`
	return r.queryLoans(ctx, query, friendID)
}

func (r *LoanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]*domain.Loan, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var (
		loan       domain.Loan
		returnedAt sql.NullTime
		status     string
	)
	err := row.Scan(&loan.ID, &loan.FriendID, &loan.GameID, &loan.LoanDate,
		&loan.ExpectedReturn, &returnedAt, &status)
	if err != nil {
		return nil, err
	}
	if returnedAt.Valid {
		loan.ReturnedAt = &returnedAt.Time
	}
	loan.Status = domain.LoanStatus(status)
	return &loan, nil
}

// Ensure LoanRepository implements domain.LoanRepository
var _ domain.LoanRepository = (*LoanRepository)(nil)
