package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
	"github.com/ludoteca/server/internal/storage"
)

// FriendRepository implements domain.FriendRepository using SQL.
type FriendRepository struct {
	q querier
}

// NewFriendRepository creates a new FriendRepository.
func NewFriendRepository(q querier) *FriendRepository {
	return &FriendRepository{q: q}
}

// Insert persists a new friend.
func (r *FriendRepository) Insert(ctx context.Context, friend *domain.Friend) error {
	query := `
		INSERT INTO friends (id, name, email, phone, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		friend.ID, friend.Name, friend.Email, friend.Phone,
		nullTime(friend.DeletedAt), friend.CreatedAt, friend.UpdatedAt,
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// GetByID retrieves a friend by id, including soft-deleted records.
func (r *FriendRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Friend, error) {
	query := `
		SELECT id, name, email, phone, deleted_at, created_at, updated_at
		FROM friends WHERE id = $1
	`
	friend, err := scanFriend(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFriendNotFound
	}
	return friend, err
}

// List retrieves all friends that have not been soft-deleted.
func (r *FriendRepository) List(ctx context.Context) ([]*domain.Friend, error) {
	query := `
		SELECT id, name, email, phone, deleted_at, created_at, updated_at
		FROM friends WHERE deleted_at IS NULL
		ORDER BY name
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []*domain.Friend
	for rows.Next() {
		friend, err := scanFriend(rows)
		if err != nil {
			return nil, err
		}
		friends = append(friends, friend)
	}
	return friends, rows.Err()
}

// Update persists changes to an existing friend. Placeholders are numbered in
// order of appearance for the SQLite driver.
func (r *FriendRepository) Update(ctx context.Context, friend *domain.Friend) error {
	query := `
		UPDATE friends SET name = $1, email = $2, phone = $3, deleted_at = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.q.ExecContext(ctx, query,
		friend.Name, friend.Email, friend.Phone,
		nullTime(friend.DeletedAt), friend.UpdatedAt, friend.ID,
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrFriendNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriend(row rowScanner) (*domain.Friend, error) {
	var (
		friend    domain.Friend
		deletedAt sql.NullTime
	)
	err := row.Scan(&friend.ID, &friend.Name, &friend.Email, &friend.Phone,
		&deletedAt, &friend.CreatedAt, &friend.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		friend.DeletedAt = &deletedAt.Time
	}
	return &friend, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Ensure FriendRepository implements domain.FriendRepository
var _ domain.FriendRepository = (*FriendRepository)(nil)
