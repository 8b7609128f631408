// Package friend manages the friend roster. Friends are soft-deleted so
// loans can keep referencing them.
package friend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
)

// Service handles friend roster operations.
type Service struct {
	uow domain.UnitOfWork
	now func() time.Time
}

// NewService creates a new friend service.
func NewService(uow domain.UnitOfWork) *Service {
	return &Service{uow: uow, now: time.Now}
}

// Register adds a new friend after validating contact details.
func (s *Service) Register(ctx context.Context, name, email, phone string) (*domain.Friend, error) {
	friend, err := domain.NewFriend(name, email, phone)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Friends().Insert(ctx, friend); err != nil {
		return nil, err
	}
	return friend, nil
}

// Get retrieves a friend by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Friend, error) {
	friend, err := s.uow.Friends().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if friend.IsDeleted() {
		return nil, domain.ErrFriendNotFound
	}
	return friend, nil
}

// List returns all friends that have not been deleted.
func (s *Service) List(ctx context.Context) ([]*domain.Friend, error) {
	return s.uow.Friends().List(ctx)
}

// Update replaces a friend's contact details.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, email, phone string) (*domain.Friend, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	friend, err := uow.Friends().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if friend.IsDeleted() {
		return nil, domain.ErrFriendNotFound
	}
	if err := friend.UpdateDetails(name, email, phone); err != nil {
		return nil, err
	}
	if err := uow.Friends().Update(ctx, friend); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return friend, nil
}

// Delete soft-deletes a friend. The record stays behind any existing loans.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	friend, err := uow.Friends().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if friend.IsDeleted() {
		return domain.ErrFriendNotFound
	}

	friend.Delete(s.now())
	if err := uow.Friends().Update(ctx, friend); err != nil {
		return err
	}

	return uow.Commit()
}
