// Package game manages the game catalog. Updates and deletes are gated on
// the loan guard: a loaned game is immutable and undeletable.
package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
)

// Service handles game catalog operations.
type Service struct {
	uow domain.UnitOfWork
}

// NewService creates a new game service.
func NewService(uow domain.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// Create registers a new game in the catalog.
func (s *Service) Create(ctx context.Context, name string, publishers, genres []string) (*domain.Game, error) {
	game, err := domain.NewGame(name, publishers, genres)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Games().Insert(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// Get retrieves a game by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	return s.uow.Games().GetByID(ctx, id)
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]*domain.Game, error) {
	return s.uow.Games().List(ctx)
}

// Update replaces a game's catalog fields. It fails with ErrGameLoaned while
// the game is out on loan, leaving the record untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name string, publishers, genres []string) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	game, err := uow.Games().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if game.IsLoaned {
		return domain.ErrGameLoaned
	}
	if err := game.UpdateDetails(name, publishers, genres); err != nil {
		return err
	}

	// The repository re-checks is_loaned in the same statement, so a loan
	// created between the read and the write still aborts the update.
	if err := uow.Games().Update(ctx, game); err != nil {
		return err
	}

	return uow.Commit()
}

// Delete removes a game that is not currently loaned.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Games().Delete(ctx, id)
}
