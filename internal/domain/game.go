package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Game represents a physical game in the catalog.
//
// IsLoaned is a cached availability flag: it is true exactly when an active
// loan references this game. Only the game repository's reserve/release
// operations may flip it.
type Game struct {
	ID               uuid.UUID
	Name             string
	Publishers       []string
	Genres           []string
	ExternalSourceID *string
	IsLoaned         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewGame creates a locally registered game.
func NewGame(name string, publishers, genres []string) (*Game, error) {
	if err := validateGameFields(name, publishers, genres); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Game{
		ID:         uuid.New(),
		Name:       name,
		Publishers: publishers,
		Genres:     genres,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewImportedGame creates a game sourced from the external catalog. Imported
// entries may arrive with empty publisher or genre lists.
func NewImportedGame(externalID, name string, publishers, genres []string) *Game {
	if publishers == nil {
		publishers = []string{}
	}
	if genres == nil {
		genres = []string{}
	}

	now := time.Now()
	return &Game{
		ID:               uuid.New(),
		Name:             name,
		Publishers:       publishers,
		Genres:           genres,
		ExternalSourceID: &externalID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// UpdateDetails replaces the game's catalog fields. The caller is responsible
// for checking the loan guard first; a loaned game must not be modified.
func (g *Game) UpdateDetails(name string, publishers, genres []string) error {
	if err := validateGameFields(name, publishers, genres); err != nil {
		return err
	}

	g.Name = name
	g.Publishers = publishers
	g.Genres = genres
	g.UpdatedAt = time.Now()
	return nil
}

func validateGameFields(name string, publishers, genres []string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(publishers) == 0 {
		return fmt.Errorf("%w: at least one publisher is required", ErrInvalidInput)
	}
	if len(genres) == 0 {
		return fmt.Errorf("%w: at least one genre is required", ErrInvalidInput)
	}
	return nil
}
