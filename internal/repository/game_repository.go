package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
	"github.com/ludoteca/server/internal/storage"
)

// GameRepository implements domain.GameRepository using SQL. It also carries
// the availability guard: the conditional updates in ReserveForLoan and
// ReleaseFromLoan are the only statements that touch is_loaned, so two
// concurrent reservations of the same game resolve to one winner under the
// row lock.
type GameRepository struct {
	q querier
}

// NewGameRepository creates a new GameRepository.
func NewGameRepository(q querier) *GameRepository {
	return &GameRepository{q: q}
}

// Insert persists a new game.
func (r *GameRepository) Insert(ctx context.Context, game *domain.Game) error {
	publishers, genres, err := marshalGameLists(game)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO games (id, name, publishers, genres, external_source_id, is_loaned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.q.ExecContext(ctx, query,
		game.ID, game.Name, publishers, genres,
		nullString(game.ExternalSourceID), game.IsLoaned,
		game.CreatedAt, game.UpdatedAt,
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrDuplicateGame
	}
	return err
}

// GetByID retrieves a game by id.
func (r *GameRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	query := `
		SELECT id, name, publishers, genres, external_source_id, is_loaned, created_at, updated_at
		FROM games WHERE id = $1
	`
	game, err := scanGame(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	return game, err
}

// List retrieves all games ordered by name.
func (r *GameRepository) List(ctx context.Context) ([]*domain.Game, error) {
	query := `
		SELECT id, name, publishers, genres, external_source_id, is_loaned, created_at, updated_at
		FROM games ORDER BY name
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Update persists catalog changes to a game that is not currently loaned.
// The is_loaned predicate keeps the loaned-game immutability check and the
// write in one atomic statement.
func (r *GameRepository) Update(ctx context.Context, game *domain.Game) error {
	publishers, genres, err := marshalGameLists(game)
	if err != nil {
		return err
	}

	// Placeholders are numbered in order of appearance for the SQLite driver.
	query := `
		UPDATE games SET name = $1, publishers = $2, genres = $3, updated_at = $4
		WHERE id = $5 AND is_loaned = FALSE
	`
	result, err := r.q.ExecContext(ctx, query,
		game.Name, publishers, genres, game.UpdatedAt, game.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingOrLoaned(ctx, game.ID)
	}
	return nil
}

// Delete removes a game that is not currently loaned. A game referenced by
// loan history cannot be deleted; the history wins.
func (r *GameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM games WHERE id = $1 AND is_loaned = FALSE`, id)
	if storage.IsForeignKeyViolation(err) {
		return domain.ErrGameHasLoans
	}
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingOrLoaned(ctx, id)
	}
	return nil
}

// ReserveForLoan atomically claims the game for a new loan. Of two
// concurrent reservations exactly one sees is_loaned = FALSE.
func (r *GameRepository) ReserveForLoan(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE games SET is_loaned = TRUE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND is_loaned = FALSE`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err := r.missingOrLoaned(ctx, id)
		if errors.Is(err, domain.ErrGameLoaned) {
			return domain.ErrGameAlreadyLoaned
		}
		return err
	}
	return nil
}

// ReleaseFromLoan clears the loaned flag set by ReserveForLoan.
func (r *GameRepository) ReleaseFromLoan(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE games SET is_loaned = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND is_loaned = TRUE`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Releasing an unloaned game is harmless; only a missing id is an error.
		var exists bool
		row := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM games WHERE id = $1)`, id)
		if err := row.Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrGameNotFound
		}
	}
	return nil
}

// ExistingExternalIDs reports which of the given external source ids already
// exist, in one batched query.
func (r *GameRepository) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(ids) == 0 {
		return existing, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT external_source_id FROM games WHERE external_source_id IN (%s)`,
		strings.Join(placeholders, ", "))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}

// InsertBatch persists the games in one multi-row insert, skipping rows whose
// external source id already exists. The unique index on external_source_id
// makes the import safe under concurrent runs.
func (r *GameRepository) InsertBatch(ctx context.Context, games []*domain.Game) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}

	var (
		values []string
		args   []any
	)
	for i, game := range games {
		publishers, genres, err := marshalGameLists(game)
		if err != nil {
			return 0, err
		}

		base := i * 8
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			game.ID, game.Name, publishers, genres,
			nullString(game.ExternalSourceID), game.IsLoaned,
			game.CreatedAt, game.UpdatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO games (id, name, publishers, genres, external_source_id, is_loaned, created_at, updated_at)
		VALUES %s
		ON CONFLICT (external_source_id) DO NOTHING
	`, strings.Join(values, ", "))

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// missingOrLoaned explains a zero-row conditional write on a game.
func (r *GameRepository) missingOrLoaned(ctx context.Context, id uuid.UUID) error {
	var loaned bool
	row := r.q.QueryRowContext(ctx, `SELECT is_loaned FROM games WHERE id = $1`, id)
	if err := row.Scan(&loaned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrGameNotFound
		}
		return err
	}
	if loaned {
		return domain.ErrGameLoaned
	}
	return domain.ErrGameNotFound
}

func scanGame(row rowScanner) (*domain.Game, error) {
	var (
		game       domain.Game
		publishers string
		genres     string
		externalID sql.NullString
	)
	err := row.Scan(&game.ID, &game.Name, &publishers, &genres,
		&externalID, &game.IsLoaned, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(publishers), &game.Publishers); err != nil {
		return nil, fmt.Errorf("decode publishers: %w", err)
	}
	if err := json.Unmarshal([]byte(genres), &game.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if externalID.Valid {
		game.ExternalSourceID = &externalID.String
	}
	return &game, nil
}

func marshalGameLists(game *domain.Game) (string, string, error) {
	publishers, err := json.Marshal(game.Publishers)
	if err != nil {
		return "", "", fmt.Errorf("encode publishers: %w", err)
	}
	genres, err := json.Marshal(game.Genres)
	if err != nil {
		return "", "", fmt.Errorf("encode genres: %w", err)
	}
	return string(publishers), string(genres), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Ensure GameRepository implements domain.GameRepository
var _ domain.GameRepository = (*GameRepository)(nil)
