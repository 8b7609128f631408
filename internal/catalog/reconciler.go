package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ludoteca/server/internal/domain"
)

// ImportSummary reports the outcome of one reconciliation run.
type ImportSummary struct {
	Imported  int `json:"imported"`
	TotalSeen int `json:"total_seen"`
}

// Reconciler merges external catalog entries into the local game store.
// Only games whose external id is not yet present are persisted, in a single
// batch; existing games are never modified. Re-running with the same feed
// imports nothing.
type Reconciler struct {
	games domain.GameRepository
}

// NewReconciler creates a new Reconciler.
func NewReconciler(games domain.GameRepository) *Reconciler {
	return &Reconciler{games: games}
}

// Reconcile computes and persists the set of not-yet-imported games.
// Entries with a blank name or id are skipped silently. The existence check
// is one batched query and the insert is one batched write, independent of
// feed size.
func (r *Reconciler) Reconcile(ctx context.Context, externals []ExternalGame) (ImportSummary, error) {
	summary := ImportSummary{TotalSeen: len(externals)}

	ids := make([]string, 0, len(externals))
	seen := make(map[string]struct{}, len(externals))
	for _, ext := range externals {
		if !importable(ext) {
			continue
		}
		if _, ok := seen[ext.ID]; ok {
			continue
		}
		seen[ext.ID] = struct{}{}
		ids = append(ids, ext.ID)
	}
	if len(ids) == 0 {
		return summary, nil
	}

	existing, err := r.games.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return summary, fmt.Errorf("check existing external ids: %w", err)
	}

	var newGames []*domain.Game
	added := make(map[string]struct{}, len(ids))
	for _, ext := range externals {
		if !importable(ext) {
			continue
		}
		if _, ok := existing[ext.ID]; ok {
			continue
		}
		if _, ok := added[ext.ID]; ok {
			continue
		}
		added[ext.ID] = struct{}{}
		newGames = append(newGames, domain.NewImportedGame(ext.ID, ext.Name, ext.Publishers, ext.Genres))
	}

	if len(newGames) == 0 {
		return summary, nil
	}

	inserted, err := r.games.InsertBatch(ctx, newGames)
	if err != nil {
		return summary, fmt.Errorf("insert imported games: %w", err)
	}

	summary.Imported = inserted
	return summary, nil
}

func importable(ext ExternalGame) bool {
	return strings.TrimSpace(ext.Name) != "" && strings.TrimSpace(ext.ID) != ""
}
