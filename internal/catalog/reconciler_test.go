package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
)

// mockGameRepo is an in-memory game store keyed by external source id.
type mockGameRepo struct {
	byExternalID map[string]*domain.Game
	batchCalls   int
	existsCalls  int
	existsErr    error
	insertErr    error
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{byExternalID: make(map[string]*domain.Game)}
}

func (r *mockGameRepo) Insert(ctx context.Context, g *domain.Game) error { return nil }

func (r *mockGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	return nil, domain.ErrGameNotFound
}

func (r *mockGameRepo) List(ctx context.Context) ([]*domain.Game, error) { return nil, nil }

func (r *mockGameRepo) Update(ctx context.Context, g *domain.Game) error { return nil }

func (r *mockGameRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *mockGameRepo) ReserveForLoan(ctx context.Context, id uuid.UUID) error { return nil }

func (r *mockGameRepo) ReleaseFromLoan(ctx context.Context, id uuid.UUID) error { return nil }

func (r *mockGameRepo) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	r.existsCalls++
	if r.existsErr != nil {
		return nil, r.existsErr
	}
	existing := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := r.byExternalID[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (r *mockGameRepo) InsertBatch(ctx context.Context, games []*domain.Game) (int, error) {
	r.batchCalls++
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	inserted := 0
	for _, g := range games {
		if g.ExternalSourceID == nil {
			continue
		}
		if _, ok := r.byExternalID[*g.ExternalSourceID]; ok {
			continue
		}
		r.byExternalID[*g.ExternalSourceID] = g
		inserted++
	}
	return inserted, nil
}

func feed() []ExternalGame {
	return []ExternalGame{
		{ID: "1", Name: "Chrono Trigger", Publishers: []string{"Square"}, Genres: []string{"RPG"}},
		{ID: "2", Name: "Shadow of the Colossus", Publishers: []string{"Sony"}, Genres: []string{"Adventure"}},
		{ID: "3", Name: "Ico", Publishers: []string{"Sony"}, Genres: []string{"Adventure"}},
	}
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("imports all new entries once", func(t *testing.T) {
		repo := newMockGameRepo()
		rec := NewReconciler(repo)

		summary, err := rec.Reconcile(ctx, feed())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Imported != 3 || summary.TotalSeen != 3 {
			t.Errorf("expected 3/3, got %d/%d", summary.Imported, summary.TotalSeen)
		}
		if repo.existsCalls != 1 {
			t.Errorf("existence check must be one batched query, got %d", repo.existsCalls)
		}
	})

	t.Run("second run imports nothing", func(t *testing.T) {
		repo := newMockGameRepo()
		rec := NewReconciler(repo)

		if _, err := rec.Reconcile(ctx, feed()); err != nil {
			t.Fatalf("first run: %v", err)
		}
		summary, err := rec.Reconcile(ctx, feed())
		if err != nil {
			t.Fatalf("second run: %v", err)
		}
		if summary.Imported != 0 {
			t.Errorf("expected 0 imported on rerun, got %d", summary.Imported)
		}
		if summary.TotalSeen != 3 {
			t.Errorf("expected 3 seen on rerun, got %d", summary.TotalSeen)
		}
	})

	t.Run("one new id among known ones imports exactly one", func(t *testing.T) {
		repo := newMockGameRepo()
		rec := NewReconciler(repo)

		if _, err := rec.Reconcile(ctx, feed()); err != nil {
			t.Fatalf("first run: %v", err)
		}

		extended := append(feed(), ExternalGame{ID: "4", Name: "Okami", Publishers: []string{"Capcom"}, Genres: []string{"Adventure"}})
		summary, err := rec.Reconcile(ctx, extended)
		if err != nil {
			t.Fatalf("second run: %v", err)
		}
		if summary.Imported != 1 {
			t.Errorf("expected exactly 1 imported, got %d", summary.Imported)
		}
	})

	t.Run("blank names and ids are skipped", func(t *testing.T) {
		repo := newMockGameRepo()
		rec := NewReconciler(repo)

		entries := []ExternalGame{
			{ID: "1", Name: "   "},
			{ID: "", Name: "Nameless Source"},
			{ID: "2", Name: "Ico", Publishers: []string{"Sony"}, Genres: []string{"Adventure"}},
		}
		summary, err := rec.Reconcile(ctx, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Imported != 1 {
			t.Errorf("expected 1 imported, got %d", summary.Imported)
		}
		if summary.TotalSeen != 3 {
			t.Errorf("expected 3 seen, got %d", summary.TotalSeen)
		}
	})

	t.Run("duplicate ids within the feed import once", func(t *testing.T) {
		repo := newMockGameRepo()
		rec := NewReconciler(repo)

		entries := []ExternalGame{
			{ID: "1", Name: "Chrono Trigger", Publishers: []string{"Square"}, Genres: []string{"RPG"}},
			{ID: "1", Name: "Chrono Trigger (reissue)", Publishers: []string{"Square"}, Genres: []string{"RPG"}},
		}
		summary, err := rec.Reconcile(ctx, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Imported != 1 {
			t.Errorf("expected 1 imported, got %d", summary.Imported)
		}
	})

	t.Run("empty batch performs no write", func(t *testing.T) {
		repo := newMockGameRepo()
		rec := NewReconciler(repo)

		if _, err := rec.Reconcile(ctx, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.batchCalls != 0 {
			t.Errorf("expected no batch write, got %d", repo.batchCalls)
		}

		if _, err := rec.Reconcile(ctx, feed()); err != nil {
			t.Fatalf("seed run: %v", err)
		}
		if _, err := rec.Reconcile(ctx, feed()); err != nil {
			t.Fatalf("rerun: %v", err)
		}
		if repo.batchCalls != 1 {
			t.Errorf("rerun with nothing new must not write, got %d batch calls", repo.batchCalls)
		}
	})
}

// fakeSource returns a fixed feed or error.
type fakeSource struct {
	games []ExternalGame
	err   error
	calls int
}

func (s *fakeSource) Fetch(ctx context.Context) ([]ExternalGame, error) {
	s.calls++
	return s.games, s.err
}

func TestJobRun(t *testing.T) {
	ctx := context.Background()

	t.Run("imports the feed", func(t *testing.T) {
		repo := newMockGameRepo()
		src := &fakeSource{games: feed()}
		job := NewJob(src, NewReconciler(repo), nil)

		summary, err := job.Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Imported != 3 {
			t.Errorf("expected 3 imported, got %d", summary.Imported)
		}
	})

	t.Run("source failure aborts before any write", func(t *testing.T) {
		repo := newMockGameRepo()
		src := &fakeSource{err: errors.New("catalog unreachable")}
		job := NewJob(src, NewReconciler(repo), nil)

		_, err := job.Run(ctx)
		if err == nil {
			t.Fatal("expected error")
		}
		if repo.batchCalls != 0 || repo.existsCalls != 0 {
			t.Error("failed fetch must leave the store untouched")
		}
	})
}
