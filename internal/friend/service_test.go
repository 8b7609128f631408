package friend

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
)

// mockUnitOfWork backs the friend service tests with an in-memory store.
type mockUnitOfWork struct {
	friends map[uuid.UUID]*domain.Friend
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{friends: make(map[uuid.UUID]*domain.Friend)}
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (domain.UnitOfWork, error) { return m, nil }
func (m *mockUnitOfWork) Commit() error                                        { return nil }
func (m *mockUnitOfWork) Rollback() error                                      { return nil }
func (m *mockUnitOfWork) Friends() domain.FriendRepository                     { return &mockFriendRepo{m} }
func (m *mockUnitOfWork) Games() domain.GameRepository                         { return nil }
func (m *mockUnitOfWork) Loans() domain.LoanRepository                         { return nil }

type mockFriendRepo struct{ m *mockUnitOfWork }

func (r *mockFriendRepo) Insert(ctx context.Context, f *domain.Friend) error {
	for _, existing := range r.m.friends {
		if existing.Email == f.Email {
			return domain.ErrEmailTaken
		}
	}
	r.m.friends[f.ID] = f
	return nil
}

func (r *mockFriendRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Friend, error) {
	f, ok := r.m.friends[id]
	if !ok {
		return nil, domain.ErrFriendNotFound
	}
	return f, nil
}

func (r *mockFriendRepo) List(ctx context.Context) ([]*domain.Friend, error) {
	var out []*domain.Friend
	for _, f := range r.m.friends {
		if !f.IsDeleted() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *mockFriendRepo) Update(ctx context.Context, f *domain.Friend) error {
	if _, ok := r.m.friends[f.ID]; !ok {
		return domain.ErrFriendNotFound
	}
	r.m.friends[f.ID] = f
	return nil
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()
	m := newMockUnitOfWork()
	svc := NewService(m)

	friend, err := svc.Register(ctx, "Ana", "ana@example.com", "+55 11 98765-4321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if friend.IsDeleted() {
		t.Error("new friend should not be deleted")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Outra Ana", "ana@example.com", "+55 11 91234-5678")
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bruno", "nope", "+55 11 91234-5678")
		if !errors.Is(err, domain.ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	m := newMockUnitOfWork()
	svc := NewService(m)

	friend, err := svc.Register(ctx, "Ana", "ana@example.com", "+55 11 98765-4321")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Delete(ctx, friend.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The record survives as soft-deleted but is gone from reads.
	if _, ok := m.friends[friend.ID]; !ok {
		t.Fatal("soft delete must keep the record")
	}
	if _, err := svc.Get(ctx, friend.ID); !errors.Is(err, domain.ErrFriendNotFound) {
		t.Errorf("expected ErrFriendNotFound after delete, got %v", err)
	}

	t.Run("second delete", func(t *testing.T) {
		err := svc.Delete(ctx, friend.ID)
		if !errors.Is(err, domain.ErrFriendNotFound) {
			t.Errorf("expected ErrFriendNotFound, got %v", err)
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	m := newMockUnitOfWork()
	svc := NewService(m)

	friend, err := svc.Register(ctx, "Ana", "ana@example.com", "+55 11 98765-4321")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.Update(ctx, friend.ID, "Ana Clara", "ana.clara@example.com", "+55 11 91234-5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Ana Clara" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}

	t.Run("unknown friend", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), "X", "x@example.com", "+55 11 91234-5678")
		if !errors.Is(err, domain.ErrFriendNotFound) {
			t.Errorf("expected ErrFriendNotFound, got %v", err)
		}
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	m := newMockUnitOfWork()
	svc := NewService(m)

	a, _ := svc.Register(ctx, "Ana", "ana@example.com", "+55 11 98765-4321")
	if _, err := svc.Register(ctx, "Bruno", "bruno@example.com", "+55 11 91234-5678"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	friends, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(friends) != 1 {
		t.Errorf("expected 1 friend, got %d", len(friends))
	}
}
