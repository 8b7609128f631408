package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewFriend(t *testing.T) {
	tests := []struct {
		name       string
		friendName string
		email      string
		phone      string
		wantErr    error
	}{
		{"valid", "Ana", "ana@example.com", "+55 11 98765-4321", nil},
		{"empty name", "", "ana@example.com", "+55 11 98765-4321", ErrInvalidInput},
		{"bad email", "Ana", "not-an-email", "+55 11 98765-4321", ErrInvalidEmail},
		{"bad phone", "Ana", "ana@example.com", "abc", ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			friend, err := NewFriend(tt.friendName, tt.email, tt.phone)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if friend.IsDeleted() {
				t.Error("new friend should not be deleted")
			}
		})
	}
}

func TestFriendDelete(t *testing.T) {
	friend, err := NewFriend("Ana", "ana@example.com", "+55 11 98765-4321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := time.Now()
	friend.Delete(first)
	if !friend.IsDeleted() {
		t.Fatal("friend should be deleted")
	}

	// A second delete keeps the original timestamp.
	friend.Delete(first.Add(time.Hour))
	if !friend.DeletedAt.Equal(first) {
		t.Errorf("delete timestamp changed: %v", friend.DeletedAt)
	}
}

func TestFriendUpdateDetails(t *testing.T) {
	friend, err := NewFriend("Ana", "ana@example.com", "+55 11 98765-4321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := friend.UpdateDetails("Ana Clara", "ana.clara@example.com", "+55 11 91234-5678"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if friend.Name != "Ana Clara" {
		t.Errorf("expected updated name, got %q", friend.Name)
	}

	if err := friend.UpdateDetails("Ana", "broken", "+55 11 91234-5678"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}
