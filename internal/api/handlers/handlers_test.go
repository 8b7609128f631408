package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ludoteca/server/internal/domain"
)

func TestDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"friend not found", domain.ErrFriendNotFound, http.StatusNotFound},
		{"game not found", domain.ErrGameNotFound, http.StatusNotFound},
		{"loan not found", domain.ErrLoanNotFound, http.StatusNotFound},
		{"game already loaned", domain.ErrGameAlreadyLoaned, http.StatusConflict},
		{"game loaned", domain.ErrGameLoaned, http.StatusConflict},
		{"game has loan history", domain.ErrGameHasLoans, http.StatusConflict},
		{"duplicate game", domain.ErrDuplicateGame, http.StatusConflict},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"loan already returned", domain.ErrLoanAlreadyReturned, http.StatusConflict},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"invalid phone", domain.ErrInvalidPhone, http.StatusBadRequest},
		{"return before loan", domain.ErrReturnBeforeLoan, http.StatusBadRequest},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			domainError(rec, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestDomainError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create game: %w", domain.ErrInvalidInput)

	rec := httptest.NewRecorder()
	domainError(rec, wrapped)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDomainError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	domainError(rec, errors.New("pq: connection reset"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["error"] != "internal error" {
		t.Errorf("error = %q, must not leak the cause", body["error"])
	}
}
