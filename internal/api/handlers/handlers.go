// Package handlers contains the HTTP handlers for the public API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ludoteca/server/internal/domain"
)

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// domainError translates a domain error into an HTTP response. Unrecognized
// errors become a 500 without leaking the cause.
func domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrFriendNotFound),
		errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrGameAlreadyLoaned),
		errors.Is(err, domain.ErrGameLoaned),
		errors.Is(err, domain.ErrGameHasLoans),
		errors.Is(err, domain.ErrDuplicateGame),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrLoanAlreadyReturned),
		errors.Is(err, domain.ErrConflict):
		jsonError(w, http.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrReturnBeforeLoan),
		errors.Is(err, domain.ErrInvalidInput):
		jsonError(w, http.StatusBadRequest, err.Error())

	default:
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
