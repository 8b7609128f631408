package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
	"github.com/ludoteca/server/internal/loan"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	service *loan.Service
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(service *loan.Service) *LoanHandler {
	return &LoanHandler{service: service}
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID             string  `json:"id"`
	FriendID       string  `json:"friend_id"`
	GameID         string  `json:"game_id"`
	LoanDate       string  `json:"loan_date"`
	ExpectedReturn string  `json:"expected_return"`
	ReturnedAt     *string `json:"returned_at,omitempty"`
	Status         string  `json:"status"`
}

// CreateLoanRequest is the request body for opening a loan
type CreateLoanRequest struct {
	FriendID       string    `json:"friend_id"`
	GameID         string    `json:"game_id"`
	ExpectedReturn time.Time `json:"expected_return"`
}

// RescheduleLoanRequest is the request body for moving the expected return date
type RescheduleLoanRequest struct {
	ExpectedReturn time.Time `json:"expected_return"`
}

func loanResponse(l *domain.Loan) LoanResponse {
	resp := LoanResponse{
		ID:             l.ID.String(),
		FriendID:       l.FriendID.String(),
		GameID:         l.GameID.String(),
		LoanDate:       l.LoanDate.Format(time.RFC3339),
		ExpectedReturn: l.ExpectedReturn.Format(time.RFC3339),
		Status:         string(l.Status),
	}
	if l.ReturnedAt != nil {
		returned := l.ReturnedAt.Format(time.RFC3339)
		resp.ReturnedAt = &returned
	}
	return resp
}

// Create opens a loan for a friend on an available game
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	friendID, err := uuid.Parse(req.FriendID)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid friend ID")
		return
	}

	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid game ID")
		return
	}

	l, err := h.service.Create(r.Context(), loan.CreateRequest{
		FriendID:       friendID,
		GameID:         gameID,
		ExpectedReturn: req.ExpectedReturn,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, loanResponse(l))
}

// List returns loans, optionally filtered to active ones
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("only_active") == "true"

	loans, err := h.service.List(r.Context(), onlyActive)
	if err != nil {
		domainError(w, err)
		return
	}

	response := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		response = append(response, loanResponse(l))
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"loans": response,
		"total": len(response),
	})
}

// ListByFriend returns the loan history of one friend
func (h *LoanHandler) ListByFriend(w http.ResponseWriter, r *http.Request) {
	friendID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid friend ID")
		return
	}

	loans, err := h.service.ListByFriend(r.Context(), friendID)
	if err != nil {
		domainError(w, err)
		return
	}

	response := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		response = append(response, loanResponse(l))
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"loans": response,
		"total": len(response),
	})
}

// Reschedule moves the expected return date of an active loan
func (h *LoanHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var req RescheduleLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.service.Reschedule(r.Context(), id, req.ExpectedReturn)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, loanResponse(l))
}

// Return closes a loan and releases the game
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	l, err := h.service.Return(r.Context(), id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, loanResponse(l))
}
