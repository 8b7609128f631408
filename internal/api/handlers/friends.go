package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
	"github.com/ludoteca/server/internal/friend"
)

// FriendHandler handles friend endpoints
type FriendHandler struct {
	service *friend.Service
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(service *friend.Service) *FriendHandler {
	return &FriendHandler{service: service}
}

// FriendResponse represents a friend in API responses
type FriendResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FriendRequest is the request body for creating or updating a friend
type FriendRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func friendResponse(f *domain.Friend) FriendResponse {
	return FriendResponse{
		ID:        f.ID.String(),
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
		UpdatedAt: f.UpdatedAt.Format(time.RFC3339),
	}
}

// Create registers a new friend
func (h *FriendHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.service.Register(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, friendResponse(f))
}

// List returns all registered friends
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	friends, err := h.service.List(r.Context())
	if err != nil {
		domainError(w, err)
		return
	}

	response := make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		response = append(response, friendResponse(f))
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"friends": response,
		"total":   len(response),
	})
}

// Get retrieves a friend by ID
func (h *FriendHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid friend ID")
		return
	}

	f, err := h.service.Get(r.Context(), id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, friendResponse(f))
}

// Update changes a friend's details
func (h *FriendHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid friend ID")
		return
	}

	var req FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.service.Update(r.Context(), id, req.Name, req.Email, req.Phone)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, friendResponse(f))
}

// Delete soft-deletes a friend
func (h *FriendHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid friend ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "friend deleted"})
}
