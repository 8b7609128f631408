package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ludoteca/server/internal/domain"
	"github.com/ludoteca/server/internal/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	service *game.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(service *game.Service) *GameHandler {
	return &GameHandler{service: service}
}

// GameResponse represents a game in API responses
type GameResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Publishers       []string `json:"publishers"`
	Genres           []string `json:"genres"`
	ExternalSourceID *string  `json:"external_source_id,omitempty"`
	IsLoaned         bool     `json:"is_loaned"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// GameRequest is the request body for creating or updating a game
type GameRequest struct {
	Name       string   `json:"name"`
	Publishers []string `json:"publishers"`
	Genres     []string `json:"genres"`
}

func gameResponse(g *domain.Game) GameResponse {
	return GameResponse{
		ID:               g.ID.String(),
		Name:             g.Name,
		Publishers:       g.Publishers,
		Genres:           g.Genres,
		ExternalSourceID: g.ExternalSourceID,
		IsLoaned:         g.IsLoaned,
		CreatedAt:        g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        g.UpdatedAt.Format(time.RFC3339),
	}
}

// Create adds a game to the inventory
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := h.service.Create(r.Context(), req.Name, req.Publishers, req.Genres)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, gameResponse(g))
}

// List returns the full inventory
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.List(r.Context())
	if err != nil {
		domainError(w, err)
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, g := range games {
		response = append(response, gameResponse(g))
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"games": response,
		"total": len(response),
	})
}

// Get retrieves a game by ID
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid game ID")
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, gameResponse(g))
}

// Update changes a game's details. Loaned games cannot be edited.
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid game ID")
		return
	}

	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, req.Name, req.Publishers, req.Genres); err != nil {
		domainError(w, err)
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, gameResponse(g))
}

// Delete removes a game. Loaned games cannot be deleted.
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid game ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "game deleted"})
}
