package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ludoteca/server/internal/api/handlers"
	"github.com/ludoteca/server/internal/api/middleware"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux     *http.ServeMux
	app     *App
	friends *handlers.FriendHandler
	games   *handlers.GameHandler
	loans   *handlers.LoanHandler
	catalog *handlers.CatalogHandler
}

// NewRouter creates a new API router with all routes configured. The
// requester may be nil; catalog refreshes then run inline.
func NewRouter(app *App, requester handlers.RefreshRequester) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	// Initialize handlers
	r.friends = handlers.NewFriendHandler(app.Friends)
	r.games = handlers.NewGameHandler(app.Games)
	r.loans = handlers.NewLoanHandler(app.Loans)
	r.catalog = handlers.NewCatalogHandler(app.ImportJob, requester)

	// Register routes
	r.registerRoutes()

	// Build middleware chain
	return r.buildMiddlewareChain(r.mux, app)
}

func (r *Router) registerRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Friends
	r.mux.HandleFunc("GET /api/v1/friends", r.friends.List)
	r.mux.HandleFunc("POST /api/v1/friends", r.friends.Create)
	r.mux.HandleFunc("GET /api/v1/friends/{id}", r.friends.Get)
	r.mux.HandleFunc("PUT /api/v1/friends/{id}", r.friends.Update)
	r.mux.HandleFunc("DELETE /api/v1/friends/{id}", r.friends.Delete)
	r.mux.HandleFunc("GET /api/v1/friends/{id}/loans", r.loans.ListByFriend)

	// Games
	r.mux.HandleFunc("GET /api/v1/games", r.games.List)
	r.mux.HandleFunc("POST /api/v1/games", r.games.Create)
	r.mux.HandleFunc("GET /api/v1/games/{id}", r.games.Get)
	r.mux.HandleFunc("PUT /api/v1/games/{id}", r.games.Update)
	r.mux.HandleFunc("DELETE /api/v1/games/{id}", r.games.Delete)

	// Loans
	r.mux.HandleFunc("GET /api/v1/loans", r.loans.List)
	r.mux.HandleFunc("POST /api/v1/loans", r.loans.Create)
	r.mux.HandleFunc("PUT /api/v1/loans/{id}", r.loans.Reschedule)
	r.mux.HandleFunc("POST /api/v1/loans/{id}/return", r.loans.Return)

	// Catalog import (stricter rate limit)
	refreshLimit := middleware.RefreshRateLimitMiddleware(middleware.DefaultRateLimitConfig())
	r.mux.Handle("POST /api/v1/catalog/refresh", refreshLimit(http.HandlerFunc(r.catalog.Refresh)))
}

func (r *Router) buildMiddlewareChain(handler http.Handler, app *App) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)

	// Apply rate limiting (skip in debug mode for easier development)
	if !app.Config.Debug {
		handler = middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig())(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	r.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	// Check database connectivity
	if err := r.app.DB.PingContext(req.Context()); err != nil {
		slog.Error("database health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(req.Context()),
		)
		r.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": map[string]string{
				"database": "unhealthy",
			},
		})
		return
	}

	r.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Helper for JSON responses
func (r *Router) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
