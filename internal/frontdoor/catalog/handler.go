// Package catalog serves the game catalog over HTTP. Each route forwards to
// exactly one upstream call and writes either the upstream body or an
// ErrorPayload.
package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tjfontaine/gamefo-gateway/internal/domain"
	"github.com/tjfontaine/gamefo-gateway/internal/server"
)

// Client is the upstream the handlers forward to. *rawg.Client satisfies it.
type Client interface {
	ListGames(ctx context.Context, p domain.ListGamesParams) (domain.OpaqueJSON, error)
	RecentGames(ctx context.Context, p domain.RecentGamesParams) (domain.OpaqueJSON, error)
	GetGame(ctx context.Context, id string) (domain.OpaqueJSON, error)
	ListReviews(ctx context.Context, id string) (domain.OpaqueJSON, error)
	ListGenres(ctx context.Context) (domain.OpaqueJSON, error)
	ListPlatforms(ctx context.Context) (domain.OpaqueJSON, error)
	SearchGames(ctx context.Context, p domain.SearchParams) (domain.OpaqueJSON, error)
}

// StatusPolicy decides the HTTP status of failure payloads.
type StatusPolicy string

const (
	// StatusMapped writes 400 for missing parameters and 502 for upstream failures.
	StatusMapped StatusPolicy = "mapped"
	// StatusAlwaysOK writes 200 for every response.
	StatusAlwaysOK StatusPolicy = "ok"
)

type Handler struct {
	client Client
	policy StatusPolicy
	logger *slog.Logger
}

func NewHandler(client Client, policy StatusPolicy, logger *slog.Logger) *Handler {
	if policy == "" {
		policy = StatusMapped
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: client,
		policy: policy,
		logger: logger,
	}
}

// RegisterRoutes mounts the catalog under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/games", h.HandleListGames)
		r.Get("/games/recent", h.HandleRecentGames)
		r.Get("/games/", h.HandleGetGame)
		r.Get("/games/{id}", h.HandleGetGame)
		r.Get("/genres", h.HandleListGenres)
		r.Get("/platforms", h.HandleListPlatforms)
		r.Get("/reviews", h.HandleListReviews)
		r.Get("/reviews/", h.HandleListReviews)
		r.Get("/reviews/{id}", h.HandleListReviews)
		r.Get("/search", h.HandleSearch)

		r.NotFound(h.HandleNotFound)
		r.MethodNotAllowed(h.HandleMethodNotAllowed)
	})
}

// HandleNotFound answers unknown /api paths with an ErrorPayload.
func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	server.AddLogField(r.Context(), "frontdoor", "catalog")
	writePayload(w, http.StatusNotFound, domain.ErrorPayload{Error: "Not found"})
}

func (h *Handler) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	server.AddLogField(r.Context(), "frontdoor", "catalog")
	w.Header().Set("Allow", http.MethodGet)
	writePayload(w, http.StatusMethodNotAllowed, domain.ErrorPayload{Error: "Method not allowed"})
}

func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	p := listGamesParams(r.URL.Query())
	body, err := h.client.ListGames(r.Context(), p)
	h.respond(w, r, domain.ResourceGames, body, err)
}

func (h *Handler) HandleRecentGames(w http.ResponseWriter, r *http.Request) {
	p := recentGamesParams(r.URL.Query())
	body, err := h.client.RecentGames(r.Context(), p)
	h.respond(w, r, domain.ResourceRecentGames, body, err)
}

func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respond(w, r, domain.ResourceGame, nil, domain.NewMissingIDError(domain.ResourceGame))
		return
	}
	server.AddLogField(r.Context(), "game_id", id)
	body, err := h.client.GetGame(r.Context(), id)
	h.respond(w, r, domain.ResourceGame, body, err)
}

func (h *Handler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respond(w, r, domain.ResourceReviews, nil, domain.NewMissingIDError(domain.ResourceReviews))
		return
	}
	server.AddLogField(r.Context(), "game_id", id)
	body, err := h.client.ListReviews(r.Context(), id)
	h.respond(w, r, domain.ResourceReviews, body, err)
}

func (h *Handler) HandleListGenres(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.ListGenres(r.Context())
	h.respond(w, r, domain.ResourceGenres, body, err)
}

func (h *Handler) HandleListPlatforms(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.ListPlatforms(r.Context())
	h.respond(w, r, domain.ResourcePlatforms, body, err)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	p := searchParams(r.URL.Query())
	body, err := h.client.SearchGames(r.Context(), p)
	h.respond(w, r, domain.ResourceSearch, body, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, resource domain.Resource, body domain.OpaqueJSON, err error) {
	ctx := r.Context()
	server.AddLogField(ctx, "frontdoor", "catalog")
	server.AddLogField(ctx, "resource", string(resource))
	server.AddLogField(ctx, "query", r.URL.RawQuery)

	w.Header().Set("Content-Type", "application/json")

	if err != nil {
		h.logger.ErrorContext(ctx, "catalog request failed",
			slog.String("request_id", server.GetRequestID(ctx)),
			slog.String("resource", string(resource)),
			slog.String("error", err.Error()),
		)
		server.AddLogField(ctx, "outcome", "error")
		server.AddError(ctx, err)
		h.writeError(w, resource, err)
		return
	}

	server.AddLogField(ctx, "outcome", "ok")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *Handler) writeError(w http.ResponseWriter, resource domain.Resource, err error) {
	status := http.StatusOK
	if h.policy == StatusMapped {
		status = domain.StatusFor(err)
	}

	writePayload(w, status, domain.PayloadFor(resource, err))
}

func writePayload(w http.ResponseWriter, status int, p domain.ErrorPayload) {
	body, err := json.Marshal(p)
	if err != nil {
		body = []byte(`{"error":"` + p.Error + `"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
