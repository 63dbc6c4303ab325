// Package api serves the latest Points+ results over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pointsplus/internal/adapters/publish"
	"github.com/okian/pointsplus/internal/adapters/repository"
	"github.com/okian/pointsplus/pkg/logger"
	"github.com/okian/pointsplus/pkg/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	TopN(ctx context.Context, n int) ([]publish.Player, error)
	Player(ctx context.Context, id int64) (publish.PlayerDetail, error)
	Distribution(ctx context.Context) ([]publish.Bin, error)
	Metadata(ctx context.Context) (publish.Metadata, error)
	Count(ctx context.Context) int
}

// Route registers extra routes on the router, such as static files.
type Route func(r chi.Router)

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler       *HealthHandler
	leaderboardHandler  *LeaderboardHandler
	playerHandler       *PlayerHandler
	distributionHandler *DistributionHandler
	metadataHandler     *MetadataHandler

	log    logger.Logger
	extras []Route
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRoutes mounts additional routes next to the API.
func WithRoutes(routes ...Route) Option {
	return func(s *Server) {
		s.extras = append(s.extras, routes...)
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int, opts ...Option) *Server {
	s := &Server{
		healthHandler:       NewHealthHandler(deps),
		leaderboardHandler:  NewLeaderboardHandler(deps, maxLimit),
		playerHandler:       NewPlayerHandler(deps),
		distributionHandler: NewDistributionHandler(deps),
		metadataHandler:     NewMetadataHandler(deps),
		log:                 logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with every route attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	r.Get("/players/{id}", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "players"))
	r.Get("/distribution", MetricsMiddleware(s.distributionHandler.HandleGetDistribution, "distribution"))
	r.Get("/metadata", MetricsMiddleware(s.metadataHandler.HandleGetMetadata, "metadata"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	for _, route := range s.extras {
		route(r)
	}
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "unavailable", fmt.Errorf("%s: %w", op, ErrUnavailable))
	case errors.Is(err, repository.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: %w", op, ErrNotFound))
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
	}
}
