package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/healthbridge/internal/bridge"
	"github.com/claude/healthbridge/internal/importer"
	"github.com/claude/healthbridge/internal/models"
)

// HAEImporter loads a Health Auto Export payload into the HealthKit
// mirror. Nil on platforms without one.
type HAEImporter interface {
	Import(ctx context.Context, payload *models.HAEPayload) (*importer.Summary, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	bridge   *bridge.Bridge
	importer HAEImporter
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(b *bridge.Bridge, importer HAEImporter, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		bridge:   b,
		importer: importer,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Bridge endpoints. Every operation resolves: coded failures still
	// come back as HTTP 200 with success=false in the body.
	s.router.Post("/api/v1/authorize", s.handleAuthorize)
	s.router.Get("/api/v1/health-data", s.handleHealthData)
	s.router.Get("/api/v1/identifiers", s.handleIdentifiers)
	s.router.Get("/api/v1/identifiers/{id}", s.handleIdentifierLookup)
	s.router.Get("/api/v1/date-range", s.handleDateRange)

	s.router.Route("/api/v1/background-sync", func(r chi.Router) {
		r.Get("/", s.handleSyncStatus)
		r.Get("/status", s.handleSyncStatus)
		r.Post("/register", s.handleSyncRegister)
		r.Post("/enable", s.handleSyncEnable)
		r.Post("/disable", s.handleSyncDisable)
	})

	// Event push for clients that want onHealthDataChange and
	// onBackgroundSyncComplete without polling.
	s.router.Get("/api/v1/events", s.handleEvents)

	s.router.Handle("/metrics", promhttp.Handler())

	// Mirror import (API key required)
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleImport)
	})
}
