// Package api exposes the skills over HTTP as a JSON API under /api/v1.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yu010101/picohub/line"
	"github.com/yu010101/picohub/mercari"
	"github.com/yu010101/picohub/notion"
	"github.com/yu010101/picohub/rakuten"
	"github.com/yu010101/picohub/weather"
)

// Skills are the skill instances served by the API. Nil entries answer 503
// on their routes, so partially configured deployments still start.
type Skills struct {
	Weather *weather.Skill
	Line    *line.Skill
	Notion  *notion.Skill
	Rakuten *rakuten.Skill
	Mercari *mercari.Skill
}

// Server is the HTTP API server.
type Server struct {
	skills Skills
	logger *zap.Logger
	server *http.Server
}

// NewServer creates the API server on the given port. rateLimit is the
// per-client request budget per minute.
func NewServer(port string, skills Skills, rateLimit int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		skills: skills,
		logger: logger,
	}
	s.server = &http.Server{
		Addr:    ":" + port,
		Handler: s.router(rateLimit),
	}
	return s
}

// router wires middleware and routes.
func (s *Server) router(rateLimit int) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(AccessLog(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/weather/{city}", func(r chi.Router) {
			r.Use(RateLimit(rateLimit, time.Minute))
			r.Get("/forecast", s.handleForecast)
			r.Get("/umbrella", s.handleUmbrella)
			r.Get("/laundry", s.handleLaundry)
			r.Get("/heatstroke", s.handleHeatstroke)
		})

		r.Post("/line/webhook", s.handleLineWebhook)

		r.Route("/notes", func(r chi.Router) {
			r.Post("/pages", s.handleCreatePage)
			r.Get("/pages/{pageID}", s.handleReadPage)
			r.Post("/databases/{databaseID}/records", s.handleAddRecord)
			r.Post("/databases/{databaseID}/daily-report", s.handleDailyReport)
		})

		r.Route("/shopping", func(r chi.Router) {
			r.Use(RateLimit(rateLimit, time.Minute))
			r.Get("/search", s.handleSearch)
			r.Get("/compare", s.handleCompare)
			r.Get("/points", s.handlePoints)
		})

		r.Post("/listings", s.handleListing)
	})

	return r
}

// Handler returns the server's HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("APIサーバーを起動します", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
