// Package httpapi exposes the service over HTTP: account signup and login,
// spreadsheet upload and listing, insight generation and chart data. All
// user-scoped routes sit behind the bearer-token middleware.
package httpapi

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/sheetglance/internal/logging"
	"github.com/dmitrijs2005/sheetglance/internal/server/identity"
	"github.com/dmitrijs2005/sheetglance/internal/server/services"
)

type Server struct {
	router   chi.Router
	provider identity.Provider
	files    *services.FileService
	insights *services.InsightService
	charts   *services.ChartService
	logger   logging.Logger
}

func NewServer(provider identity.Provider, files *services.FileService, insights *services.InsightService, charts *services.ChartService, logger logging.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		provider: provider,
		files:    files,
		insights: insights,
		charts:   charts,
		logger:   logger.With("module", "httpapi"),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Info(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/signup", s.handleSignup)
	s.router.Post("/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/upload", s.handleUpload)
		r.Get("/files", s.handleFiles)
		r.Post("/insights", s.handleInsightsGenerate)
		r.Get("/insights/{fileID}", s.handleInsightsCurrent)
		r.Get("/chart-data/{fileID}", s.handleChartData)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
