package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sll518/notion-to-md/internal/config"
	"github.com/sll518/notion-to-md/internal/notion"
	"github.com/sll518/notion-to-md/internal/pipeline"
)

// Converter is the page conversion capability the handlers depend on.
type Converter interface {
	PageToMarkdown(ctx context.Context, pageID string) (string, error)
}

// PageFetcher loads page metadata for frontmatter output.
type PageFetcher interface {
	Page(ctx context.Context, pageID string) (*notion.Page, error)
}

// Server is the HTTP API for the conversion service.
type Server struct {
	router    chi.Router
	converter Converter
	pages     PageFetcher
	exporter  *pipeline.Exporter
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(conv Converter, pages PageFetcher, exp *pipeline.Exporter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		converter: conv,
		pages:     pages,
		exporter:  exp,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ServiceAPIKey))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/export", s.handleExport)
		r.Get("/api/export/{jobID}", s.handleExportStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
