package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is an in-memory stand-in for the drafting assistant backend. It
// serves the same REST surface the client consumes, so the client can be
// developed and tested without the real service.
type Server struct {
	cfg        Config
	state      *State
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given state.
func New(cfg Config, state *State, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		state:  state,
		logger: logger,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/prompts", s.handleListPrompts)
	r.Get("/prompt/{id}", s.handleGetPrompt)
	r.Post("/chat", s.handleChat)

	r.Get("/get_document", s.handleGetDocument)
	r.Post("/update_section", s.handleUpdateSection)
	r.Post("/get_required_documents", s.handleRequiredDocuments)
	r.Post("/print_document", s.handlePrint)

	r.Get("/list_versions", s.handleListVersions)
	r.Post("/save_version", s.handleSaveVersion)
	r.Get("/load_version/{name}", s.handleLoadVersion)
	r.Delete("/delete_version/{name}", s.handleDeleteVersion)

	r.Post("/upload", s.handleUpload)
	r.Get("/documents", s.handleListDocuments)
	r.Delete("/delete_document/{name}", s.handleDeleteDocument)
	r.Post("/clear_session", s.handleClearSession)

	r.Route("/api/models", func(r chi.Router) {
		r.Get("/", s.handleListModels)
		r.Get("/current", s.handleCurrentModel)
		r.Post("/select", s.handleSelectModel)
	})

	return r
}

// requestLogger logs each request through zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("stub request")
	})
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// State returns the server's in-memory state.
func (s *Server) State() *State { return s.state }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("draftdesk stub backend listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
