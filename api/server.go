package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/revelaction/goldtree/config"
	"github.com/revelaction/goldtree/gold"
	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/storage"
)

// Loader reads the whole library again, for reloads.
type Loader func(ctx context.Context) (sent.Library, error)

// Server is the HTTP API server for goldtree.
type Server struct {
	router chi.Router

	// lib is replaced as a whole on reload, never modified
	lib atomic.Pointer[sent.Library]

	load  Loader
	golds storage.GoldWriter
	log   *slog.Logger
	cfg   config.Config

	goldDefaults gold.Options
}

// NewServer creates and configures the HTTP server. load and golds may be
// nil: reloading and storing gold exports are then disabled.
func NewServer(lib sent.Library, load Loader, golds storage.GoldWriter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		load:  load,
		golds: golds,
		log:   log,
		cfg:   cfg,
	}
	s.lib.Store(&lib)

	opts, err := cfg.GoldOptions()
	if err != nil {
		log.Warn("invalid gold defaults, using built-in ones", "error", err)
		opts = gold.DefaultOptions()
	}
	s.goldDefaults = opts

	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Library returns the current library.
func (s *Server) Library() sent.Library {
	return *s.lib.Load()
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/docs", s.handleListDocuments)
		r.Post("/reload", s.handleReload)

		r.Route("/docs/{docID}", func(r chi.Router) {
			r.Get("/sentences", s.handleListSentences)
			r.Get("/sentences/{n}", s.handleSentence)
			r.Get("/sentences/{n}/tree", s.handleTree)
			r.Get("/stats", s.handleStats)
			r.Post("/gold", s.handleGold)
			r.Get("/golds", s.handleListGolds)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
