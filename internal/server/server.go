package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kvnsw/photosieve/internal/catalog"
	"github.com/kvnsw/photosieve/internal/config"
	"github.com/kvnsw/photosieve/internal/engine"
	"github.com/kvnsw/photosieve/internal/store"
)

// Server is the photosieve HTTP API server. It owns the in-memory
// catalog cache; the library directory is scanned once at startup and on
// demand via the refresh endpoint.
type Server struct {
	db        *store.DB
	cooldowns *store.CooldownStore
	engine    *engine.Engine
	cfg       config.Config
	router    chi.Router
	version   string
	started   time.Time

	catalogMu sync.RWMutex
	catalog   []catalog.Photo
	scannedAt time.Time
}

// New creates a new Server.
func New(db *store.DB, cooldowns *store.CooldownStore, eng *engine.Engine, cfg config.Config, version string) *Server {
	s := &Server{
		db:        db,
		cooldowns: cooldowns,
		engine:    eng,
		cfg:       cfg,
		version:   version,
		started:   time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/batch", s.handleBatch)

		r.Get("/photos", s.handlePhotos)
		r.Post("/catalog/refresh", s.handleRefresh)

		r.Get("/cooldowns", s.handleCooldownStats)
		r.Delete("/cooldowns", s.handleClearCooldowns)
	})

	s.router = r
}

// RefreshCatalog rescans the library root and swaps the cached catalog.
func (s *Server) RefreshCatalog() (int, error) {
	photos, err := catalog.Scan(s.cfg.Library.Root)
	if err != nil {
		return 0, err
	}
	s.SetCatalog(photos)
	return len(photos), nil
}

// SetCatalog replaces the cached catalog directly. Tests use this to
// skip filesystem scanning.
func (s *Server) SetCatalog(photos []catalog.Photo) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	s.catalog = photos
	s.scannedAt = time.Now()
}

func (s *Server) snapshotCatalog() []catalog.Photo {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	return s.catalog
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	s.catalogMu.RLock()
	photoCount := len(s.catalog)
	s.catalogMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
		"photos":  photoCount,
	})
}
