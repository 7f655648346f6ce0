// Package web exposes the formula engine's host layer over HTTP, grounded
// on blueprints/bi and blueprints/localbase's mizu server/handler-group
// conventions.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-mizu/mizu"
	"github.com/go-mizu/mizu/middlewares/bearerauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-mizu/blueprints/formulaengine/app/web/handler/api"
	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// APITokenHash is a bcrypt hash of the static bearer token required to
	// reach /api/v1. Empty disables auth, useful for local CLI-only use.
	APITokenHash string
}

// Server is the HTTP server wrapping a store.Store with per-sheet
// dependency graphs.
type Server struct {
	app    *mizu.App
	cfg    Config
	store  store.Store
	engine *formula.Engine

	mu     sync.Mutex
	graphs map[string]*formula.DependencyGraph

	cellsHandler *api.Cells
}

// New creates a new server over an already-opened, schema-ensured store.
func New(cfg Config, st store.Store) *Server {
	s := &Server{
		app:    mizu.New(),
		cfg:    cfg,
		store:  st,
		engine: formula.NewEngine(),
		graphs: make(map[string]*formula.DependencyGraph),
	}
	s.cellsHandler = api.NewCells(st, s.engine, s.sheetGraph)
	s.setupRoutes()
	return s
}

// sheetGraph returns the in-memory dependency graph for sheetID, building
// it from stored formulas on first use (spec.md §3.5/§4.7: the graph is
// process-resident, not itself persisted).
func (s *Server) sheetGraph(ctx context.Context, sheetID string) (*formula.DependencyGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.graphs[sheetID]; ok {
		return g, nil
	}
	g := formula.NewDependencyGraph()
	if err := store.RebuildGraph(ctx, s.store, s.engine, g, sheetID); err != nil {
		return nil, err
	}
	s.graphs[sheetID] = g
	return g, nil
}

// Run starts the server and blocks until it exits or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.app}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("formulaengine: listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

// Handler returns the HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler { return s.app }

func (s *Server) setupRoutes() {
	s.app.Get("/health", func(c *mizu.Ctx) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	s.app.Group("/api/v1", func(r *mizu.Router) {
		if s.cfg.APITokenHash != "" {
			hash := s.cfg.APITokenHash
			r.Use(bearerauth.New(func(token string) bool {
				return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
			}))
		}

		r.Post("/sheets/{sheetID}/cells/{ref}", s.cellsHandler.Set)
		r.Get("/sheets/{sheetID}/cells/{ref}", s.cellsHandler.Get)
		r.Get("/sheets/{sheetID}/cells/{ref}/references", s.cellsHandler.References)
		r.Post("/import", s.cellsHandler.Import)
		r.Get("/sheets/{sheetID}/export.xlsx", s.cellsHandler.ExportXLSX)
		r.Get("/sheets/{sheetID}/export.csv", s.cellsHandler.ExportCSV)
		r.Get("/sheets/{sheetID}/export.pdf", s.cellsHandler.ExportPDF)
	})
}

// HashToken bcrypt-hashes a plaintext API token for use as Config.APITokenHash.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(h), nil
}
