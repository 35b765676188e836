// Package server exposes workspaces over a JSON HTTP API.
//
// Routes:
//
//	GET    /healthz
//	GET    /items
//	POST   /workspaces                       {"name"}
//	GET    /workspaces/{ws}
//	POST   /workspaces/{ws}/grid             {"rows","columns"}
//	DELETE /workspaces/{ws}/grid
//	POST   /workspaces/{ws}/resize           {"rows","columns","absolute"}
//	POST   /workspaces/{ws}/convert          {"cellId","index"}
//	POST   /workspaces/{ws}/items            {"kind","count"}
//	POST   /workspaces/{ws}/move             {"id","row","col"}
//	GET    /workspaces/{ws}/export?format=json|xlsx
//	POST   /workspaces/{ws}/import           (a JSON export document)
//
// Errors are returned as {"code": "...", "error": "..."} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blockgrid/pkg/workspace"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Server serves the workspaces of one manager.
type Server struct {
	manager *workspace.Manager
	logger  *log.Logger
	router  chi.Router
}

// New creates a Server. A nil logger uses log.Default().
func New(m *workspace.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{manager: m, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(serverHeader)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/items", s.handleItems)
	r.Post("/workspaces", s.handleCreateWorkspace)
	r.Route("/workspaces/{ws}", func(r chi.Router) {
		r.Get("/", s.handleGetWorkspace)
		r.Post("/grid", s.handleCreateGrid)
		r.Delete("/grid", s.handleResetGrid)
		r.Post("/resize", s.handleResize)
		r.Post("/convert", s.handleConvert)
		r.Post("/items", s.handleAddItem)
		r.Post("/move", s.handleMove)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
