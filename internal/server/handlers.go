package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blockgrid/pkg/buildinfo"
	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/export"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

type createWorkspaceRequest struct {
	Name string `json:"name"`
}

type createGridRequest struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type resizeRequest struct {
	Rows     int  `json:"rows"`
	Columns  int  `json:"columns"`
	Absolute bool `json:"absolute"`
}

type convertRequest struct {
	CellID string `json:"cellId"`
	Index  int    `json:"index"`
}

type addItemRequest struct {
	Kind  string `json:"kind"`
	Count *int   `json:"count"`
}

type moveRequest struct {
	ID  string `json:"id"`
	Row int    `json:"row"`
	Col int    `json:"col"`
}

// operationResponse pairs an operation result with the workspace after it.
type operationResponse struct {
	Result    any               `json:"result,omitempty"`
	Workspace workspace.Summary `json:"workspace"`
}

type itemResponse struct {
	Kind    grid.ItemKind `json:"kind"`
	Tag     int           `json:"tag"`
	Blocks  int           `json:"blocks"`
	Grouped bool          `json:"grouped"`
	Title   string        `json:"title"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleItems(w http.ResponseWriter, _ *http.Request) {
	var items []itemResponse
	for _, spec := range grid.Items() {
		items = append(items, itemResponse{
			Kind:    spec.Kind,
			Tag:     spec.Tag,
			Blocks:  spec.Blocks,
			Grouped: spec.Grouped,
			Title:   spec.Title,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if r.ContentLength != 0 {
		if err := decode(r, w, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	ws, err := s.manager.New(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/workspaces/"+ws.Name())
	writeJSON(w, http.StatusCreated, ws.Summary(true))
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.manager.Get(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Summary(true))
}

func (s *Server) handleCreateGrid(w http.ResponseWriter, r *http.Request) {
	var req createGridRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	// Creating a grid also creates the workspace.
	ws, err := s.manager.New(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := ws.Create(r.Context(), req.Rows, req.Columns); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, operationResponse{Workspace: ws.Summary(true)})
}

func (s *Server) handleResetGrid(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Reset(r.Context(), chi.URLParam(r, "ws")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	ws, ok := s.workspaceWithBody(w, r, &req)
	if !ok {
		return
	}
	var (
		res grid.ResizeResult
		err error
	)
	if req.Absolute {
		res, err = ws.ResizeTo(r.Context(), req.Rows, req.Columns)
	} else {
		res, err = ws.Resize(r.Context(), req.Rows, req.Columns)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Result: res, Workspace: ws.Summary(true)})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	ws, ok := s.workspaceWithBody(w, r, &req)
	if !ok {
		return
	}
	res, err := ws.Convert(r.Context(), req.CellID, req.Index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Result: res, Workspace: ws.Summary(true)})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	ws, ok := s.workspaceWithBody(w, r, &req)
	if !ok {
		return
	}
	count := 1
	if req.Count != nil {
		count = *req.Count
	}
	placed, err := ws.AddItem(r.Context(), grid.ItemKind(req.Kind), count)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Result: placed, Workspace: ws.Summary(true)})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	ws, ok := s.workspaceWithBody(w, r, &req)
	if !ok {
		return
	}
	moved, err := ws.Move(r.Context(), req.ID, req.Row, req.Col)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{
		Result:    map[string]bool{"moved": moved},
		Workspace: ws.Summary(true),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws, err := s.manager.Get(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, ok := ws.State()
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNoGrid, "workspace %q has no grid", ws.Name()))
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(st, w); err != nil {
			s.logger.Error("export failed", "workspace", ws.Name(), "err", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ws.Name()+".xlsx"))
		if err := export.WriteXLSX(st, w); err != nil {
			s.logger.Error("export failed", "workspace", ws.Name(), "err", err)
		}
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown export format %q (want json or xlsx)", format))
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	st, err := export.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid import document: %s", errors.UserMessage(err)))
		return
	}
	ws, err := s.manager.New(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := ws.Import(r.Context(), st); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Workspace: ws.Summary(true)})
}

// workspaceWithBody decodes the request body into req and looks up the
// workspace. On failure it writes the error and returns false.
func (s *Server) workspaceWithBody(w http.ResponseWriter, r *http.Request, req any) (*workspace.Workspace, bool) {
	if err := decode(r, w, req); err != nil {
		s.writeError(w, err)
		return nil, false
	}
	ws, err := s.manager.Get(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return ws, true
}
