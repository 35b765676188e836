package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/observability"
	"github.com/matzehuels/blockgrid/pkg/store"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.New(io.Discard)
	m := workspace.NewManager(workspace.Options{Store: st, Logger: logger})
	return New(m, logger), st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type summaryResponse struct {
	Result    json.RawMessage   `json:"result"`
	Workspace workspace.Summary `json:"workspace"`
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	wantStatus(t, rec, status)
	body := decodeBody[errorBody](t, rec)
	if body.Code != string(code) {
		t.Errorf("code = %q, want %q (%s)", body.Code, code, body.Error)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	wantStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get(RequestIDHeader); got == "" {
		t.Error("missing request id header")
	}
	if got := rec.Header().Get("Server"); !strings.HasPrefix(got, "blockgrid/") {
		t.Errorf("Server header = %q", got)
	}
}

func TestRequestIDEcho(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want echo", got)
	}
}

func TestItems(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/items", "")
	wantStatus(t, rec, http.StatusOK)
	items := decodeBody[[]itemResponse](t, rec)
	if len(items) != len(grid.Items()) {
		t.Fatalf("got %d items, want %d", len(items), len(grid.Items()))
	}
	if items[3].Kind != grid.ItemGroup || !items[3].Grouped {
		t.Errorf("items[3] = %+v", items[3])
	}
}

func TestWorkspaceLifecycle(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/workspaces", `{"name":"plan"}`)
	wantStatus(t, rec, http.StatusCreated)
	if loc := rec.Header().Get("Location"); loc != "/workspaces/plan" {
		t.Errorf("Location = %q", loc)
	}

	// A workspace without a grid is only known to the manager that created it.
	rec = do(t, s, http.MethodGet, "/workspaces/plan", "")
	wantStatus(t, rec, http.StatusOK)
	if sum := decodeBody[workspace.Summary](t, rec); sum.HasGrid {
		t.Error("new workspace should have no grid")
	}

	rec = do(t, s, http.MethodPost, "/workspaces/plan/grid", `{"rows":3,"columns":3}`)
	wantStatus(t, rec, http.StatusCreated)
	sum := decodeBody[summaryResponse](t, rec).Workspace
	if sum.Rows != 3 || sum.Cols != 3 || sum.Capacity != 4 || sum.State == nil {
		t.Fatalf("summary after create = %+v", sum)
	}
	if diff := cmp.Diff([]int{0, 2}, sum.State.ColNumbers); diff != "" {
		t.Errorf("column numbers (-want +got):\n%s", diff)
	}

	rec = do(t, s, http.MethodPost, "/workspaces/plan/items", `{"kind":"single"}`)
	wantStatus(t, rec, http.StatusOK)
	resp := decodeBody[summaryResponse](t, rec)
	var placed []grid.Placement
	if err := json.Unmarshal(resp.Result, &placed); err != nil {
		t.Fatal(err)
	}
	if len(placed) != 1 || placed[0].ID != "i1_0" {
		t.Fatalf("placed = %+v", placed)
	}

	rec = do(t, s, http.MethodPost, "/workspaces/plan/move", `{"id":"i1_0","row":2,"col":2}`)
	wantStatus(t, rec, http.StatusOK)
	resp = decodeBody[summaryResponse](t, rec)
	if string(bytes.TrimSpace(resp.Result)) != `{"moved":true}` {
		t.Errorf("move result = %s", resp.Result)
	}

	rec = do(t, s, http.MethodPost, "/workspaces/plan/resize", `{"rows":1,"columns":1}`)
	wantStatus(t, rec, http.StatusOK)
	if sum := decodeBody[summaryResponse](t, rec).Workspace; sum.Rows != 4 || sum.Cols != 4 {
		t.Errorf("after resize %dx%d, want 4x4", sum.Rows, sum.Cols)
	}

	rec = do(t, s, http.MethodPost, "/workspaces/plan/resize", `{"rows":3,"columns":3,"absolute":true}`)
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, s, http.MethodPost, "/workspaces/plan/convert", `{"cellId":"3","index":2}`)
	wantStatus(t, rec, http.StatusOK)
	if sum := decodeBody[summaryResponse](t, rec).Workspace; sum.Rows != 2 || sum.Cols != 4 {
		t.Errorf("after convert %dx%d, want 2x4", sum.Rows, sum.Cols)
	}

	// The grid is persisted, so a fresh server on the same store sees it.
	fresh := New(workspace.NewManager(workspace.Options{Store: st, Logger: log.New(io.Discard)}), log.New(io.Discard))
	rec = do(t, fresh, http.MethodGet, "/workspaces/plan", "")
	wantStatus(t, rec, http.StatusOK)
	if sum := decodeBody[workspace.Summary](t, rec); sum.Blocks != 1 {
		t.Errorf("reloaded blocks = %d, want 1", sum.Blocks)
	}

	rec = do(t, s, http.MethodDelete, "/workspaces/plan/grid", "")
	wantStatus(t, rec, http.StatusNoContent)
	rec = do(t, s, http.MethodPost, "/workspaces/plan/items", `{"kind":"single"}`)
	wantError(t, rec, http.StatusConflict, errors.ErrCodeNoGrid)
}

func TestResetCorruptWorkspace(t *testing.T) {
	s, st := newTestServer(t)
	wantStatus(t, do(t, s, http.MethodPost, "/workspaces/bad/grid", `{"rows":3,"columns":3}`), http.StatusCreated)
	_ = st.Set(context.Background(), store.NewKeyer("").Key("bad", store.FieldRows), "4")

	fresh := New(workspace.NewManager(workspace.Options{Store: st, Logger: log.New(io.Discard)}), log.New(io.Discard))
	wantError(t, do(t, fresh, http.MethodGet, "/workspaces/bad", ""), http.StatusConflict, errors.ErrCodeCorruptState)

	wantStatus(t, do(t, fresh, http.MethodDelete, "/workspaces/bad/grid", ""), http.StatusNoContent)
	wantError(t, do(t, fresh, http.MethodGet, "/workspaces/bad", ""), http.StatusNotFound, errors.ErrCodeNotFound)
	wantStatus(t, do(t, fresh, http.MethodPost, "/workspaces/bad/grid", `{"rows":2,"columns":2}`), http.StatusCreated)
}

func TestGeneratedWorkspaceName(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/workspaces", "")
	wantStatus(t, rec, http.StatusCreated)
	sum := decodeBody[workspace.Summary](t, rec)
	if len(sum.Name) != 36 {
		t.Errorf("generated name = %q, want a uuid", sum.Name)
	}
}

func TestErrorMapping(t *testing.T) {
	s, _ := newTestServer(t)
	wantStatus(t, do(t, s, http.MethodPost, "/workspaces/full/grid", `{"rows":2,"columns":2}`), http.StatusCreated)
	wantStatus(t, do(t, s, http.MethodPost, "/workspaces/full/items", `{"kind":"single"}`), http.StatusOK)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"unknown workspace", http.MethodGet, "/workspaces/ghost", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad name", http.MethodPost, "/workspaces", `{"name":"a:b"}`, http.StatusBadRequest, errors.ErrCodeInvalidName},
		{"malformed body", http.MethodPost, "/workspaces/full/move", `{"id":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/workspaces/full/move", `{"block":"x"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"grid exists", http.MethodPost, "/workspaces/full/grid", `{"rows":2,"columns":2}`, http.StatusConflict, errors.ErrCodeGridExists},
		{"invalid dimension", http.MethodPost, "/workspaces/other/grid", `{"rows":0,"columns":2}`, http.StatusBadRequest, errors.ErrCodeInvalidDimension},
		{"capacity", http.MethodPost, "/workspaces/full/items", `{"kind":"single"}`, http.StatusConflict, errors.ErrCodeCapacityExceeded},
		{"zero count", http.MethodPost, "/workspaces/full/items", `{"kind":"single","count":0}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown kind", http.MethodPost, "/workspaces/full/items", `{"kind":"huge"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"minimum size", http.MethodPost, "/workspaces/full/resize", `{"rows":-1,"columns":0}`, http.StatusConflict, errors.ErrCodeMinimumSize},
		{"occupied", http.MethodPost, "/workspaces/full/move", `{"id":"i1_0","row":0,"col":1}`, http.StatusConflict, errors.ErrCodeOccupiedTarget},
		{"out of bounds", http.MethodPost, "/workspaces/full/move", `{"id":"i1_0","row":9,"col":9}`, http.StatusBadRequest, errors.ErrCodeOutOfBounds},
		{"header not found", http.MethodPost, "/workspaces/full/convert", `{"cellId":"7","index":1}`, http.StatusBadRequest, errors.ErrCodeHeaderNotFound},
		{"bad export format", http.MethodGet, "/workspaces/full/export?format=pdf", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"huge grid", http.MethodPost, "/workspaces/other/grid", `{"rows":100000,"columns":2}`, http.StatusBadRequest, errors.ErrCodeInvalidDimension},
		{"huge resize", http.MethodPost, "/workspaces/full/resize", `{"rows":100000,"columns":0}`, http.StatusBadRequest, errors.ErrCodeInvalidDimension},
		{"corrupt import", http.MethodPost, "/workspaces/full/import", `{"version":9}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, s, tt.method, tt.path, tt.body), tt.status, tt.code)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/nope", "")
	wantStatus(t, rec, http.StatusNotFound)
	rec = do(t, s, http.MethodPut, "/workspaces", "")
	wantStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestExportImport(t *testing.T) {
	s, _ := newTestServer(t)
	wantStatus(t, do(t, s, http.MethodPost, "/workspaces/src/grid", `{"rows":3,"columns":3}`), http.StatusCreated)
	wantStatus(t, do(t, s, http.MethodPost, "/workspaces/src/items", `{"kind":"triple"}`), http.StatusOK)

	rec := do(t, s, http.MethodGet, "/workspaces/src/export", "")
	wantStatus(t, rec, http.StatusOK)
	doc := rec.Body.String()

	rec = do(t, s, http.MethodPost, "/workspaces/dst/import", doc)
	wantStatus(t, rec, http.StatusOK)

	src := decodeBody[workspace.Summary](t, do(t, s, http.MethodGet, "/workspaces/src", ""))
	dst := decodeBody[workspace.Summary](t, do(t, s, http.MethodGet, "/workspaces/dst", ""))
	if diff := cmp.Diff(src.State, dst.State); diff != "" {
		t.Errorf("imported state differs (-src +dst):\n%s", diff)
	}

	rec = do(t, s, http.MethodGet, "/workspaces/src/export?format=xlsx", "")
	wantStatus(t, rec, http.StatusOK)
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Grid", "B1"); v != "0" {
		t.Errorf("B1 = %q, want 0", v)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route+" "+http.StatusText(status))
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/workspaces/h/grid", `{"rows":2,"columns":2}`)
	do(t, s, http.MethodGet, "/workspaces/missing", "")

	want := []string{
		"POST /workspaces/{ws}/grid Created",
		"GET /workspaces/{ws} Not Found",
	}
	if diff := cmp.Diff(want, hooks.routes); diff != "" {
		t.Errorf("hook routes (-want +got):\n%s", diff)
	}
}

func TestListenAndServe(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	client := &http.Client{Timeout: time.Second}
	var resp *http.Response
	for range 50 {
		resp, err = client.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	client.CloseIdleConnections()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe: %v", err)
	}
}
