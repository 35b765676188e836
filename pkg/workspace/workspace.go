// Package workspace binds a grid engine to a store.
//
// A [Workspace] owns one [grid.Engine]. Every operation runs the engine
// mutation first and, when it succeeds, saves the new state through the
// [store.Store]. A rejected operation touches neither the engine nor the
// store. A save failure is reported as an ErrCodeStore error while the
// in-memory state stays committed, so the workspace remains usable and the
// next successful operation persists everything again.
//
// A [Manager] keeps the open workspaces of one store, for servers that host
// many of them.
package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/observability"
	"github.com/matzehuels/blockgrid/pkg/snapshot"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// Options configures a workspace.
type Options struct {
	Store  store.Store  // nil uses a NullStore
	Keyer  store.Keyer  // zero value uses the default namespace
	Engine grid.Options // engine behavior
	Logger *log.Logger  // nil uses log.Default()
}

func (o *Options) setDefaults() {
	if o.Store == nil {
		o.Store = store.NewNullStore()
	}
	if o.Keyer == (store.Keyer{}) {
		o.Keyer = store.NewKeyer("")
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Workspace is a named, persisted grid. Its methods are safe for concurrent
// use; operations are applied one at a time.
type Workspace struct {
	name   string
	opts   Options
	mu     sync.Mutex
	engine *grid.Engine
}

// Summary describes a workspace at one point in time.
type Summary struct {
	Name     string          `json:"name"`
	HasGrid  bool            `json:"hasGrid"`
	Rows     int             `json:"rows"`
	Cols     int             `json:"columns"`
	Capacity int             `json:"capacity"`
	Blocks   int             `json:"blocks"`
	Items    []grid.ItemKind `json:"items"`
	State    *grid.State     `json:"state,omitempty"`
}

// Open loads workspace name from the store. A workspace without a saved grid
// opens empty.
func Open(ctx context.Context, name string, opts Options) (*Workspace, error) {
	if err := errors.ValidateWorkspaceName(name); err != nil {
		return nil, err
	}
	opts.setDefaults()
	w := &Workspace{name: name, opts: opts, engine: grid.New(opts.Engine)}

	start := time.Now()
	s, found, err := snapshot.Load(ctx, opts.Store, opts.Keyer, name)
	observability.Store().OnStoreRead(ctx, name, found, time.Since(start), err)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeStore
		}
		return nil, errors.Wrap(code, err, "load workspace %s", name)
	}
	if found {
		if err := w.engine.Restore(s); err != nil {
			return nil, err
		}
		rows, cols := w.engine.Dimensions()
		opts.Logger.Debug("loaded workspace", "workspace", name, "rows", rows, "columns", cols, "blocks", w.engine.BlockCount())
	}
	return w, nil
}

// Name returns the workspace name.
func (w *Workspace) Name() string { return w.name }

// Summary returns the current dimensions, counts and, when withState is set,
// a copy of the full state.
func (w *Workspace) Summary(withState bool) Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, cols := w.engine.Dimensions()
	sum := Summary{
		Name:     w.name,
		HasGrid:  w.engine.HasGrid(),
		Rows:     rows,
		Cols:     cols,
		Capacity: w.engine.Capacity(),
		Blocks:   w.engine.BlockCount(),
		Items:    w.engine.ItemsPresent(),
	}
	if sum.Items == nil {
		sum.Items = []grid.ItemKind{}
	}
	if withState {
		if s, ok := w.engine.State(); ok {
			sum.State = &s
		}
	}
	return sum
}

// State returns a copy of the engine state.
func (w *Workspace) State() (grid.State, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.State()
}

// Find returns the position of a block.
func (w *Workspace) Find(id string) (grid.Position, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.Find(id)
}

// Create creates a rows×cols grid.
func (w *Workspace) Create(ctx context.Context, rows, cols int) error {
	return w.apply(ctx, "create", func(e *grid.Engine) (bool, error) {
		if err := e.Create(rows, cols); err != nil {
			return false, err
		}
		w.opts.Logger.Info("created grid", "workspace", w.name, "rows", rows, "columns", cols)
		return true, nil
	})
}

// Resize changes the grid size by the given deltas.
func (w *Workspace) Resize(ctx context.Context, dRows, dCols int) (grid.ResizeResult, error) {
	var res grid.ResizeResult
	err := w.apply(ctx, "resize", func(e *grid.Engine) (bool, error) {
		var err error
		if res, err = e.Resize(dRows, dCols); err != nil {
			return false, err
		}
		w.logResize(ctx, res)
		return dRows != 0 || dCols != 0, nil
	})
	return res, err
}

// ResizeTo changes the grid size to rows×cols.
func (w *Workspace) ResizeTo(ctx context.Context, rows, cols int) (grid.ResizeResult, error) {
	var res grid.ResizeResult
	err := w.apply(ctx, "resize", func(e *grid.Engine) (bool, error) {
		r0, c0 := e.Dimensions()
		var err error
		if res, err = e.ResizeTo(rows, cols); err != nil {
			return false, err
		}
		w.logResize(ctx, res)
		return r0 != rows || c0 != cols, nil
	})
	return res, err
}

func (w *Workspace) logResize(ctx context.Context, res grid.ResizeResult) {
	w.opts.Logger.Info("resized grid", "workspace", w.name, "rows", res.Rows, "columns", res.Cols)
	if n := len(res.Relocated); n > 0 {
		w.opts.Logger.Info("relocated blocks", "workspace", w.name, "count", n)
		observability.Grid().OnRelocate(ctx, w.name, "resize", n)
	}
}

// Convert converts the header line cellID at index to the other axis.
func (w *Workspace) Convert(ctx context.Context, cellID string, index int) (grid.ConvertResult, error) {
	var res grid.ConvertResult
	err := w.apply(ctx, "convert", func(e *grid.Engine) (bool, error) {
		var err error
		if res, err = e.ConvertHeaderLine(cellID, index); err != nil {
			return false, err
		}
		w.opts.Logger.Info("converted header line", "workspace", w.name,
			"number", res.Number, "from", res.From, "to", res.To, "rows", res.Rows, "columns", res.Cols)
		if n := len(res.Relocated); n > 0 {
			w.opts.Logger.Info("relocated blocks", "workspace", w.name, "count", n)
			observability.Grid().OnRelocate(ctx, w.name, "convert", n)
		}
		return true, nil
	})
	return res, err
}

// AddItem adds count units of kind.
func (w *Workspace) AddItem(ctx context.Context, kind grid.ItemKind, count int) ([]grid.Placement, error) {
	var placed []grid.Placement
	err := w.apply(ctx, "add", func(e *grid.Engine) (bool, error) {
		var err error
		if placed, err = e.AddItem(kind, count); err != nil {
			return false, err
		}
		w.opts.Logger.Info("added item", "workspace", w.name, "kind", kind, "count", count, "blocks", len(placed))
		return true, nil
	})
	return placed, err
}

// Move moves block id to (row, col). moved is false for a no-op.
func (w *Workspace) Move(ctx context.Context, id string, row, col int) (moved bool, err error) {
	err = w.apply(ctx, "move", func(e *grid.Engine) (bool, error) {
		var err error
		if moved, err = e.MoveBlock(id, row, col); err != nil {
			return false, err
		}
		if moved {
			w.opts.Logger.Debug("moved block", "workspace", w.name, "id", id, "row", row, "col", col)
		}
		return moved, nil
	})
	return moved, err
}

// Reset discards the grid and deletes the saved snapshot.
func (w *Workspace) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	w.engine.Reset()
	err := w.persist(ctx)
	observability.Grid().OnOperation(ctx, w.name, "reset", time.Since(start), err)
	if err == nil {
		w.opts.Logger.Info("reset grid", "workspace", w.name)
	}
	return err
}

// Reset deletes the saved snapshot of workspace name without loading it, so a
// workspace whose stored fields no longer agree can still be cleared.
func Reset(ctx context.Context, name string, opts Options) error {
	if err := errors.ValidateWorkspaceName(name); err != nil {
		return err
	}
	opts.setDefaults()

	start := time.Now()
	err := snapshot.Delete(ctx, opts.Store, opts.Keyer, name)
	observability.Store().OnStoreWrite(ctx, name, time.Since(start), err)
	if err != nil {
		opts.Logger.Warn("failed to delete workspace", "workspace", name, "err", err)
		err = errors.Wrap(errors.ErrCodeStore, err, "reset workspace %s", name)
	}
	observability.Grid().OnOperation(ctx, name, "reset", time.Since(start), err)
	if err == nil {
		opts.Logger.Info("reset grid", "workspace", name)
	}
	return err
}

// Import replaces the grid with s after validating it.
func (w *Workspace) Import(ctx context.Context, s grid.State) error {
	return w.apply(ctx, "import", func(e *grid.Engine) (bool, error) {
		if err := e.Restore(s); err != nil {
			return false, err
		}
		w.opts.Logger.Info("imported grid", "workspace", w.name, "rows", s.Rows(), "columns", s.Cols(), "blocks", len(s.Blocks))
		return true, nil
	})
}

// apply runs op under the workspace lock and persists the result when op
// reports a change.
func (w *Workspace) apply(ctx context.Context, name string, op func(*grid.Engine) (changed bool, err error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	changed, err := op(w.engine)
	if err == nil && changed {
		err = w.persist(ctx)
	}
	observability.Grid().OnOperation(ctx, w.name, name, time.Since(start), err)
	if err != nil {
		w.opts.Logger.Debug("operation failed", "workspace", w.name, "op", name, "code", errors.GetCode(err))
	}
	return err
}

// persist writes the engine state, or deletes the snapshot when there is no
// grid. Callers hold w.mu.
func (w *Workspace) persist(ctx context.Context) error {
	start := time.Now()
	var err error
	if s, ok := w.engine.State(); ok {
		err = snapshot.Save(ctx, w.opts.Store, w.opts.Keyer, w.name, s)
	} else {
		err = snapshot.Delete(ctx, w.opts.Store, w.opts.Keyer, w.name)
	}
	observability.Store().OnStoreWrite(ctx, w.name, time.Since(start), err)
	if err != nil {
		w.opts.Logger.Warn("failed to save workspace", "workspace", w.name, "err", err)
		return errors.Wrap(errors.ErrCodeStore, err, "save workspace %s", w.name)
	}
	return nil
}
