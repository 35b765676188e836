package workspace

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// Manager hands out the workspaces of one store. Each workspace is opened
// once and shared by all callers.
type Manager struct {
	opts Options
	mu   sync.Mutex
	open map[string]*Workspace
}

// NewManager returns a manager whose workspaces use opts.
func NewManager(opts Options) *Manager {
	opts.setDefaults()
	return &Manager{opts: opts, open: make(map[string]*Workspace)}
}

// New creates an empty workspace. An empty name gets a generated one.
func (m *Manager) New(ctx context.Context, name string) (*Workspace, error) {
	if name == "" {
		name = uuid.NewString()
	}
	if err := errors.ValidateWorkspaceName(name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.open[name]; ok {
		return w, nil
	}
	w, err := Open(ctx, name, m.opts)
	if err != nil {
		return nil, err
	}
	m.open[name] = w
	return w, nil
}

// Get returns an existing workspace: one created through this manager or one
// with a saved grid. Anything else fails with ErrCodeNotFound.
func (m *Manager) Get(ctx context.Context, name string) (*Workspace, error) {
	if err := errors.ValidateWorkspaceName(name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.open[name]; ok {
		return w, nil
	}
	w, err := Open(ctx, name, m.opts)
	if err != nil {
		return nil, err
	}
	if !w.engine.HasGrid() {
		return nil, errors.New(errors.ErrCodeNotFound, "workspace %q not found", name)
	}
	m.open[name] = w
	return w, nil
}

// Reset clears workspace name. An open workspace is reset in place; any
// other is cleared in the store without loading it.
func (m *Manager) Reset(ctx context.Context, name string) error {
	if err := errors.ValidateWorkspaceName(name); err != nil {
		return err
	}
	m.mu.Lock()
	w, ok := m.open[name]
	m.mu.Unlock()
	if ok {
		return w.Reset(ctx)
	}
	return Reset(ctx, name, m.opts)
}

// Names returns the names of the open workspaces, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.open))
	for n := range m.open {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
