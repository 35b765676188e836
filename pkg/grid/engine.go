package grid

import "github.com/matzehuels/blockgrid/pkg/errors"

// Options configures an [Engine].
type Options struct {
	// UniqueItems rejects adding an item kind that is already on the grid,
	// and adding more than one unit at a time.
	UniqueItems bool
}

// State is a detached copy of everything an engine holds. It is what gets
// persisted and restored; mutating it does not affect the engine.
type State struct {
	Cells      [][]Cell          `json:"grid"`
	RowNumbers []int             `json:"rowHeader"`
	ColNumbers []int             `json:"colHeader"`
	Blocks     map[string]string `json:"blocks"`
	Sequence   int               `json:"sequence"`
}

// Rows returns the row count including the header row.
func (s State) Rows() int { return len(s.Cells) }

// Cols returns the column count including the header column.
func (s State) Cols() int {
	if len(s.Cells) == 0 {
		return 0
	}
	return len(s.Cells[0])
}

// gridState is the owned unit every operation mutates: matrix, header index,
// block registry and the id sequence.
type gridState struct {
	matrix   *Matrix
	headers  *HeaderIndex
	registry *Registry
	seq      int
}

func (s *gridState) clone() *gridState {
	return &gridState{
		matrix:   s.matrix.Clone(),
		headers:  s.headers.Clone(),
		registry: s.registry.Clone(),
		seq:      s.seq,
	}
}

func (s *gridState) export() State {
	return State{
		Cells:      s.matrix.Cells(),
		RowNumbers: s.headers.Numbers(AxisRow),
		ColNumbers: s.headers.Numbers(AxisColumn),
		Blocks:     s.registry.Labels(),
		Sequence:   s.seq,
	}
}

// Engine owns one grid and applies mutations to it atomically. The zero
// value is an engine without a grid.
type Engine struct {
	opts  Options
	state *gridState
}

// New returns an engine without a grid.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Options returns the engine's options.
func (e *Engine) Options() Options { return e.opts }

// HasGrid reports whether a grid has been created.
func (e *Engine) HasGrid() bool { return e.state != nil }

// State returns a copy of the current state. ok is false when no grid
// exists.
func (e *Engine) State() (s State, ok bool) {
	if e.state == nil {
		return State{}, false
	}
	return e.state.export(), true
}

// Dimensions returns the row and column counts, headers included.
func (e *Engine) Dimensions() (rows, cols int) {
	if e.state == nil {
		return 0, 0
	}
	return e.state.matrix.Rows(), e.state.matrix.Cols()
}

// Capacity returns the number of interior cells.
func (e *Engine) Capacity() int {
	if e.state == nil {
		return 0
	}
	return e.state.matrix.Capacity()
}

// BlockCount returns the number of registered blocks.
func (e *Engine) BlockCount() int {
	if e.state == nil {
		return 0
	}
	return e.state.registry.Len()
}

// Find returns the position of a block.
func (e *Engine) Find(id string) (Position, bool) {
	if e.state == nil {
		return Position{}, false
	}
	return e.state.matrix.FindBlock(id)
}

// ItemsPresent returns the item kinds that have at least one block on the
// grid, in catalog order.
func (e *Engine) ItemsPresent() []ItemKind {
	if e.state == nil {
		return nil
	}
	return e.state.registry.Kinds()
}

// Restore replaces the engine state with s after checking every grid
// invariant. Invalid input fails with ErrCodeCorruptState and leaves the
// engine unchanged.
func (e *Engine) Restore(s State) error {
	st, err := buildState(s)
	if err != nil {
		return err
	}
	e.state = st
	return nil
}

// Create allocates a rows×cols grid. One column number is allocated per
// column header (row 0, left to right) and one row number per row header
// (column 0, top to bottom); the corner stays empty.
func (e *Engine) Create(rows, cols int) error {
	if err := checkDimensions(rows, cols); err != nil {
		return err
	}
	if e.state != nil {
		return errors.New(errors.ErrCodeGridExists, "a grid already exists, reset it first")
	}

	st := &gridState{
		matrix:   NewMatrix(rows, cols),
		headers:  NewHeaderIndex(),
		registry: NewRegistry(),
	}
	for c := 1; c < cols; c++ {
		n, rank := st.headers.AllocateNext(AxisColumn)
		st.matrix.set(0, rank+1, Header(AxisColumn, n))
	}
	for r := 1; r < rows; r++ {
		n, rank := st.headers.AllocateNext(AxisRow)
		st.matrix.set(rank+1, 0, Header(AxisRow, n))
	}
	e.state = st
	return nil
}

// Reset discards the grid, registry, header index and sequence.
func (e *Engine) Reset() {
	e.state = nil
}

func (e *Engine) current() (*gridState, error) {
	if e.state == nil {
		return nil, errors.New(errors.ErrCodeNoGrid, "no grid, create one first")
	}
	return e.state, nil
}

// AddItem adds count units of the given kind. Grouped kinds are placed with
// [Matrix.PlaceGroup]; every other block goes through [Matrix.PlaceSingle].
// Capacity is checked before any block is placed.
func (e *Engine) AddItem(kind ItemKind, count int) ([]Placement, error) {
	cur, err := e.current()
	if err != nil {
		return nil, err
	}
	spec, ok := LookupItem(string(kind))
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown item kind %q", kind)
	}
	if count <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "count must be positive, got %d", count)
	}
	if e.opts.UniqueItems {
		if count > 1 {
			return nil, errors.New(errors.ErrCodeItemExists, "only one %s may be added", spec.Kind)
		}
		for _, k := range cur.registry.Kinds() {
			if k == spec.Kind {
				return nil, errors.New(errors.ErrCodeItemExists, "%s is already on the grid", spec.Kind)
			}
		}
	}
	adding := count * spec.Blocks
	if err := checkCapacity(cur.registry.Len(), adding, cur.matrix.Capacity()); err != nil {
		return nil, err
	}

	next := cur.clone()
	placed := make([]Placement, 0, adding)
	for range count {
		unit := make([]Cell, spec.Blocks)
		for i := range unit {
			id := BlockID(spec.Tag, next.seq)
			next.seq++
			unit[i] = Block(id, blockLabel(spec, i+1))
			next.registry.Add(id, unit[i].Label)
		}
		if spec.Grouped {
			ps, ok := next.matrix.PlaceGroup(unit)
			if !ok {
				return nil, errors.New(errors.ErrCodeInternal, "no room for %s after capacity check", spec.Kind)
			}
			placed = append(placed, ps...)
			continue
		}
		for _, b := range unit {
			pos, ok := next.matrix.PlaceSingle(b)
			if !ok {
				return nil, errors.New(errors.ErrCodeInternal, "no room for %s after capacity check", b.ID)
			}
			placed = append(placed, Placement{ID: b.ID, Position: pos})
		}
	}
	e.state = next
	return placed, nil
}

// relocate places evicted blocks with PlaceSingle in order. Callers have
// already verified that the target state has room for every registered block.
func relocate(m *Matrix, queue []Cell) ([]Placement, error) {
	var placed []Placement
	for _, b := range queue {
		pos, ok := m.PlaceSingle(b)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "no room to relocate block %s", b.ID)
		}
		placed = append(placed, Placement{ID: b.ID, Position: pos})
	}
	return placed, nil
}

// Labels returns a copy of the block registry.
func (e *Engine) Labels() map[string]string {
	if e.state == nil {
		return map[string]string{}
	}
	return e.state.registry.Labels()
}
