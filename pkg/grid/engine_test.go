package grid

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

func newGrid(t *testing.T, opts Options, rows, cols int) *Engine {
	t.Helper()
	e := New(opts)
	if err := e.Create(rows, cols); err != nil {
		t.Fatalf("Create(%d, %d): %v", rows, cols, err)
	}
	return e
}

func mustState(t *testing.T, e *Engine) State {
	t.Helper()
	s, ok := e.State()
	if !ok {
		t.Fatal("engine has no grid")
	}
	return s
}

// checkInvariants validates the engine state and that registry and matrix
// agree on the block count.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()
	s, ok := e.State()
	if !ok {
		return
	}
	if err := Validate(s); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
	placed := 0
	for _, row := range s.Cells {
		for _, c := range row {
			if c.IsBlock() {
				placed++
			}
		}
	}
	if placed != len(s.Blocks) {
		t.Fatalf("%d blocks placed, %d registered", placed, len(s.Blocks))
	}
}

// expectRejected runs op and requires it to fail with code without changing
// the engine state.
func expectRejected(t *testing.T, e *Engine, code errors.Code, op func() error) {
	t.Helper()
	before, _ := e.State()
	err := op()
	if !errors.Is(err, code) {
		t.Fatalf("err = %v, want %s", err, code)
	}
	after, _ := e.State()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("state changed on rejection (-before +after):\n%s", diff)
	}
}

func TestCreate(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	s := mustState(t, e)

	want := [][]Cell{
		{Empty(), Header(AxisColumn, 0), Header(AxisColumn, 2)},
		{Header(AxisRow, 1), Empty(), Empty()},
		{Header(AxisRow, 3), Empty(), Empty()},
	}
	if diff := cmp.Diff(want, s.Cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if e.Capacity() != 4 {
		t.Errorf("Capacity = %d, want 4", e.Capacity())
	}
	checkInvariants(t, e)
}

func TestCreateRejects(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 2}, {MaxDimension + 1, 2}, {2, MaxDimension + 1}, {math.MaxInt, 2}} {
		e := New(Options{})
		if err := e.Create(dims[0], dims[1]); !errors.Is(err, errors.ErrCodeInvalidDimension) {
			t.Errorf("Create(%d, %d): err = %v, want INVALID_DIMENSION", dims[0], dims[1], err)
		}
		if e.HasGrid() {
			t.Error("rejected Create left a grid behind")
		}
	}

	e := newGrid(t, Options{}, 2, 2)
	expectRejected(t, e, errors.ErrCodeGridExists, func() error { return e.Create(4, 4) })
}

func TestCreateDegenerate(t *testing.T) {
	e := newGrid(t, Options{}, 1, 1)
	if e.Capacity() != 0 {
		t.Errorf("Capacity = %d, want 0", e.Capacity())
	}
	checkInvariants(t, e)

	if _, err := e.Resize(1, 1); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	s := mustState(t, e)
	if !slices.Equal(s.RowNumbers, []int{1}) || !slices.Equal(s.ColNumbers, []int{0}) {
		t.Errorf("headers = %v / %v", s.RowNumbers, s.ColNumbers)
	}
	checkInvariants(t, e)
}

func TestNoGrid(t *testing.T) {
	e := New(Options{})
	ops := map[string]func() error{
		"resize": func() error { _, err := e.Resize(1, 0); return err },
		"convert": func() error {
			_, err := e.ConvertHeaderLine("1", 1)
			return err
		},
		"add":  func() error { _, err := e.AddItem(ItemSingle, 1); return err },
		"move": func() error { _, err := e.MoveBlock("i1_0", 1, 1); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, errors.ErrCodeNoGrid) {
			t.Errorf("%s: err = %v, want NO_GRID", name, err)
		}
	}
}

func TestAddItem(t *testing.T) {
	e := newGrid(t, Options{}, 3, 4)

	placed, err := e.AddItem(ItemSingle, 1)
	if err != nil {
		t.Fatalf("AddItem(single): %v", err)
	}
	if len(placed) != 1 || placed[0].ID != "i1_0" || placed[0].Position != (Position{1, 1}) {
		t.Errorf("single placed at %+v", placed)
	}

	placed, err = e.AddItem(ItemGroup, 1)
	if err != nil {
		t.Fatalf("AddItem(group): %v", err)
	}
	want := []Placement{
		{ID: "i4_1", Position: Position{2, 1}},
		{ID: "i4_2", Position: Position{2, 2}},
		{ID: "i4_3", Position: Position{2, 3}},
	}
	if diff := cmp.Diff(want, placed); diff != "" {
		t.Errorf("group placements (-want +got):\n%s", diff)
	}

	labels := e.Labels()
	if labels["i1_0"] != "Item 1" || labels["i4_2"] != "Item 4.2" {
		t.Errorf("labels = %v", labels)
	}
	if got := e.ItemsPresent(); !slices.Equal(got, []ItemKind{ItemSingle, ItemGroup}) {
		t.Errorf("ItemsPresent = %v", got)
	}
	checkInvariants(t, e)
}

func TestAddItemRejects(t *testing.T) {
	e := newGrid(t, Options{}, 2, 3)
	expectRejected(t, e, errors.ErrCodeCapacityExceeded, func() error {
		_, err := e.AddItem(ItemTriple, 1)
		return err
	})
	expectRejected(t, e, errors.ErrCodeInvalidInput, func() error {
		_, err := e.AddItem("item9", 1)
		return err
	})
	expectRejected(t, e, errors.ErrCodeInvalidInput, func() error {
		_, err := e.AddItem(ItemSingle, 0)
		return err
	})
}

func TestAddItemUnique(t *testing.T) {
	e := newGrid(t, Options{UniqueItems: true}, 4, 4)
	if _, err := e.AddItem(ItemSingle, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	expectRejected(t, e, errors.ErrCodeItemExists, func() error {
		_, err := e.AddItem(ItemSingle, 1)
		return err
	})
	expectRejected(t, e, errors.ErrCodeItemExists, func() error {
		_, err := e.AddItem(ItemTriple, 2)
		return err
	})
	if _, err := e.AddItem("item2", 1); err != nil {
		t.Errorf("AddItem(item2): %v", err)
	}
}

func TestResizeGrowInsertsSorted(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	res, err := e.Resize(1, 2)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if res.Rows != 4 || res.Cols != 5 || len(res.Relocated) != 0 {
		t.Errorf("Resize = %+v", res)
	}
	s := mustState(t, e)
	if !slices.Equal(s.RowNumbers, []int{1, 3, 5}) || !slices.Equal(s.ColNumbers, []int{0, 2, 4, 6}) {
		t.Errorf("headers = %v / %v", s.RowNumbers, s.ColNumbers)
	}
	checkInvariants(t, e)
}

func TestResizeReusesRowGap(t *testing.T) {
	e := newGrid(t, Options{}, 4, 2)
	if _, err := e.ConvertHeaderLine("3", 2); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// Drop the converted column so 3 is free on both axes.
	if _, err := e.ResizeTo(3, 2); err != nil {
		t.Fatalf("ResizeTo: %v", err)
	}
	if s := mustState(t, e); !slices.Equal(s.RowNumbers, []int{1, 5}) {
		t.Fatalf("rows = %v, want [1 5]", s.RowNumbers)
	}

	if _, err := e.Resize(1, 0); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	s := mustState(t, e)
	if !slices.Equal(s.RowNumbers, []int{1, 3, 5}) {
		t.Errorf("rows = %v, want [1 3 5]", s.RowNumbers)
	}
	if c := s.Cells[2][0]; c != Header(AxisRow, 3) {
		t.Errorf("row 2 header = %v, want 3", c)
	}
	checkInvariants(t, e)
}

func TestResizeReusesColumnGap(t *testing.T) {
	e := newGrid(t, Options{}, 2, 4)
	if _, err := e.ConvertHeaderLine("2", 2); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, err := e.ResizeTo(2, 3); err != nil {
		t.Fatalf("ResizeTo: %v", err)
	}
	if _, err := e.Resize(0, 1); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	s := mustState(t, e)
	if !slices.Equal(s.ColNumbers, []int{0, 2, 4}) {
		t.Errorf("columns = %v, want [0 2 4]", s.ColNumbers)
	}
	checkInvariants(t, e)
}

func TestResizeShrinkRelocates(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	placed, _ := e.AddItem(ItemSingle, 1)
	if _, err := e.MoveBlock(placed[0].ID, 2, 2); err != nil {
		t.Fatalf("MoveBlock: %v", err)
	}

	res, err := e.Resize(0, -1)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	want := []Placement{{ID: placed[0].ID, Position: Position{1, 1}}}
	if diff := cmp.Diff(want, res.Relocated); diff != "" {
		t.Errorf("relocated (-want +got):\n%s", diff)
	}
	checkInvariants(t, e)
}

func TestResizeRejects(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	if _, err := e.AddItem(ItemQuad, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	tests := []struct {
		name     string
		dRows    int
		dCols    int
		wantCode errors.Code
	}{
		{"capacity", -1, 0, errors.ErrCodeCapacityExceeded},
		{"minimum rows", -2, 0, errors.ErrCodeMinimumSize},
		{"minimum columns", 0, -2, errors.ErrCodeMinimumSize},
		{"non-positive", -3, 0, errors.ErrCodeInvalidDimension},
		{"grow and shrink over capacity", 1, -1, errors.ErrCodeCapacityExceeded},
		{"rows over limit", MaxDimension, 0, errors.ErrCodeInvalidDimension},
		{"columns over limit", 0, MaxDimension, errors.ErrCodeInvalidDimension},
		{"overflowing delta", math.MaxInt, 0, errors.ErrCodeInvalidDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRejected(t, e, tt.wantCode, func() error {
				_, err := e.Resize(tt.dRows, tt.dCols)
				return err
			})
		})
	}
}

func TestResizeToLimit(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	if _, err := e.AddItem(ItemQuad, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	expectRejected(t, e, errors.ErrCodeInvalidDimension, func() error {
		_, err := e.ResizeTo(math.MaxInt, math.MaxInt)
		return err
	})
	if _, err := e.ResizeTo(MaxDimension, 3); err != nil {
		t.Fatalf("ResizeTo(%d, 3): %v", MaxDimension, err)
	}
	checkInvariants(t, e)
}

func TestResizeNoop(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	before := mustState(t, e)
	if _, err := e.Resize(0, 0); err != nil {
		t.Fatalf("Resize(0, 0): %v", err)
	}
	if diff := cmp.Diff(before, mustState(t, e)); diff != "" {
		t.Errorf("no-op resize changed state:\n%s", diff)
	}
}

func TestConvertRowToColumn(t *testing.T) {
	e := newGrid(t, Options{}, 3, 4)
	if _, err := e.AddItem(ItemSingle, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	res, err := e.ConvertHeaderLine("1", 1)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.From != AxisRow || res.To != AxisColumn || res.Index != 2 || res.Rows != 2 || res.Cols != 5 {
		t.Errorf("Convert = %+v", res)
	}
	want := []Placement{
		{ID: "i1_1", Position: Position{1, 1}},
		{ID: "i1_2", Position: Position{1, 3}},
	}
	if diff := cmp.Diff(want, res.Relocated); diff != "" {
		t.Errorf("relocated (-want +got):\n%s", diff)
	}
	s := mustState(t, e)
	if !slices.Equal(s.ColNumbers, []int{0, 1, 2, 4}) || !slices.Equal(s.RowNumbers, []int{3}) {
		t.Errorf("headers = %v / %v", s.RowNumbers, s.ColNumbers)
	}
	if c := s.Cells[1][2]; c.ID != "i1_0" {
		t.Errorf("kept block = %v, want i1_0 in converted column", c)
	}
	checkInvariants(t, e)
}

func TestConvertRoundTrip(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	if _, err := e.AddItem(ItemSingle, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	res, err := e.ConvertHeaderLine("3", 2)
	if err != nil {
		t.Fatalf("row to column: %v", err)
	}
	checkInvariants(t, e)
	if _, err := e.ConvertHeaderLine("3", res.Index); err != nil {
		t.Fatalf("column to row: %v", err)
	}
	checkInvariants(t, e)

	s := mustState(t, e)
	if !slices.Equal(s.RowNumbers, []int{1, 3}) || !slices.Equal(s.ColNumbers, []int{0, 2}) {
		t.Errorf("headers = %v / %v, want [1 3] / [0 2]", s.RowNumbers, s.ColNumbers)
	}
	if e.BlockCount() != 2 {
		t.Errorf("BlockCount = %d, want 2", e.BlockCount())
	}
}

func TestConvertRejects(t *testing.T) {
	full := newGrid(t, Options{}, 3, 3)
	if _, err := full.AddItem(ItemQuad, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	thin := newGrid(t, Options{}, 2, 3)
	narrow := newGrid(t, Options{}, 3, 2)

	tests := []struct {
		name     string
		e        *Engine
		cellID   string
		index    int
		wantCode errors.Code
	}{
		{"capacity", full, "1", 1, errors.ErrCodeCapacityExceeded},
		{"last row", thin, "1", 1, errors.ErrCodeMinimumSize},
		{"last column", narrow, "0", 1, errors.ErrCodeMinimumSize},
		{"unknown number", full, "7", 1, errors.ErrCodeHeaderNotFound},
		{"wrong index", full, "1", 2, errors.ErrCodeHeaderNotFound},
		{"index out of range", full, "2", 9, errors.ErrCodeHeaderNotFound},
		{"malformed id", full, "x", 1, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRejected(t, tt.e, tt.wantCode, func() error {
				_, err := tt.e.ConvertHeaderLine(tt.cellID, tt.index)
				return err
			})
		})
	}
}

func TestMoveBlock(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	placed, _ := e.AddItem(ItemSingle, 1)
	id := placed[0].ID

	moved, err := e.MoveBlock(id, 2, 2)
	if err != nil || !moved {
		t.Fatalf("MoveBlock = (%v, %v), want (true, nil)", moved, err)
	}
	moved, err = e.MoveBlock(id, 2, 2)
	if err != nil || moved {
		t.Errorf("repeat MoveBlock = (%v, %v), want (false, nil)", moved, err)
	}
	if moved, err := e.MoveBlock("i9_9", 1, 1); err != nil || moved {
		t.Errorf("missing block = (%v, %v), want no-op", moved, err)
	}

	if _, err := e.AddItem(ItemSingle, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	tests := []struct {
		name     string
		row, col int
		wantCode errors.Code
	}{
		{"other block", 1, 1, errors.ErrCodeOccupiedTarget},
		{"column header", 0, 1, errors.ErrCodeOccupiedTarget},
		{"row header", 1, 0, errors.ErrCodeOccupiedTarget},
		{"corner", 0, 0, errors.ErrCodeOccupiedTarget},
		{"outside", 5, 5, errors.ErrCodeOutOfBounds},
		{"negative", -1, 1, errors.ErrCodeOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRejected(t, e, tt.wantCode, func() error {
				_, err := e.MoveBlock(id, tt.row, tt.col)
				return err
			})
		})
	}
}

func TestReset(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	_, _ = e.AddItem(ItemSingle, 1)
	e.Reset()
	if e.HasGrid() || e.BlockCount() != 0 {
		t.Fatal("Reset left state behind")
	}
	if err := e.Create(3, 3); err != nil {
		t.Fatalf("Create after Reset: %v", err)
	}
	placed, _ := e.AddItem(ItemSingle, 1)
	if placed[0].ID != "i1_0" {
		t.Errorf("sequence not reset: %s", placed[0].ID)
	}
}

// TestScenario walks the documented create/add/grow/shrink/move sequence.
func TestScenario(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	s := mustState(t, e)
	if !slices.Equal(s.ColNumbers, []int{0, 2}) || !slices.Equal(s.RowNumbers, []int{1, 3}) || e.Capacity() != 4 {
		t.Fatalf("created %v / %v capacity %d", s.RowNumbers, s.ColNumbers, e.Capacity())
	}

	placed, err := e.AddItem(ItemSingle, 1)
	if err != nil || placed[0].Position != (Position{1, 1}) {
		t.Fatalf("AddItem = (%v, %v)", placed, err)
	}
	id := placed[0].ID

	res, err := e.Resize(1, 0)
	if err != nil || res.Rows != 4 || len(res.Relocated) != 0 {
		t.Fatalf("grow = (%+v, %v)", res, err)
	}
	if s := mustState(t, e); s.Cells[3][0] != Header(AxisRow, 5) {
		t.Errorf("new row header = %v, want 5", s.Cells[3][0])
	}

	if _, err := e.MoveBlock(id, 3, 1); err != nil {
		t.Fatalf("MoveBlock: %v", err)
	}
	res, err = e.Resize(-1, 0)
	if err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if len(res.Relocated) != 1 || e.BlockCount() != 1 {
		t.Errorf("shrink relocated %v, %d blocks", res.Relocated, e.BlockCount())
	}
	if pos, ok := e.Find(id); !ok || pos != (Position{1, 1}) {
		t.Errorf("block at %v, want (1,1)", pos)
	}

	expectRejected(t, e, errors.ErrCodeOccupiedTarget, func() error {
		_, err := e.MoveBlock(id, 0, 1)
		return err
	})
	checkInvariants(t, e)
}

func TestRestore(t *testing.T) {
	e := newGrid(t, Options{}, 4, 4)
	_, _ = e.AddItem(ItemTriple, 2)
	s := mustState(t, e)

	r := New(Options{})
	if err := r.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if diff := cmp.Diff(s, mustState(t, r)); diff != "" {
		t.Errorf("restored state differs:\n%s", diff)
	}

	bad := mustState(t, e)
	bad.Cells[0][0] = Header(AxisRow, 99)
	expectRejected(t, r, errors.ErrCodeCorruptState, func() error { return r.Restore(bad) })
}

func TestValidateRejects(t *testing.T) {
	e := newGrid(t, Options{}, 3, 3)
	_, _ = e.AddItem(ItemSingle, 2)

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"unregistered block", func(s *State) { delete(s.Blocks, "i1_0") }},
		{"unplaced block", func(s *State) { s.Blocks["i1_7"] = "Item 1" }},
		{"duplicate block", func(s *State) { s.Cells[2][2] = s.Cells[1][1] }},
		{"header inside", func(s *State) { s.Cells[2][2] = Header(AxisRow, 9) }},
		{"header mismatch", func(s *State) { s.RowNumbers = []int{1, 5} }},
		{"shared number", func(s *State) { s.RowNumbers = []int{1, 2} }},
		{"sequence behind", func(s *State) { s.Sequence = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustState(t, e)
			tt.mutate(&s)
			if err := Validate(s); !errors.Is(err, errors.ErrCodeCorruptState) {
				t.Errorf("Validate: err = %v, want CORRUPT_STATE", err)
			}
		})
	}
}
