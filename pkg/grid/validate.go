package grid

import "github.com/matzehuels/blockgrid/pkg/errors"

// Validate checks every structural invariant of s:
//
//   - the matrix is rectangular and non-empty, with an empty corner
//   - row 0 and column 0 carry headers whose numbers match the index sets in order
//   - the index sets are strictly increasing and disjoint
//   - interior cells are empty or blocks, each block registered and placed once
//   - every registered block is placed
//   - the sequence is past every block id's sequence number
//
// Violations are reported with ErrCodeCorruptState.
func Validate(s State) error {
	_, err := buildState(s)
	return err
}

func buildState(s State) (*gridState, error) {
	m, err := MatrixFromCells(s.Cells)
	if err != nil {
		return nil, err
	}
	h, err := RestoreHeaderIndex(s.RowNumbers, s.ColNumbers)
	if err != nil {
		return nil, err
	}
	corrupt := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeCorruptState, format, args...)
	}

	if !m.At(0, 0).IsEmpty() {
		return nil, corrupt("corner cell must be empty")
	}
	if got, want := h.Len(AxisRow), m.Rows()-1; got != want {
		return nil, corrupt("%d row numbers for %d row headers", got, want)
	}
	if got, want := h.Len(AxisColumn), m.Cols()-1; got != want {
		return nil, corrupt("%d column numbers for %d column headers", got, want)
	}
	for i, n := range h.rows {
		if c := m.At(i+1, 0); !c.IsHeader() || c.Axis != AxisRow || c.Number != n {
			return nil, corrupt("row header %d: want row %d, got %q", i+1, n, c.String())
		}
	}
	for j, n := range h.cols {
		if c := m.At(0, j+1); !c.IsHeader() || c.Axis != AxisColumn || c.Number != n {
			return nil, corrupt("column header %d: want column %d, got %q", j+1, n, c.String())
		}
	}

	reg := RegistryFrom(s.Blocks)
	seen := make(map[string]bool, reg.Len())
	for r := 1; r < m.Rows(); r++ {
		for c := 1; c < m.Cols(); c++ {
			cell := m.At(r, c)
			switch cell.Kind {
			case CellEmpty:
			case CellBlock:
				if !reg.Has(cell.ID) {
					return nil, corrupt("block %s at (%d,%d) is not registered", cell.ID, r, c)
				}
				if seen[cell.ID] {
					return nil, corrupt("block %s placed twice", cell.ID)
				}
				seen[cell.ID] = true
			default:
				return nil, corrupt("interior cell (%d,%d) holds a header", r, c)
			}
		}
	}
	if len(seen) != reg.Len() {
		return nil, corrupt("%d blocks registered, %d placed", reg.Len(), len(seen))
	}
	for _, id := range reg.IDs() {
		_, seq, ok := ParseBlockID(id)
		if !ok {
			return nil, corrupt("malformed block id %q", id)
		}
		if seq >= s.Sequence {
			return nil, corrupt("block %s is ahead of sequence %d", id, s.Sequence)
		}
	}
	return &gridState{matrix: m, headers: h, registry: reg, seq: s.Sequence}, nil
}
