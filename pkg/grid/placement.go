package grid

import "github.com/matzehuels/blockgrid/pkg/errors"

// Placement records where a block ended up.
type Placement struct {
	ID string `json:"id"`
	Position
}

// checkCapacity rejects adding blocks beyond the interior capacity. It runs
// before any cell is written.
func checkCapacity(registered, adding, capacity int) error {
	if registered+adding > capacity {
		return errors.New(errors.ErrCodeCapacityExceeded,
			"grid holds %d of %d blocks, cannot add %d more", registered, capacity, adding)
	}
	return nil
}

// FindRun scans interior cells in row-major order and returns the start of
// the first run of length consecutive empty cells within a single row.
func (m *Matrix) FindRun(length int) (Position, bool) {
	if length <= 0 {
		return Position{}, false
	}
	for r := 1; r < m.Rows(); r++ {
		run := 0
		for c := 1; c < m.Cols(); c++ {
			if !m.cells[r][c].IsEmpty() {
				run = 0
				continue
			}
			run++
			if run == length {
				return Position{Row: r, Col: c - length + 1}, true
			}
		}
	}
	return Position{}, false
}

// PlaceSingle occupies the first empty interior cell in row-major order.
func (m *Matrix) PlaceSingle(block Cell) (Position, bool) {
	pos, ok := m.FindRun(1)
	if !ok {
		return Position{}, false
	}
	m.set(pos.Row, pos.Col, block)
	return pos, true
}

// PlaceGroup places blocks contiguously in the first row with room for all
// of them. Without such a run it scatters them one by one with PlaceSingle.
// The caller checks capacity first; ok is false only if the matrix ran out of
// empty cells part way.
func (m *Matrix) PlaceGroup(blocks []Cell) (placed []Placement, ok bool) {
	if start, found := m.FindRun(len(blocks)); found {
		for i, b := range blocks {
			pos := Position{Row: start.Row, Col: start.Col + i}
			m.set(pos.Row, pos.Col, b)
			placed = append(placed, Placement{ID: b.ID, Position: pos})
		}
		return placed, true
	}
	for _, b := range blocks {
		pos, found := m.PlaceSingle(b)
		if !found {
			return placed, false
		}
		placed = append(placed, Placement{ID: b.ID, Position: pos})
	}
	return placed, true
}
