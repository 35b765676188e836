package grid

import "github.com/matzehuels/blockgrid/pkg/errors"

// MoveBlock moves the block id to the interior cell (row, col).
//
// Moving a block that is not on the grid, or onto the cell it already
// occupies, is a no-op and reports moved == false. A target outside the
// matrix fails with ErrCodeOutOfBounds; a header cell, the corner or
// another block fails with ErrCodeOccupiedTarget.
func (e *Engine) MoveBlock(id string, row, col int) (moved bool, err error) {
	cur, err := e.current()
	if err != nil {
		return false, err
	}
	from, ok := cur.matrix.FindBlock(id)
	if !ok {
		return false, nil
	}
	if from == (Position{Row: row, Col: col}) {
		return false, nil
	}
	if !cur.matrix.InBounds(row, col) {
		return false, errors.New(errors.ErrCodeOutOfBounds, "target (%d,%d) is outside the %dx%d grid",
			row, col, cur.matrix.Rows(), cur.matrix.Cols())
	}
	if !cur.matrix.IsInterior(row, col) {
		return false, errors.New(errors.ErrCodeOccupiedTarget, "target (%d,%d) is a header cell", row, col)
	}
	if target := cur.matrix.At(row, col); !target.IsEmpty() {
		return false, errors.New(errors.ErrCodeOccupiedTarget, "target (%d,%d) holds %s", row, col, target.ID)
	}

	// Nothing below can fail, so the swap is applied in place.
	block := cur.matrix.At(from.Row, from.Col)
	cur.matrix.set(row, col, block)
	cur.matrix.set(from.Row, from.Col, Empty())
	return true, nil
}
