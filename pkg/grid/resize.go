package grid

import "github.com/matzehuels/blockgrid/pkg/errors"

// ResizeResult describes a completed resize.
type ResizeResult struct {
	Rows      int         `json:"rows"`
	Cols      int         `json:"columns"`
	Relocated []Placement `json:"relocated,omitempty"`
}

// Resize grows or shrinks the grid by dRows rows and dCols columns.
func (e *Engine) Resize(dRows, dCols int) (ResizeResult, error) {
	cur, err := e.current()
	if err != nil {
		return ResizeResult{}, err
	}
	return e.ResizeTo(cur.matrix.Rows()+dRows, cur.matrix.Cols()+dCols)
}

// ResizeTo resizes the grid to rows×cols, headers included.
//
// New lines take the next number from the header index and are inserted at
// their sorted position, so they are not necessarily appended. Shrinking drops
// the outermost lines and re-places every block they held with
// [Matrix.PlaceSingle]. Growth is applied before shrinkage.
//
// The operation is rejected without changes when a target is non-positive or
// above [MaxDimension] (ErrCodeInvalidDimension), when a shrink would leave fewer than two rows or
// columns (ErrCodeMinimumSize), or when the target capacity cannot hold the
// registered blocks (ErrCodeCapacityExceeded).
func (e *Engine) ResizeTo(rows, cols int) (ResizeResult, error) {
	cur, err := e.current()
	if err != nil {
		return ResizeResult{}, err
	}
	if err := checkDimensions(rows, cols); err != nil {
		return ResizeResult{}, err
	}
	dr, dc := rows-cur.matrix.Rows(), cols-cur.matrix.Cols()
	if dr == 0 && dc == 0 {
		return ResizeResult{Rows: rows, Cols: cols}, nil
	}
	if dr < 0 && rows < minLines {
		return ResizeResult{}, errors.New(errors.ErrCodeMinimumSize, "cannot shrink below %d rows", minLines)
	}
	if dc < 0 && cols < minLines {
		return ResizeResult{}, errors.New(errors.ErrCodeMinimumSize, "cannot shrink below %d columns", minLines)
	}
	if n, c := cur.registry.Len(), capacity(rows, cols); n > c {
		return ResizeResult{}, errors.New(errors.ErrCodeCapacityExceeded,
			"%dx%d grid holds %d blocks, %d are placed", rows, cols, c, n)
	}

	next := cur.clone()
	for range max(dr, 0) {
		n, rank := next.headers.AllocateNext(AxisRow)
		next.matrix.InsertRow(rank+1, n)
	}
	for range max(dc, 0) {
		n, rank := next.headers.AllocateNext(AxisColumn)
		next.matrix.InsertColumn(rank+1, n)
	}

	var queue []Cell
	for range max(-dr, 0) {
		n, evicted, err := next.matrix.RemoveLastRow()
		if err != nil {
			return ResizeResult{}, err
		}
		next.headers.RemoveNumber(AxisRow, n)
		queue = append(queue, evicted...)
	}
	for range max(-dc, 0) {
		n, evicted, err := next.matrix.RemoveLastColumn()
		if err != nil {
			return ResizeResult{}, err
		}
		next.headers.RemoveNumber(AxisColumn, n)
		queue = append(queue, evicted...)
	}

	placed, err := relocate(next.matrix, queue)
	if err != nil {
		return ResizeResult{}, err
	}
	e.state = next
	return ResizeResult{Rows: next.matrix.Rows(), Cols: next.matrix.Cols(), Relocated: placed}, nil
}
