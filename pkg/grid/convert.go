package grid

import (
	"strconv"
	"strings"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// ConvertResult describes a completed header-line conversion.
type ConvertResult struct {
	Number    int         `json:"number"`
	From      Axis        `json:"from"`
	To        Axis        `json:"to"`
	Index     int         `json:"index"` // matrix index of the converted line after the move
	Rows      int         `json:"rows"`
	Cols      int         `json:"columns"`
	Relocated []Placement `json:"relocated,omitempty"`
}

// ConvertHeaderLine turns the header line identified by cellID (the header
// number as text) at matrix index into a line of the other axis. The number
// keeps its value and the line is spliced in at its sorted position among
// the other axis's lines. Cells that do not fit the new line's length are
// re-placed with [Matrix.PlaceSingle].
//
// A row at index is addressed by its row header (index counts rows); a column
// by its column header (index counts columns).
func (e *Engine) ConvertHeaderLine(cellID string, index int) (ConvertResult, error) {
	cur, err := e.current()
	if err != nil {
		return ConvertResult{}, err
	}
	number, err := strconv.Atoi(strings.TrimSpace(cellID))
	if err != nil {
		return ConvertResult{}, errors.New(errors.ErrCodeInvalidInput, "header cell id %q is not a number", cellID)
	}
	from, ok := cur.headers.AxisOf(number)
	if !ok {
		return ConvertResult{}, errors.New(errors.ErrCodeHeaderNotFound, "no header numbered %d", number)
	}

	m := cur.matrix
	rows, cols := m.Rows(), m.Cols()
	var header Cell
	switch from {
	case AxisRow:
		if index >= 1 && index < rows {
			header = m.At(index, 0)
		}
	case AxisColumn:
		if index >= 1 && index < cols {
			header = m.At(0, index)
		}
	}
	if !header.IsHeader() || header.Number != number {
		return ConvertResult{}, errors.New(errors.ErrCodeHeaderNotFound, "%s header %d is not at index %d", from, number, index)
	}

	var newCap int
	switch from {
	case AxisRow:
		if rows == minLines {
			return ConvertResult{}, errors.New(errors.ErrCodeMinimumSize, "cannot convert the last row")
		}
		if err := checkDimensions(rows-1, cols+1); err != nil {
			return ConvertResult{}, err
		}
		newCap = capacity(rows-1, cols+1)
	case AxisColumn:
		if cols == minLines {
			return ConvertResult{}, errors.New(errors.ErrCodeMinimumSize, "cannot convert the last column")
		}
		if err := checkDimensions(rows+1, cols-1); err != nil {
			return ConvertResult{}, err
		}
		newCap = capacity(rows+1, cols-1)
	}
	if n := cur.registry.Len(); n > newCap {
		return ConvertResult{}, errors.New(errors.ErrCodeCapacityExceeded,
			"converted grid holds %d blocks, %d are placed", newCap, n)
	}

	next := cur.clone()
	var (
		to    Axis
		at    int
		queue []Cell
	)
	switch from {
	case AxisRow:
		line := next.matrix.removeRow(index)
		var rank int
		to, rank, _ = next.headers.MoveNumber(AxisRow, number)
		col := make([]Cell, next.matrix.Rows())
		col[0] = Header(AxisColumn, number)
		col, queue = fitLine(col, line)
		at = rank + 1
		next.matrix.insertColumnCells(at, col)
	case AxisColumn:
		line := next.matrix.removeColumn(index)
		var rank int
		to, rank, _ = next.headers.MoveNumber(AxisColumn, number)
		row := make([]Cell, next.matrix.Cols())
		row[0] = Header(AxisRow, number)
		row, queue = fitLine(row, line)
		at = rank + 1
		next.matrix.insertRowCells(at, row)
	}

	placed, err := relocate(next.matrix, queue)
	if err != nil {
		return ConvertResult{}, err
	}
	e.state = next
	return ConvertResult{
		Number:    number,
		From:      from,
		To:        to,
		Index:     at,
		Rows:      next.matrix.Rows(),
		Cols:      next.matrix.Cols(),
		Relocated: placed,
	}, nil
}

// fitLine copies the interior cells of line into dst, which already carries
// its header at index 0. Blocks beyond dst's length are returned for
// relocation.
func fitLine(dst, line []Cell) ([]Cell, []Cell) {
	var overflow []Cell
	for k := 1; k < len(line); k++ {
		if k < len(dst) {
			dst[k] = line[k]
			continue
		}
		if line[k].IsBlock() {
			overflow = append(overflow, line[k])
		}
	}
	return dst, overflow
}
