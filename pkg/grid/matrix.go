package grid

import (
	"slices"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// minLines is the smallest row or column count a shrink may leave behind:
// one header line plus one interior line.
const minLines = 2

// MaxDimension is the largest row or column count a grid may have, headers
// included.
const MaxDimension = 1024

func checkDimensions(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "grid dimensions must be positive, got %dx%d", rows, cols)
	}
	if rows > MaxDimension || cols > MaxDimension {
		return errors.New(errors.ErrCodeInvalidDimension, "grid dimensions are limited to %dx%d, got %dx%d",
			MaxDimension, MaxDimension, rows, cols)
	}
	return nil
}

// Matrix is the rows×columns cell store. Row 0 and column 0 hold headers and
// the corner (0,0) is empty. Header lines are kept sorted by number along each
// axis.
//
// The zero value is not usable; use [NewMatrix] or [MatrixFromCells].
type Matrix struct {
	cells [][]Cell
}

// NewMatrix allocates a rows×cols matrix of empty cells. Headers are assigned
// separately by the caller.
func NewMatrix(rows, cols int) *Matrix {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}
	return &Matrix{cells: cells}
}

// MatrixFromCells wraps a copy of cells. The rows must be non-empty and of
// equal length.
func MatrixFromCells(cells [][]Cell) (*Matrix, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, errors.New(errors.ErrCodeCorruptState, "matrix must have at least one row and one column")
	}
	if len(cells) > MaxDimension || len(cells[0]) > MaxDimension {
		return nil, errors.New(errors.ErrCodeCorruptState, "%dx%d matrix exceeds the %d line limit",
			len(cells), len(cells[0]), MaxDimension)
	}
	m := &Matrix{cells: make([][]Cell, len(cells))}
	for i, row := range cells {
		if len(row) != len(cells[0]) {
			return nil, errors.New(errors.ErrCodeCorruptState, "row %d has %d cells, want %d", i, len(row), len(cells[0]))
		}
		m.cells[i] = slices.Clone(row)
	}
	return m, nil
}

// Rows returns the number of rows including the header row.
func (m *Matrix) Rows() int { return len(m.cells) }

// Cols returns the number of columns including the header column.
func (m *Matrix) Cols() int {
	if len(m.cells) == 0 {
		return 0
	}
	return len(m.cells[0])
}

// Capacity returns the number of interior cells.
func (m *Matrix) Capacity() int {
	return capacity(m.Rows(), m.Cols())
}

func capacity(rows, cols int) int {
	if rows < 1 || cols < 1 {
		return 0
	}
	return (rows - 1) * (cols - 1)
}

// InBounds reports whether (row, col) addresses a cell of the matrix.
func (m *Matrix) InBounds(row, col int) bool {
	return row >= 0 && row < m.Rows() && col >= 0 && col < m.Cols()
}

// IsInterior reports whether (row, col) addresses an interior cell.
func (m *Matrix) IsInterior(row, col int) bool {
	return row >= 1 && col >= 1 && m.InBounds(row, col)
}

// At returns the cell at (row, col). It panics if out of bounds.
func (m *Matrix) At(row, col int) Cell {
	return m.cells[row][col]
}

func (m *Matrix) set(row, col int, c Cell) {
	m.cells[row][col] = c
}

// Cells returns a deep copy of the cell rows.
func (m *Matrix) Cells() [][]Cell {
	out := make([][]Cell, len(m.cells))
	for i, row := range m.cells {
		out[i] = slices.Clone(row)
	}
	return out
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{cells: m.Cells()}
}

// InsertRow splices an all-empty row in at index and gives it a row header.
func (m *Matrix) InsertRow(at, number int) {
	row := make([]Cell, m.Cols())
	if len(row) > 0 {
		row[0] = Header(AxisRow, number)
	}
	m.insertRowCells(at, row)
}

// InsertColumn splices an all-empty column in at index and gives it a column
// header.
func (m *Matrix) InsertColumn(at, number int) {
	col := make([]Cell, m.Rows())
	if len(col) > 0 {
		col[0] = Header(AxisColumn, number)
	}
	m.insertColumnCells(at, col)
}

func (m *Matrix) insertRowCells(at int, row []Cell) {
	m.cells = slices.Insert(m.cells, at, row)
}

func (m *Matrix) insertColumnCells(at int, col []Cell) {
	for i := range m.cells {
		m.cells[i] = slices.Insert(m.cells[i], at, col[i])
	}
}

// removeRow cuts row index out of the matrix and returns its cells.
func (m *Matrix) removeRow(index int) []Cell {
	row := m.cells[index]
	m.cells = slices.Delete(m.cells, index, index+1)
	return row
}

// removeColumn cuts column index out of the matrix and returns its cells,
// top to bottom.
func (m *Matrix) removeColumn(index int) []Cell {
	col := make([]Cell, len(m.cells))
	for i := range m.cells {
		col[i] = m.cells[i][index]
		m.cells[i] = slices.Delete(m.cells[i], index, index+1)
	}
	return col
}

// RemoveLastRow drops the outermost row and returns its header number and the
// blocks it held, in column order. Shrinking below two rows fails with
// ErrCodeMinimumSize.
func (m *Matrix) RemoveLastRow() (number int, evicted []Cell, err error) {
	if m.Rows() <= minLines {
		return 0, nil, errors.New(errors.ErrCodeMinimumSize, "cannot shrink below %d rows", minLines)
	}
	row := m.removeRow(m.Rows() - 1)
	return row[0].Number, blocksIn(row[1:]), nil
}

// RemoveLastColumn drops the outermost column and returns its header number
// and the blocks it held, in row order. Shrinking below two columns fails
// with ErrCodeMinimumSize.
func (m *Matrix) RemoveLastColumn() (number int, evicted []Cell, err error) {
	if m.Cols() <= minLines {
		return 0, nil, errors.New(errors.ErrCodeMinimumSize, "cannot shrink below %d columns", minLines)
	}
	col := m.removeColumn(m.Cols() - 1)
	return col[0].Number, blocksIn(col[1:]), nil
}

func blocksIn(cells []Cell) []Cell {
	var out []Cell
	for _, c := range cells {
		if c.IsBlock() {
			out = append(out, c)
		}
	}
	return out
}

// FindBlock returns the position of the block with the given id.
func (m *Matrix) FindBlock(id string) (Position, bool) {
	for r := 1; r < m.Rows(); r++ {
		for c := 1; c < m.Cols(); c++ {
			if cell := m.cells[r][c]; cell.IsBlock() && cell.ID == id {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// BlockCount returns the number of block cells.
func (m *Matrix) BlockCount() int {
	n := 0
	for r := 1; r < m.Rows(); r++ {
		for c := 1; c < m.Cols(); c++ {
			if m.cells[r][c].IsBlock() {
				n++
			}
		}
	}
	return n
}
