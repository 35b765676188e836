package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Axis identifies one of the two header axes.
type Axis int

const (
	// AxisRow is the vertical axis: row headers live in column 0 and fresh
	// row numbers are odd.
	AxisRow Axis = iota
	// AxisColumn is the horizontal axis: column headers live in row 0 and
	// fresh column numbers are even.
	AxisColumn
)

// String returns "row" or "column".
func (a Axis) String() string {
	if a == AxisColumn {
		return "column"
	}
	return "row"
}

// Other returns the opposite axis.
func (a Axis) Other() Axis {
	if a == AxisColumn {
		return AxisRow
	}
	return AxisColumn
}

// parity is the remainder modulo 2 of numbers freshly allocated on the axis.
func (a Axis) parity() int {
	if a == AxisColumn {
		return 0
	}
	return 1
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	axis, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = axis
	return nil
}

// ParseAxis parses "row" or "column" (also "col").
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "row":
		return AxisRow, nil
	case "column", "col":
		return AxisColumn, nil
	}
	return AxisRow, fmt.Errorf("unknown axis %q", s)
}

// CellKind tags the variant a Cell holds.
type CellKind int

const (
	// CellEmpty is an unoccupied cell. The zero Cell is empty.
	CellEmpty CellKind = iota
	// CellHeader is a numbered header cell in row 0 or column 0.
	CellHeader
	// CellBlock is an interior cell holding a placed block.
	CellBlock
)

// Cell is a tagged variant: Empty, Header{Axis, Number} or Block{ID, Label}.
// Only the fields belonging to Kind are meaningful.
type Cell struct {
	Kind   CellKind
	Axis   Axis   // header only
	Number int    // header only
	ID     string // block only
	Label  string // block only
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Header returns a header cell for the given axis and number.
func Header(axis Axis, number int) Cell {
	return Cell{Kind: CellHeader, Axis: axis, Number: number}
}

// Block returns a block cell.
func Block(id, label string) Cell {
	return Cell{Kind: CellBlock, ID: id, Label: label}
}

// IsEmpty reports whether the cell is empty.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// IsHeader reports whether the cell is a header.
func (c Cell) IsHeader() bool { return c.Kind == CellHeader }

// IsBlock reports whether the cell holds a block.
func (c Cell) IsBlock() bool { return c.Kind == CellBlock }

// String returns the display text of the cell: the header number, the block
// label, or the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case CellHeader:
		return strconv.Itoa(c.Number)
	case CellBlock:
		return c.Label
	}
	return ""
}

type cellJSON struct {
	Axis   *Axis  `json:"axis,omitempty"`
	Number *int   `json:"number,omitempty"`
	ID     string `json:"id,omitempty"`
	Label  string `json:"label,omitempty"`
}

// MarshalJSON encodes empty cells as null, headers as {"axis","number"} and
// blocks as {"id","label"}.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellHeader:
		axis, number := c.Axis, c.Number
		return json.Marshal(cellJSON{Axis: &axis, Number: &number})
	case CellBlock:
		return json.Marshal(cellJSON{ID: c.ID, Label: c.Label})
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (c *Cell) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Empty()
		return nil
	}
	var raw cellJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID != "":
		*c = Block(raw.ID, raw.Label)
	case raw.Axis != nil && raw.Number != nil:
		*c = Header(*raw.Axis, *raw.Number)
	case raw.Axis == nil && raw.Number == nil:
		*c = Empty()
	default:
		return fmt.Errorf("header cell needs both axis and number: %s", b)
	}
	return nil
}

// Position addresses a cell by row and column index.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the position as "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
