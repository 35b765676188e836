package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/grid"
)

// FormatVersion is the version written to JSON documents.
const FormatVersion = 1

type document struct {
	Version   int               `json:"version"`
	Rows      int               `json:"rows"`
	Columns   int               `json:"columns"`
	RowHeader []int             `json:"rowHeader"`
	ColHeader []int             `json:"colHeader"`
	Sequence  int               `json:"sequence"`
	Blocks    map[string]string `json:"blocks"`
	Grid      [][]grid.Cell     `json:"grid"`
}

// WriteJSON encodes s as an indented JSON document and writes it to w.
func WriteJSON(s grid.State, w io.Writer) error {
	out := document{
		Version:   FormatVersion,
		Rows:      s.Rows(),
		Columns:   s.Cols(),
		RowHeader: nonNil(s.RowNumbers),
		ColHeader: nonNil(s.ColNumbers),
		Sequence:  s.Sequence,
		Blocks:    s.Blocks,
		Grid:      s.Cells,
	}
	if out.Blocks == nil {
		out.Blocks = map[string]string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func nonNil(ns []int) []int {
	if ns == nil {
		return []int{}
	}
	return ns
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s grid.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}

// ReadJSON decodes a document written by [WriteJSON] and validates it.
//
// ReadJSON returns an ErrCodeCorruptState error if the JSON is malformed, the
// version is unknown, rows or columns disagree with the grid, or the grid
// violates an engine invariant (see [grid.Validate]). ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (grid.State, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return grid.State{}, errors.Wrap(errors.ErrCodeCorruptState, err, "decode")
	}
	if doc.Version != FormatVersion {
		return grid.State{}, errors.New(errors.ErrCodeCorruptState, "unsupported document version %d", doc.Version)
	}

	s := grid.State{
		Cells:      doc.Grid,
		RowNumbers: doc.RowHeader,
		ColNumbers: doc.ColHeader,
		Blocks:     doc.Blocks,
		Sequence:   doc.Sequence,
	}
	if s.Blocks == nil {
		s.Blocks = map[string]string{}
	}
	if doc.Rows != s.Rows() || doc.Columns != s.Cols() {
		return grid.State{}, errors.New(errors.ErrCodeCorruptState,
			"document declares %dx%d but grid is %dx%d", doc.Rows, doc.Columns, s.Rows(), s.Cols())
	}
	if err := grid.Validate(s); err != nil {
		return grid.State{}, err
	}
	return s, nil
}

// ImportJSON reads and validates the JSON document at path.
func ImportJSON(path string) (grid.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return grid.State{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
