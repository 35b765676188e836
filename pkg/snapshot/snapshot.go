// Package snapshot converts engine state to and from the persisted
// key/value form.
//
// A workspace is stored as one text value per field:
//
//	grid       JSON matrix of cells (null, {"axis","number"} or {"id","label"})
//	blocks     JSON object mapping block id to label
//	rows       row count including the header row
//	columns    column count including the header column
//	rowHeader  JSON array of row header numbers, ascending
//	colHeader  JSON array of column header numbers, ascending
//	sequence   next block sequence number
//
// [Load] validates everything it reads with [grid.Validate]; a snapshot that
// does not describe a reachable engine state is rejected with
// ErrCodeCorruptState rather than restored.
package snapshot

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// Encode renders s as field values keyed by the store field names.
func Encode(s grid.State) (map[string]string, error) {
	cells, err := json.Marshal(s.Cells)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode grid")
	}
	blocks := s.Blocks
	if blocks == nil {
		blocks = map[string]string{}
	}
	labels, err := json.Marshal(blocks)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode blocks")
	}
	return map[string]string{
		store.FieldGrid:      string(cells),
		store.FieldBlocks:    string(labels),
		store.FieldRows:      strconv.Itoa(s.Rows()),
		store.FieldColumns:   strconv.Itoa(s.Cols()),
		store.FieldRowHeader: encodeInts(s.RowNumbers),
		store.FieldColHeader: encodeInts(s.ColNumbers),
		store.FieldSequence:  strconv.Itoa(s.Sequence),
	}, nil
}

func encodeInts(ns []int) string {
	if ns == nil {
		ns = []int{}
	}
	b, _ := json.Marshal(ns)
	return string(b)
}

// Decode parses field values produced by [Encode] and validates the result.
func Decode(fields map[string]string) (grid.State, error) {
	var s grid.State
	for _, f := range store.Fields() {
		if _, ok := fields[f]; !ok {
			return grid.State{}, errors.New(errors.ErrCodeCorruptState, "snapshot is missing %q", f)
		}
	}
	if err := json.Unmarshal([]byte(fields[store.FieldGrid]), &s.Cells); err != nil {
		return grid.State{}, errors.Wrap(errors.ErrCodeCorruptState, err, "decode grid")
	}
	if err := json.Unmarshal([]byte(fields[store.FieldBlocks]), &s.Blocks); err != nil {
		return grid.State{}, errors.Wrap(errors.ErrCodeCorruptState, err, "decode blocks")
	}
	if err := json.Unmarshal([]byte(fields[store.FieldRowHeader]), &s.RowNumbers); err != nil {
		return grid.State{}, errors.Wrap(errors.ErrCodeCorruptState, err, "decode row headers")
	}
	if err := json.Unmarshal([]byte(fields[store.FieldColHeader]), &s.ColNumbers); err != nil {
		return grid.State{}, errors.Wrap(errors.ErrCodeCorruptState, err, "decode column headers")
	}

	var rows, cols int
	for _, n := range []struct {
		field string
		dst   *int
	}{
		{store.FieldRows, &rows},
		{store.FieldColumns, &cols},
		{store.FieldSequence, &s.Sequence},
	} {
		v, err := strconv.Atoi(fields[n.field])
		if err != nil {
			return grid.State{}, errors.Wrap(errors.ErrCodeCorruptState, err, "decode %s", n.field)
		}
		*n.dst = v
	}
	if rows != s.Rows() || cols != s.Cols() {
		return grid.State{}, errors.New(errors.ErrCodeCorruptState,
			"stored size %dx%d does not match %dx%d grid", rows, cols, s.Rows(), s.Cols())
	}
	if s.Blocks == nil {
		s.Blocks = map[string]string{}
	}
	if err := grid.Validate(s); err != nil {
		return grid.State{}, err
	}
	return s, nil
}

// Save writes every field of s for workspace. The grid field is written last
// so a reader never sees a grid without its supporting fields.
func Save(ctx context.Context, st store.Store, k store.Keyer, workspace string, s grid.State) error {
	fields, err := Encode(s)
	if err != nil {
		return err
	}
	for _, f := range store.Fields() {
		if f == store.FieldGrid {
			continue
		}
		if err := st.Set(ctx, k.Key(workspace, f), fields[f]); err != nil {
			return err
		}
	}
	return st.Set(ctx, k.Key(workspace, store.FieldGrid), fields[store.FieldGrid])
}

// Load reads the snapshot of workspace. found is false when no grid has
// been saved.
func Load(ctx context.Context, st store.Store, k store.Keyer, workspace string) (s grid.State, found bool, err error) {
	fields := make(map[string]string, len(store.Fields()))
	for _, f := range store.Fields() {
		v, ok, err := st.Get(ctx, k.Key(workspace, f))
		if err != nil {
			return grid.State{}, false, err
		}
		if !ok {
			if f == store.FieldGrid {
				return grid.State{}, false, nil
			}
			continue
		}
		fields[f] = v
	}
	s, err = Decode(fields)
	if err != nil {
		return grid.State{}, true, err
	}
	return s, true, nil
}

// Delete removes every field of workspace. The grid field goes first so a
// partially deleted workspace reads as absent.
func Delete(ctx context.Context, st store.Store, k store.Keyer, workspace string) error {
	for _, key := range k.WorkspaceKeys(workspace) {
		if err := st.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
