// Package pkg provides the core libraries for blockgrid.
//
// # Overview
//
// Blockgrid keeps a rectangular matrix of cells framed by a header row and a
// header column. Header cells carry unique numbers: fresh row numbers are
// odd and fresh column numbers are even. Interior cells are empty or hold a
// block. The packages are organized into three areas:
//
//  1. [grid] - The engine: header numbering, the matrix, placement, resize,
//     header-line conversion and moves. Pure and free of I/O.
//  2. [store], [snapshot], [workspace] - Persistence: a key/value store with
//     several backends, the mapping from engine state to store keys, and
//     named workspaces that save after every change.
//  3. [export], [errors], [observability], [buildinfo] - Supporting pieces:
//     file formats, coded errors, hooks and version data.
//
// # Quick Start
//
//	e := grid.New(grid.Options{})
//	_ = e.Create(3, 3)                    // columns 0, 2; rows 1, 3
//	placed, _ := e.AddItem(grid.ItemSingle, 1)
//	_, _ = e.MoveBlock(placed[0].ID, 2, 2)
//	_, _ = e.Resize(1, 0)                 // adds row 5
//
// Every engine operation either applies completely or returns a coded error
// and leaves the state untouched:
//
//	if _, err := e.Resize(-5, 0); errors.Is(err, errors.ErrCodeMinimumSize) {
//	    // rejected, nothing changed
//	}
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/grid
// [store]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/store
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/snapshot
// [workspace]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/workspace
// [export]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/export
// [errors]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/blockgrid/pkg/buildinfo
package pkg
