// Package grid implements the block grid mutation engine.
//
// # Overview
//
// A grid is a bordered matrix. Row 0 holds column headers, column 0 holds row
// headers, and the corner cell (0,0) is an empty artifact. Every other cell is
// an interior cell that is either empty or holds a block. The number of interior
// cells is the grid's capacity:
//
//	capacity = (rows-1) * (columns-1)
//
// Header lines carry numbers. Fresh row numbers are odd (1, 3, 5, ...) and fresh
// column numbers are even (0, 2, 4, ...). The [HeaderIndex] tracks which numbers
// belong to which axis and hands out the next number, reusing gaps left by
// earlier shrinks and conversions before extending the range.
//
// # Components
//
//   - [HeaderIndex]: ordered, disjoint row and column number sets
//   - [Matrix]: the cell store with structural row/column insert and removal
//   - Placement ([Matrix.FindRun], [Matrix.PlaceSingle], [Matrix.PlaceGroup]):
//     first-fit placement in row-major order
//   - [Engine]: the single owner of the grid state. It exposes create, resize,
//     header-line conversion, item placement, block moves and reset
//
// # Atomicity
//
// Every Engine operation validates its preconditions before touching state and
// then applies the mutation to a private copy that replaces the live state only
// on success. A rejected operation returns an error from
// [github.com/matzehuels/blockgrid/pkg/errors] and leaves the engine exactly as
// it was.
//
// # Example
//
//	e := grid.New(grid.Options{})
//	_ = e.Create(3, 3)                        // column headers 0,2; row headers 1,3
//	placed, _ := e.AddItem(grid.ItemSingle, 1) // block at (1,1)
//	_, _ = e.Resize(1, 0)                      // new row header 5
//	_, err := e.MoveBlock(placed[0].ID, 0, 1)  // OCCUPIED_TARGET: header cell
//
// The engine is not safe for concurrent use; callers serialize access.
package grid
