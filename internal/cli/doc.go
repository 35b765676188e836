// Package cli implements the blockgrid command-line interface.
//
// Every command works on one workspace, chosen with --workspace or the
// config file, and saves it to the configured store after each change.
//
// # Commands
//
// Grid operations:
//   - create: create a rows×columns grid
//   - resize: grow or shrink by deltas (--rows, --cols) or to a size (--to)
//   - convert: turn a row header line into a column or the reverse
//   - add: add items from the catalog
//   - move: move a block to an empty interior cell
//   - reset: discard the grid
//
// Inspection and transfer:
//   - show: print the grid as a table
//   - items: list the item catalog and what is on the grid
//   - export, import: JSON documents and XLSX workbooks
//
// Front ends:
//   - edit: interactive terminal editor
//   - serve: HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every engine operation and store access. Loggers are passed
// through context.Context.
package cli
