package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

// createCommand creates the create command.
func (c *CLI) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create ROWS COLUMNS",
		Short: "Create a grid",
		Long: `Create a ROWS×COLUMNS grid, header row and header column included.

Column headers are numbered with even numbers from 0 and row headers with odd
numbers from 1, so "create 3 3" gives columns 0, 2 and rows 1, 3 around a 2×2
interior.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseIntArg("rows", args[0])
			if err != nil {
				return err
			}
			cols, err := parseIntArg("columns", args[1])
			if err != nil {
				return err
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if err := ws.Create(cmd.Context(), rows, cols); err != nil {
					return err
				}
				printSuccess("Created %d×%d grid in %s", rows, cols, StyleHighlight.Render(ws.Name()))
				printSummary(ws.Summary(false))
				return nil
			})
		},
	}
}

// resizeCommand creates the resize command.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		dRows, dCols int
		to           string
	)

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Grow or shrink the grid",
		Long: `Grow or shrink the grid by row and column deltas, or to an absolute size.

New rows and columns take the lowest free header number of their parity.
Shrinking removes trailing lines and moves their blocks into empty interior
cells; it is refused when the blocks would not fit.`,
		Example: `  blockgrid resize --rows 2
  blockgrid resize -r -1 -c 1
  blockgrid resize --to 5x4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				return c.runResize(cmd.Context(), ws, dRows, dCols, to)
			})
		},
	}

	cmd.Flags().IntVarP(&dRows, "rows", "r", 0, "rows to add (negative to remove)")
	cmd.Flags().IntVarP(&dCols, "cols", "c", 0, "columns to add (negative to remove)")
	cmd.Flags().StringVar(&to, "to", "", "absolute size ROWSxCOLS")
	cmd.MarkFlagsMutuallyExclusive("to", "rows")
	cmd.MarkFlagsMutuallyExclusive("to", "cols")

	return cmd
}

func (c *CLI) runResize(ctx context.Context, ws *workspace.Workspace, dRows, dCols int, to string) error {
	var (
		res grid.ResizeResult
		err error
	)
	if to != "" {
		rows, cols, perr := parseSize(to)
		if perr != nil {
			return perr
		}
		res, err = ws.ResizeTo(ctx, rows, cols)
	} else {
		res, err = ws.Resize(ctx, dRows, dCols)
	}
	if err != nil {
		return err
	}
	printSuccess("Resized to %d×%d", res.Rows, res.Cols)
	printRelocated(res.Relocated)
	return nil
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert HEADER INDEX",
		Short: "Convert a header line to the other axis",
		Long: `Convert the row or column whose header is numbered HEADER into a line of the
other axis. INDEX is the line's position: its row index for a row header, its
column index for a column header.

The line keeps its header number and is inserted in sorted position on the
other axis. Its blocks move into empty interior cells.`,
		Example: `  blockgrid convert 3 2   # row 3, the second row, becomes a column`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIntArg("index", args[1])
			if err != nil {
				return err
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				res, err := ws.Convert(cmd.Context(), args[0], index)
				if err != nil {
					return err
				}
				printSuccess("Converted %s %d to a %s at index %d", res.From, res.Number, res.To, res.Index)
				printDetail("Grid is now %d×%d", res.Rows, res.Cols)
				printRelocated(res.Relocated)
				return nil
			})
		},
	}
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "add KIND",
		Short: "Add an item to the grid",
		Long: `Add COUNT units of an item kind. Kinds are single, triple, quad and group
(or item1 to item4); see "blockgrid items" for the catalog.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: itemNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				placed, err := ws.AddItem(cmd.Context(), grid.ItemKind(args[0]), count)
				if err != nil {
					return err
				}
				printSuccess("Added %d block(s)", len(placed))
				for _, p := range placed {
					printDetail("%s at %s", p.ID, p.Position)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of units to add")

	return cmd
}

func itemNames() []string {
	var names []string
	for _, spec := range grid.Items() {
		names = append(names, string(spec.Kind))
	}
	return names
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move BLOCK ROW COL",
		Short: "Move a block to an empty cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseIntArg("row", args[1])
			if err != nil {
				return err
			}
			col, err := parseIntArg("col", args[2])
			if err != nil {
				return err
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				moved, err := ws.Move(cmd.Context(), args[0], row, col)
				if err != nil {
					return err
				}
				if !moved {
					printInfo("Nothing to move")
					return nil
				}
				printSuccess("Moved %s to %s", args[0], grid.Position{Row: row, Col: col})
				return nil
			})
		},
	}
}

// resetCommand creates the reset command.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the grid and its saved state",
		Long:  "Discard the grid and its saved state. The saved state is not loaded first, so a damaged workspace can be reset too.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := c.workspaceOptions(ctx, cfg)
			if err != nil {
				return err
			}
			defer opts.Store.Close()

			if err := workspace.Reset(ctx, cfg.Workspace, opts); err != nil {
				return err
			}
			printSuccess("Reset %s", StyleHighlight.Render(cfg.Workspace))
			return nil
		},
	}
}

func printRelocated(placed []grid.Placement) {
	if len(placed) == 0 {
		return
	}
	printWarning("Relocated %d block(s)", len(placed))
	for _, p := range placed {
		printDetail("%s %s %s", p.ID, iconArrow, p.Position)
	}
}

// itemsCommand creates the items command.
func (c *CLI) itemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List item kinds and which are on the grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				present := make(map[grid.ItemKind]bool)
				for _, k := range ws.Summary(false).Items {
					present[k] = true
				}
				fmt.Println(StyleTitle.Render("Items"))
				for _, spec := range grid.Items() {
					mark := StyleDim.Render(iconEmpty)
					if present[spec.Kind] {
						mark = StyleSuccess.Render(iconSuccess)
					}
					layout := "loose"
					if spec.Grouped {
						layout = "grouped"
					}
					fmt.Printf("%s %-7s %s  %s\n", mark, spec.Kind, StyleNumber.Render(fmt.Sprintf("%d", spec.Blocks)),
						StyleDim.Render(fmt.Sprintf("%s, %s, alias item%d", spec.Title, layout, spec.Tag)))
				}
				return nil
			})
		},
	}
}
