package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON, ids bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the grid",
		Long: `Print the grid as a table. Row 0 holds the column header numbers and column 0
the row header numbers; interior cells show block labels, or ids with --ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				sum := ws.Summary(true)
				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(sum)
				}
				printKeyValue("Workspace", sum.Name)
				if sum.State == nil {
					printSummary(sum)
					printNextStep("Create one with", appName+" create 3 3")
					return nil
				}
				fmt.Println(renderGrid(*sum.State, gridView{ids: ids}))
				printSummary(sum)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the workspace summary and state as JSON")
	cmd.Flags().BoolVar(&ids, "ids", false, "show block ids instead of labels")

	return cmd
}

// gridView controls how renderGrid draws a state.
type gridView struct {
	ids    bool           // block ids instead of labels
	cursor *grid.Position // highlighted cell
	picked string         // block id being moved
}

var (
	styleCursor = lipgloss.NewStyle().Reverse(true)
	stylePicked = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderGrid draws the full matrix, headers included, as a bordered table.
func renderGrid(s grid.State, v gridView) string {
	rows := make([][]string, len(s.Cells))
	for r, row := range s.Cells {
		rows[r] = make([]string, len(row))
		for c, cell := range row {
			rows[r][c] = cellText(cell, v.ids)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(s.Cells) || col >= len(s.Cells[row]) {
				return lipgloss.NewStyle()
			}
			style := cellStyle(s.Cells[row][col]).Padding(0, 1)
			if cell := s.Cells[row][col]; v.picked != "" && cell.IsBlock() && cell.ID == v.picked {
				style = style.Inherit(stylePicked)
			}
			if v.cursor != nil && v.cursor.Row == row && v.cursor.Col == col {
				style = style.Inherit(styleCursor)
			}
			return style
		})

	return t.Render()
}

func cellText(c grid.Cell, ids bool) string {
	switch {
	case c.IsHeader():
		return c.String()
	case c.IsBlock() && ids:
		return c.ID
	case c.IsBlock():
		return c.Label
	}
	return iconEmpty
}

func cellStyle(c grid.Cell) lipgloss.Style {
	switch c.Kind {
	case grid.CellHeader:
		return styleHeader
	case grid.CellBlock:
		if tag, _, ok := grid.ParseBlockID(c.ID); ok {
			if color, ok := blockColors[tag]; ok {
				return lipgloss.NewStyle().Foreground(color)
			}
		}
		return StyleValue
	}
	return styleEmpty
}
