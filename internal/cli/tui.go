package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

var (
	editorHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	editorErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the grid interactively",
		Long: `Edit the grid in the terminal. Every change is saved as it is made.

  arrows/hjkl  move the cursor
  enter/space  pick up the block under the cursor, then drop it on an empty cell
  c            convert the header line under the cursor to the other axis
  + / -        add or remove a row
  > / <        add or remove a column
  1-4          add an item of that kind
  esc          drop the picked block; quit when nothing is picked
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if _, ok := ws.State(); !ok {
					return errors.New(errors.ErrCodeNoGrid, "workspace %q has no grid, create one first", ws.Name())
				}
				_, err := tea.NewProgram(newEditorModel(cmd.Context(), ws), tea.WithContext(cmd.Context())).Run()
				return err
			})
		},
	}
}

// EditorModel is the bubbletea model for the interactive grid editor.
type EditorModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	state  grid.State
	cursor grid.Position
	picked string // id of the block being moved
	status string
	err    error
}

func newEditorModel(ctx context.Context, ws *workspace.Workspace) EditorModel {
	m := EditorModel{ctx: ctx, ws: ws, cursor: grid.Position{Row: 1, Col: 1}}
	m.refresh()
	return m
}

// refresh reloads the state and keeps the cursor inside the grid.
func (m *EditorModel) refresh() {
	m.state, _ = m.ws.State()
	if rows := m.state.Rows(); m.cursor.Row >= rows {
		m.cursor.Row = max(rows-1, 0)
	}
	if cols := m.state.Cols(); m.cursor.Col >= cols {
		m.cursor.Col = max(cols-1, 0)
	}
}

// report records the outcome of an operation for the status line.
func (m *EditorModel) report(err error, format string, args ...any) {
	m.err = err
	m.status = ""
	if err == nil {
		m.status = fmt.Sprintf(format, args...)
	}
	m.refresh()
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.picked == "" {
			return m, tea.Quit
		}
		m.picked = ""
		m.status = "dropped selection"
	case "up", "k":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
	case "down", "j":
		if m.cursor.Row < m.state.Rows()-1 {
			m.cursor.Row++
		}
	case "left", "h":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "right", "l":
		if m.cursor.Col < m.state.Cols()-1 {
			m.cursor.Col++
		}
	case "enter", " ":
		m.pickOrDrop()
	case "c":
		m.convertAtCursor()
	case "+":
		_, err := m.ws.Resize(m.ctx, 1, 0)
		m.report(err, "added a row")
	case "-":
		res, err := m.ws.Resize(m.ctx, -1, 0)
		m.report(err, "removed a row, relocated %d block(s)", len(res.Relocated))
	case ">":
		_, err := m.ws.Resize(m.ctx, 0, 1)
		m.report(err, "added a column")
	case "<":
		res, err := m.ws.Resize(m.ctx, 0, -1)
		m.report(err, "removed a column, relocated %d block(s)", len(res.Relocated))
	case "1", "2", "3", "4":
		spec, _ := grid.LookupItem("item" + key.String())
		placed, err := m.ws.AddItem(m.ctx, spec.Kind, 1)
		m.report(err, "added %s (%d block(s))", spec.Kind, len(placed))
	}
	return m, nil
}

func (m *EditorModel) pickOrDrop() {
	if m.picked == "" {
		cell := m.cellAtCursor()
		if !cell.IsBlock() {
			m.report(nil, "no block under the cursor")
			return
		}
		m.picked = cell.ID
		m.status = "picked " + cell.Label
		return
	}
	id := m.picked
	m.picked = ""
	moved, err := m.ws.Move(m.ctx, id, m.cursor.Row, m.cursor.Col)
	if err == nil && !moved {
		m.report(nil, "%s stays put", id)
		return
	}
	m.report(err, "moved %s to %s", id, m.cursor)
}

func (m *EditorModel) convertAtCursor() {
	cell := m.cellAtCursor()
	if !cell.IsHeader() {
		m.report(nil, "move the cursor onto a header to convert it")
		return
	}
	index := m.cursor.Row
	if cell.Axis == grid.AxisColumn {
		index = m.cursor.Col
	}
	res, err := m.ws.Convert(m.ctx, strconv.Itoa(cell.Number), index)
	m.report(err, "converted %s %d to a %s", res.From, res.Number, res.To)
}

func (m EditorModel) cellAtCursor() grid.Cell {
	if m.cursor.Row >= len(m.state.Cells) || m.cursor.Col >= len(m.state.Cells[m.cursor.Row]) {
		return grid.Empty()
	}
	return m.state.Cells[m.cursor.Row][m.cursor.Col]
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("blockgrid · " + m.ws.Name()))
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render("arrows move  ⏎ pick/drop  c convert  +/- rows  >/< cols  1-4 add  q quit"))
	b.WriteString("\n\n")

	cursor := m.cursor
	b.WriteString(renderGrid(m.state, gridView{cursor: &cursor, picked: m.picked}))
	b.WriteString("\n\n")

	sum := m.ws.Summary(false)
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d×%d · %d/%d blocks · cursor %s", sum.Rows, sum.Cols, sum.Blocks, sum.Capacity, m.cursor)))
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(editorErrorStyle.Render(iconError + " " + errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(StyleSuccess.Render(iconInfo + " " + m.status))
	}
	b.WriteString("\n")

	return b.String()
}
