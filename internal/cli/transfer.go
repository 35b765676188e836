package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/export"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the grid to a JSON or XLSX file",
		Long: `Write the grid to FILE. The format follows the file extension unless --format
is given. JSON documents can be read back with "import"; XLSX workbooks hold
the grid on one sheet and the block positions on another.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(args[0], format)
			if err != nil {
				return err
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				return c.runExport(cmd.Context(), ws, args[0], f)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, xlsx (default: from extension)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, ws *workspace.Workspace, path, format string) error {
	logger := loggerFromContext(ctx)
	s, ok := ws.State()
	if !ok {
		return errors.New(errors.ErrCodeNoGrid, "workspace %q has no grid to export", ws.Name())
	}

	prog := newProgress(logger)
	var err error
	switch format {
	case formatXLSX:
		err = export.ExportXLSX(s, path)
	default:
		err = export.ExportJSON(s, path)
	}
	if err != nil {
		return err
	}
	prog.done("exported grid", "workspace", ws.Name(), "format", format)

	abs, _ := filepath.Abs(path)
	printSuccess("Exported %s", StyleHighlight.Render(ws.Name()))
	printFile(abs)
	return nil
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the grid with one from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := export.ImportJSON(args[0])
			if err != nil {
				return err
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if err := ws.Import(cmd.Context(), s); err != nil {
					return err
				}
				printSuccess("Imported %d×%d grid into %s", s.Rows(), s.Cols(), StyleHighlight.Render(ws.Name()))
				printSummary(ws.Summary(false))
				return nil
			})
		},
	}
}
