package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/blockgrid/pkg/grid"
)

// Sheet names used by [WriteXLSX].
const (
	GridSheet   = "Grid"
	BlocksSheet = "Blocks"
)

// WriteXLSX writes s as an Excel workbook to w.
func WriteXLSX(s grid.State, w io.Writer) error {
	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportXLSX writes s as an Excel workbook at path.
func ExportXLSX(s grid.State, path string) error {
	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(s grid.State) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", GridSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeGridSheet(f, s); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeBlocksSheet(f, s); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeGridSheet(f *excelize.File, s grid.State) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	for r, row := range s.Cells {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			switch cell.Kind {
			case grid.CellHeader:
				if err := f.SetCellValue(GridSheet, name, cell.Number); err != nil {
					return err
				}
				if err := f.SetCellStyle(GridSheet, name, name, bold); err != nil {
					return err
				}
			case grid.CellBlock:
				if err := f.SetCellValue(GridSheet, name, cell.Label); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeBlocksSheet(f *excelize.File, s grid.State) error {
	if _, err := f.NewSheet(BlocksSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	rows := [][]any{{"id", "label", "row", "column"}}
	for r, row := range s.Cells {
		for c, cell := range row {
			if cell.IsBlock() {
				rows = append(rows, []any{cell.ID, cell.Label, r, c})
			}
		}
	}
	for i, values := range rows {
		name, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(BlocksSheet, name, &values); err != nil {
			return err
		}
	}
	return nil
}
