package cli

import (
	"testing"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in         string
		rows, cols int
		wantErr    bool
	}{
		{"4x5", 4, 5, false},
		{" 3X3 ", 3, 3, false},
		{"10x2", 10, 2, false},
		{"0x2", 0, 2, false}, // rejected by the engine, not the parser
		{"4", 0, 0, true},
		{"axb", 0, 0, true},
		{"4x", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rows, cols, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
				}
				return
			}
			if rows != tt.rows || cols != tt.cols {
				t.Errorf("parseSize(%q) = %d,%d, want %d,%d", tt.in, rows, cols, tt.rows, tt.cols)
			}
		})
	}
}

func TestParseIntArg(t *testing.T) {
	if n, err := parseIntArg("row", "-2"); err != nil || n != -2 {
		t.Errorf("parseIntArg(-2) = %d, %v", n, err)
	}
	if _, err := parseIntArg("row", "two"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("parseIntArg(two) error = %v", err)
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		path, format, want string
		wantErr            bool
	}{
		{"grid.json", "", formatJSON, false},
		{"grid.XLSX", "", formatXLSX, false},
		{"grid", "", formatJSON, false},
		{"grid.json", "xlsx", formatXLSX, false},
		{"grid.csv", "", "", true},
		{"grid.json", "pdf", "", true},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.path, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("exportFormat(%q, %q) error = %v, wantErr %v", tt.path, tt.format, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("exportFormat(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}
