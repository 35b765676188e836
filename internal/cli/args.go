package cli

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// Export formats.
const (
	formatJSON = "json"
	formatXLSX = "xlsx"
)

// parseIntArg parses a positional integer argument.
func parseIntArg(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, s)
	}
	return n, nil
}

// parseSize parses "ROWSxCOLS" (e.g. "4x5").
func parseSize(s string) (rows, cols int, err error) {
	r, c, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "size must look like ROWSxCOLS, got %q", s)
	}
	if rows, err = parseIntArg("rows", r); err != nil {
		return 0, 0, err
	}
	if cols, err = parseIntArg("columns", c); err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

// exportFormat returns the explicit format, or the one implied by the file
// extension.
func exportFormat(path, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case formatJSON, formatXLSX:
		return format, nil
	case "":
		return formatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json or xlsx)", format)
}
