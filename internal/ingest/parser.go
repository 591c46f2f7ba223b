package ingest

import (
	"io"
	"strings"

	"energy_predictor/internal/model"
)

// Parser reads a consumption table from a source.
type Parser interface {
	Parse(r io.Reader) (*Table, error)
}

// Table is a parsed consumption table.
type Table struct {
	Header  []string
	Head    [][]string // first raw rows, kept for the console preview
	Records []model.RawRecord
}

// headerName strips whitespace and a UTF-8 BOM from a header cell.
func headerName(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
