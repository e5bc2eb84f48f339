package export

import (
	"fmt"
	"strconv"
	"strings"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// GridSheet is a titled matrix: one header column followed by one column per entry of ColumnHeaders.
type GridSheet struct {
	Title         string
	CornerLabel   string
	ColumnHeaders []string
	Rows          []GridRow
}

// GridRow is one labelled row of a GridSheet.
type GridRow struct {
	Header string
	Cells  []GridCell
}

// GridCell is one cell. Fill is a "#rrggbb" background; empty means no fill.
type GridCell struct {
	Title  string
	Detail string
	Fill   string
}

// Empty reports whether the cell carries no content.
func (c GridCell) Empty() bool {
	return c.Title == "" && c.Detail == ""
}

func (g GridSheet) validate() error {
	if len(g.ColumnHeaders) == 0 {
		return fmt.Errorf("grid requires at least one column")
	}
	for _, row := range g.Rows {
		if len(row.Cells) > len(g.ColumnHeaders) {
			return fmt.Errorf("row %q has %d cells for %d columns", row.Header, len(row.Cells), len(g.ColumnHeaders))
		}
	}
	return nil
}

// parseHexColor decodes "#rrggbb" into channels.
func parseHexColor(raw string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(value >> 16 & 0xff), int(value >> 8 & 0xff), int(value & 0xff), true
}
