package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cell is a single decoded spreadsheet value: string, float64, int,
// time.Time or nil for an empty cell.
type Cell = any

// Row is one sheet row as handed over by the spreadsheet reader.
type Row []Cell

// At returns the cell at column i, or nil when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Text returns the trimmed string form of the cell at column i.
func (r Row) Text(i int) string {
	return CellText(r.At(i))
}

// IsBlank reports whether every cell of the row is empty.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if CellText(c) != "" {
			return false
		}
	}
	return true
}

// CellText renders a cell as trimmed text.
func CellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02")
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
