package layout

import (
	"log/slog"
	"strings"

	"github.com/omriav/credit-analyzer/internal/models"
)

// scanRows bounds how far into a sheet header rows are searched for.
const scanRows = 10

// Detect returns the highest-priority layout whose header keywords appear
// in one of the first rows, anchored at that row. It never fails: when no
// layout matches, the default layout is returned at its fixed rows.
func Detect(rows []models.Row) models.Layout {
	headers := headerTexts(rows)
	for _, l := range registry {
		if i, ok := findHeader(l, headers); ok {
			slog.Debug("layout detected", "layout", l.ID, "header_row", i)
			return anchored(l, i)
		}
	}

	slog.Debug("no layout matched, using default", "layout", defaultID, "rows_scanned", len(headers))
	return Default()
}

// Anchor locates the header of a specific layout within the scan window.
// When the header is not found the layout keeps its registered rows.
func Anchor(l models.Layout, rows []models.Row) models.Layout {
	if i, ok := findHeader(l, headerTexts(rows)); ok {
		return anchored(l, i)
	}
	return l
}

func findHeader(l models.Layout, headers []string) (int, bool) {
	for i, h := range headers {
		if matches(l, h) {
			return i, true
		}
	}
	return -1, false
}

func matches(l models.Layout, header string) bool {
	if header == "" {
		return false
	}
	for _, kw := range l.Keywords {
		if !strings.Contains(header, strings.ToLower(kw)) {
			return false
		}
	}
	for _, kw := range l.Excludes {
		if strings.Contains(header, strings.ToLower(kw)) {
			return false
		}
	}
	return len(l.Keywords) > 0
}

func anchored(l models.Layout, headerRow int) models.Layout {
	l = l.Clone()
	l.HeaderRow = headerRow
	l.DataStartRow = headerRow + 1
	return l
}

// headerTexts renders the scan window as lower-cased, pipe-joined rows.
func headerTexts(rows []models.Row) []string {
	n := min(len(rows), scanRows)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if rows[i].IsBlank() {
			continue
		}
		cells := make([]string, len(rows[i]))
		for j, c := range rows[i] {
			cells[j] = models.CellText(c)
		}
		out[i] = strings.ToLower(strings.Join(cells, "|"))
	}
	return out
}
