// Package sheet decodes spreadsheet files into rows of cells. Only the
// first sheet of a workbook is read.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoSheets          = errors.New("no sheets found")
)

// numeric matches plain decimal numbers. Values with a leading zero such
// as receipt numbers stay text.
var numeric = regexp.MustCompile(`^-?(?:0|[1-9]\d{0,14})(?:\.\d+)?$`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Supported reports whether name has an extension Read can decode.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}

// Read decodes r according to the extension of name.
func Read(name string, r io.ReadSeeker) ([]models.Row, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadFile opens and decodes a local file.
func ReadFile(path string) ([]models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(filepath.Base(path), f)
}

// ReadBytes decodes an in-memory file.
func ReadBytes(name string, data []byte) ([]models.Row, error) {
	return Read(name, bytes.NewReader(data))
}

func readXLSX(r io.Reader) ([]models.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	// Raw values keep date cells as serial numbers.
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return toRows(raw), nil
}

func readXLS(r io.ReadSeeker) (rows []models.Row, err error) {
	// The xls decoder panics on some malformed workbooks.
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, fmt.Errorf("failed to decode workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheets
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoSheets
	}

	rows = make([]models.Row, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, models.Row{})
			continue
		}

		cells := make(models.Row, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, toCell(row.Col(j)))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([]models.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	raw, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return toRows(raw), nil
}

func toRows(raw [][]string) []models.Row {
	rows := make([]models.Row, len(raw))
	for i, r := range raw {
		cells := make(models.Row, len(r))
		for j, v := range r {
			cells[j] = toCell(v)
		}
		rows[i] = cells
	}
	return rows
}

// toCell turns plain numbers into float64 and leaves everything else as
// trimmed text. Empty cells are nil.
func toCell(s string) models.Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if numeric.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
