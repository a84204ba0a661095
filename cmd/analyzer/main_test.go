package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementCSV = `Date,Merchant,Amount,Currency
01/03/2024,Cafe,10,₪
05/03/2024,Books,5,$
15/04/2024,Cafe,20,₪
,Total,35,
`

func writeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(statementCSV), 0o644))
	return path
}

func TestRunAnalyze_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "march.csv")

	var out bytes.Buffer
	err := runAnalyze(context.Background(), []string{"-rates", "fallback", path, filepath.Join(dir, "missing.csv")}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "rates: fallback (ILS)")
	assert.Contains(t, text, "Generic (English headers)")
	assert.Contains(t, text, "error:")
	assert.Contains(t, text, "Cafe")
	assert.Contains(t, text, "30.00")
	assert.Contains(t, text, "18.50")
	assert.Contains(t, text, "48.50")
	assert.NotContains(t, text, noTransactions)
}

func TestRunAnalyze_JSONWithHidden(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "march.csv")

	var out bytes.Buffer
	err := runAnalyze(context.Background(), []string{"-rates", "fallback", "-format", "json", "-hide", "Cafe", path}, &out)
	require.NoError(t, err)

	var report struct {
		SessionID string `json:"sessionId"`
		Files     []struct {
			FileName string `json:"fileName"`
			LayoutID string `json:"detectedLayoutId"`
			Count    int    `json:"count"`
			Skipped  int    `json:"skipped"`
		} `json:"files"`
		Hidden  []string `json:"hidden"`
		Summary struct {
			Total         float64 `json:"total"`
			MerchantCount int     `json:"merchantCount"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.NotEmpty(t, report.SessionID)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "english", report.Files[0].LayoutID)
	assert.Equal(t, 3, report.Files[0].Count)
	assert.Equal(t, 1, report.Files[0].Skipped)
	assert.Equal(t, []string{"Cafe"}, report.Hidden)
	assert.Equal(t, 18.5, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.MerchantCount)
}

func TestRunAnalyze_TopFoldsIntoOther(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "march.csv")

	var out bytes.Buffer
	err := runAnalyze(context.Background(), []string{"-rates", "fallback", "-top", "1", path}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Other (1 merchants)")
	assert.Contains(t, out.String(), "18.50")
}

func TestRunAnalyze_AllHidden(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "march.csv")

	var out bytes.Buffer
	err := runAnalyze(context.Background(), []string{"-rates", "fallback", "-hide", "Cafe", "-hide", "Books", path}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), noTransactions)
}

func TestRunAnalyze_AllFilesFailed(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := runAnalyze(context.Background(), []string{"-rates", "fallback", filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.pdf")}, &out)
	assert.ErrorIs(t, err, errAllFilesFailed)
	assert.Contains(t, out.String(), noTransactions)
}

func TestRunAnalyze_CSVExport(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "march.csv")
	export := filepath.Join(dir, "export.csv")

	var out bytes.Buffer
	err := runAnalyze(context.Background(), []string{"-rates", "fallback", "-csv", export, "-hide", "Books", path}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-01,Cafe,10.00")
	assert.NotContains(t, string(data), "Books")
}

func TestRunAnalyze_BadFlags(t *testing.T) {
	var out bytes.Buffer
	ctx := context.Background()

	assert.Error(t, runAnalyze(ctx, []string{"-rates", "bogus", "x.csv"}, &out))
	assert.Error(t, runAnalyze(ctx, []string{"-rates", "fallback", "-format", "xml", "x.csv"}, &out))
	assert.Error(t, runAnalyze(ctx, []string{"-rates", "fallback", "-upload", "out.csv", "x.csv"}, &out))
	assert.Error(t, runAnalyze(ctx, []string{"-rates", "fallback"}, &out))
}

func TestRunTrend(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "march.csv")

	var out bytes.Buffer
	err := runTrend(context.Background(), []string{"-rates", "fallback", "-merchant", "Cafe", path}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "2024-03"))
	assert.Contains(t, lines[1], "10.00")
	assert.True(t, strings.HasPrefix(lines[2], "2024-04"))

	assert.Error(t, runTrend(context.Background(), []string{"-rates", "fallback", path}, &out))
}

func TestRunTrend_Hidden(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "march.csv")

	var out bytes.Buffer
	err := runTrend(context.Background(), []string{"-rates", "fallback", "-merchant", "Cafe", "-hide", "Cafe", path}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), noTransactions)
}

func TestRunLayouts(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runLayouts(nil, &out))
	assert.Contains(t, out.String(), "max (default)")
	assert.Contains(t, out.String(), "isracard")

	out.Reset()
	require.NoError(t, runLayouts([]string{"-format", "json"}, &out))

	var layouts []struct {
		ID       string   `json:"id"`
		Keywords []string `json:"keywords"`
		Default  bool     `json:"default"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &layouts))
	require.Len(t, layouts, 4)
	assert.Equal(t, "isracard", layouts[0].ID)
	assert.NotEmpty(t, layouts[0].Keywords)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "a.csv")
	writeStatement(t, dir, "b.xlsx")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := expandPaths([]string{dir, "missing.xls"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.xlsx"), "missing.xls"}, paths)
}

func TestSupportedOnly(t *testing.T) {
	assert.Equal(t, []string{"2024/03.xlsx", "x.csv"}, supportedOnly([]string{"2024/03.xlsx", "readme.md", "x.csv"}))
}
