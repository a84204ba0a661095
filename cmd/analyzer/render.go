package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/omriav/credit-analyzer/internal/layout"
	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/rates"
	"github.com/omriav/credit-analyzer/internal/session"
)

const noTransactions = "no transactions found"

type analyzeReport struct {
	SessionID string                  `json:"sessionId"`
	Rates     *rates.Table            `json:"rates"`
	Files     []models.FileResult     `json:"files"`
	Hidden    []string                `json:"hidden"`
	Summary   *models.MerchantSummary `json:"summary,omitempty"`
}

type layoutInfo struct {
	models.Layout
	Keywords []string `json:"keywords"`
	Excludes []string `json:"excludes,omitempty"`
	Default  bool     `json:"default,omitempty"`
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func renderAnalyze(out io.Writer, s *session.Session, results []models.FileResult, summary *models.MerchantSummary) error {
	fmt.Fprintf(out, "Session %s, rates: %s (%s)\n\n", s.ID, s.Rates.Source, s.Rates.Home)

	tw := newTable(out)
	fmt.Fprintln(tw, "FILE\tLAYOUT\tTRANSACTIONS\tSKIPPED\tMALFORMED\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Failed() {
			status = "error: " + r.Error
		}
		name := r.LayoutName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", r.FileName, name, r.Count, r.Skipped, r.Malformed, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	if summary == nil {
		fmt.Fprintln(out, noTransactions)
		return nil
	}

	tw = newTable(out)
	fmt.Fprintf(tw, "MERCHANT\tTOTAL (%s)\tCOUNT\n", s.Rates.Home)
	for _, m := range summary.Merchants {
		name := m.Merchant
		if m.Folded {
			name = fmt.Sprintf("%s (%d merchants)", m.Merchant, m.FoldedMerchants)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", name, m.Total.StringFixed(2), m.Count)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t%d merchants\n", summary.Total.StringFixed(2), summary.MerchantCount)
	if err := tw.Flush(); err != nil {
		return err
	}

	if hidden := s.Hidden(); len(hidden) > 0 {
		fmt.Fprintf(out, "\nhidden: %s\n", strings.Join(hidden, ", "))
	}
	return nil
}

func renderTrend(out io.Writer, series models.MonthlySeries) error {
	if len(series.Months) == 0 {
		fmt.Fprintf(out, "%s for %q\n", noTransactions, series.Merchant)
	} else {
		tw := newTable(out)
		fmt.Fprintln(tw, "MONTH\tTOTAL\tCOUNT")
		for _, m := range series.Months {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", m.Month, m.Total.StringFixed(2), m.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if series.InvalidDates > 0 {
		fmt.Fprintf(out, "%d transactions with unreadable dates left out\n", series.InvalidDates)
	}
	return nil
}

func layoutsReport() []layoutInfo {
	def := layout.Default().ID
	var out []layoutInfo
	for _, l := range layout.Known() {
		out = append(out, layoutInfo{
			Layout:   l,
			Keywords: l.Keywords,
			Excludes: l.Excludes,
			Default:  l.ID == def,
		})
	}
	return out
}

func renderLayouts(out io.Writer) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tHEADER ROW\tDATA ROW\tKEYWORDS")
	for _, l := range layoutsReport() {
		id := string(l.ID)
		if l.Default {
			id += " (default)"
		}
		// Rows are printed 1-based.
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", id, l.DisplayName, l.HeaderRow+1, l.DataStartRow+1, strings.Join(l.Keywords, ", "))
	}
	return tw.Flush()
}

func renderRates(out io.Writer, t *rates.Table) error {
	fmt.Fprintf(out, "Rates into %s, source: %s, as of %s\n\n", t.Home, t.Source, t.FetchedAt.Format("2006-01-02 15:04"))

	tw := newTable(out)
	fmt.Fprintln(tw, "CODE\tRATE")
	var codes []string
	for code := range t.Rates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		fmt.Fprintf(tw, "%s\t%s\n", code, t.Rates[code].String())
	}
	return tw.Flush()
}
