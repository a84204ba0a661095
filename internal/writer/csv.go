// Package writer exports transactions.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/normalize"
	"github.com/omriav/credit-analyzer/internal/rates"
	"github.com/shopspring/decimal"
)

var header = []string{
	"Date", "Merchant", "Billing Amount", "Billing Currency", "Amount In Home Currency",
	"Transaction Amount", "Transaction Currency", "Category", "Card", "Notes",
	"Recurring", "Refund", "Source Format",
}

// CSVWriter writes transactions as CSV, one row per transaction.
type CSVWriter struct {
	// IncludeHeader adds comment rows describing the rate table.
	IncludeHeader bool
	Rates         *rates.Table
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txs []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, txs); err != nil {
		return err
	}
	return f.Close()
}

// Write writes transactions in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(out)

	if w.IncludeHeader && w.Rates != nil {
		meta := [][]string{
			{"# Home Currency", w.Rates.Home},
			{"# Rates Source", string(w.Rates.Source)},
		}
		for _, row := range meta {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range txs {
		row := []string{
			formatDate(t.Date),
			t.Merchant,
			t.BillingAmount.StringFixed(2),
			t.BillingCurrency,
			t.AmountInHomeCurrency.StringFixed(2),
			formatOptional(t.TransactionAmount),
			t.TransactionCurrency,
			t.Category,
			t.CardNumber,
			t.Notes,
			strconv.FormatBool(t.IsRecurring),
			strconv.FormatBool(t.IsRefund),
			string(t.SourceFormat),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// formatDate prints parseable dates as ISO dates and anything else as the
// raw cell text.
func formatDate(c models.Cell) string {
	if d, err := normalize.ParseDate(c); err == nil {
		return d.Format("2006-01-02")
	}
	return models.CellText(c)
}

func formatOptional(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
