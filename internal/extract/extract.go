// Package extract turns the rows of one sheet into normalized transactions.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/omriav/credit-analyzer/internal/classify"
	"github.com/omriav/credit-analyzer/internal/layout"
	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/normalize"
	"github.com/omriav/credit-analyzer/internal/rates"
	"github.com/shopspring/decimal"
)

// recurringMarkers flag standing orders in the notes column.
var recurringMarkers = []string{"הוראת קבע", "recurring", "standing order"}

// Result is the outcome of extracting one sheet.
type Result struct {
	Layout       models.Layout
	Transactions []models.Transaction
	// Skipped counts noise rows: blanks, repeated headers and totals.
	Skipped int
	// Malformed counts rows that passed classification but whose billing
	// amount could not be parsed.
	Malformed int
}

// Extract detects the layout of rows and extracts every transaction row.
// The same rows always yield the same result.
func Extract(rows []models.Row, table *rates.Table) Result {
	return ExtractWith(rows, layout.Detect(rows), table)
}

// ExtractWith extracts rows under a given layout.
func ExtractWith(rows []models.Row, l models.Layout, table *rates.Table) Result {
	res := Result{
		Layout:       l,
		Transactions: []models.Transaction{},
	}

	for i := l.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if reason := classify.Classify(row, l); reason != classify.ReasonNone {
			res.Skipped++
			slog.Debug("skipping noise row", "layout", l.ID, "row", i+1, "reason", reason)
			continue
		}

		t, err := toTransaction(row, l, table)
		if err != nil {
			res.Malformed++
			slog.Debug("dropping malformed row", "layout", l.ID, "row", i+1, "error", err)
			continue
		}
		res.Transactions = append(res.Transactions, t)
	}

	return res
}

func toTransaction(row models.Row, l models.Layout, table *rates.Table) (models.Transaction, error) {
	field := func(f models.Field) models.Cell {
		i, ok := l.Column(f)
		if !ok {
			return nil
		}
		return row.At(i)
	}
	text := func(f models.Field) string {
		return models.CellText(field(f))
	}

	merchant := text(models.FieldMerchant)
	if merchant == "" {
		return models.Transaction{}, errors.New("missing merchant")
	}

	amount, err := normalize.ParseAmount(field(models.FieldBillingAmount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("billing amount: %w", err)
	}
	currency := text(models.FieldBillingCurrency)

	t := models.Transaction{
		Date:                 field(models.FieldDate),
		Merchant:             merchant,
		BillingAmount:        amount,
		BillingCurrency:      currency,
		AmountInHomeCurrency: table.Convert(amount, currency),
		TransactionCurrency:  text(models.FieldTransactionCurrency),
		Category:             text(models.FieldCategory),
		Notes:                text(models.FieldNotes),
		ReceiptNumber:        text(models.FieldReceiptNumber),
		CardNumber:           text(models.FieldCardNumber),
		BillingDate:          text(models.FieldBillingDate),
		Details:              text(models.FieldAdditionalDetails),
		IsRefund:             amount.IsNegative(),
		SourceFormat:         l.ID,
	}
	if original, err := normalize.ParseAmount(field(models.FieldTransactionAmount)); err == nil {
		t.TransactionAmount = decimal.NewNullDecimal(original)
	}
	t.IsRecurring = isRecurring(t.Notes)

	return t, nil
}

func isRecurring(notes string) bool {
	notes = strings.ToLower(notes)
	for _, m := range recurringMarkers {
		if strings.Contains(notes, m) {
			return true
		}
	}
	return false
}
