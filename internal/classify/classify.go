// Package classify separates genuine transaction rows from the noise found
// in issuer exports: blank lines, repeated headers and total lines.
package classify

import (
	"slices"
	"strings"

	"github.com/omriav/credit-analyzer/internal/layout"
	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/normalize"
)

// summaryKeywords mark total and subtotal lines. Matching is by substring
// on lower-cased text, which also catches merchants like "Summit"; that
// over-exclusion is accepted.
var summaryKeywords = []string{
	`סה"כ`,
	"סה״כ",
	"סך הכל",
	"סיכום",
	"total",
	"sum",
	"summary",
}

// Reason explains why a row is not a transaction.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonBlank          Reason = "blank"
	ReasonNoMerchant     Reason = "no_merchant"
	ReasonRepeatedHeader Reason = "repeated_header"
	ReasonSummary        Reason = "summary"
)

// Classify returns why row is noise under l, or ReasonNone for a row that
// should be extracted.
func Classify(row models.Row, l models.Layout) Reason {
	if row.IsBlank() {
		return ReasonBlank
	}
	merchant := cell(row, l, models.FieldMerchant)
	if merchant == "" {
		return ReasonNoMerchant
	}
	if slices.Contains(layout.HeaderLabels(), merchant) {
		return ReasonRepeatedHeader
	}
	if IsSummaryRow(row, l) {
		return ReasonSummary
	}
	return ReasonNone
}

// IsNoiseRow reports whether row is anything but a transaction.
func IsNoiseRow(row models.Row, l models.Layout) bool {
	return Classify(row, l) != ReasonNone
}

// IsSummaryRow reports whether row looks like a total line: a summary
// keyword in the merchant or date cell, or a blank date next to a merchant
// label and a numeric amount. The second rule also catches a real
// transaction whose date is missing.
func IsSummaryRow(row models.Row, l models.Layout) bool {
	merchant := strings.ToLower(cell(row, l, models.FieldMerchant))
	date := strings.ToLower(cell(row, l, models.FieldDate))
	if containsAny(merchant, summaryKeywords) || containsAny(date, summaryKeywords) {
		return true
	}

	if date == "" && merchant != "" {
		i, ok := l.Column(models.FieldBillingAmount)
		if !ok {
			return false
		}
		if _, err := normalize.ParseAmount(row.At(i)); err == nil {
			return true
		}
	}
	return false
}

func cell(row models.Row, l models.Layout, f models.Field) string {
	i, ok := l.Column(f)
	if !ok {
		return ""
	}
	return row.Text(i)
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
