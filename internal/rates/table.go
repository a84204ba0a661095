// Package rates converts billing amounts to the home currency through a
// read-only rate table.
package rates

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHome is the currency every amount is normalized to.
const DefaultHome = "ILS"

// Source tags where a table came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceTable    Source = "table"
	SourceFallback Source = "fallback"
)

// Table maps currency codes to multipliers into the home currency.
// It is built once per session and only read afterwards.
type Table struct {
	Home      string                     `json:"home"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Source    Source                     `json:"source"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// NewTable builds a table with upper-cased codes and the home currency
// pinned to 1.
func NewTable(home string, rates map[string]decimal.Decimal, source Source) *Table {
	home = strings.ToUpper(strings.TrimSpace(home))
	t := &Table{
		Home:      home,
		Rates:     make(map[string]decimal.Decimal, len(rates)+1),
		Source:    source,
		FetchedAt: time.Now().UTC(),
	}
	for code, rate := range rates {
		if rate.Sign() <= 0 {
			continue
		}
		t.Rates[strings.ToUpper(code)] = rate
	}
	t.Rates[home] = decimal.NewFromInt(1)
	return t
}

// Lookup returns the multiplier for a currency symbol or code.
func (t *Table) Lookup(currency string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	code, ok := CurrencyCode(currency)
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := t.Rates[code]
	return rate, ok
}

// Convert returns amount in the home currency. Amounts already in the home
// currency, in an unrecognized currency or in one missing from the table
// pass through unchanged.
func (t *Table) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	if t == nil {
		return amount
	}
	code, ok := CurrencyCode(currency)
	if !ok || code == t.Home {
		return amount
	}
	rate, ok := t.Rates[code]
	if !ok {
		return amount
	}
	return amount.Mul(rate)
}

var symbols = map[string]string{
	"$":   "USD",
	"US$": "USD",
	"€":   "EUR",
	"£":   "GBP",
	"₪":   "ILS",
	`ש"ח`: "ILS",
	"ש״ח": "ILS",
	"שח":  "ILS",
	"NIS": "ILS",
	"¥":   "JPY",
}

// CurrencyCode maps a currency symbol or a three-letter code to its
// upper-case ISO code.
func CurrencyCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if code, ok := symbols[s]; ok {
		return code, true
	}
	upper := strings.ToUpper(s)
	if code, ok := symbols[upper]; ok {
		return code, true
	}
	if isCode(upper) {
		return upper, true
	}
	return "", false
}

func isCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
