package rates

import (
	"strings"

	"github.com/shopspring/decimal"
)

// fallbackILS is the hard-coded table used when live rates are unavailable,
// expressed in shekels per unit.
var fallbackILS = map[string]decimal.Decimal{
	"ILS": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("3.70"),
	"EUR": decimal.RequireFromString("4.00"),
	"GBP": decimal.RequireFromString("4.70"),
}

// Fallback returns the fixed table for home. Other home currencies are
// derived through shekel cross rates; an unknown home gets an identity
// table, so every foreign amount passes through.
func Fallback(home string) *Table {
	home = strings.ToUpper(strings.TrimSpace(home))
	if home == "" {
		home = DefaultHome
	}

	base, ok := fallbackILS[home]
	if !ok {
		return NewTable(home, nil, SourceFallback)
	}

	cross := make(map[string]decimal.Decimal, len(fallbackILS))
	for code, perUnit := range fallbackILS {
		cross[code] = perUnit.Div(base)
	}
	return NewTable(home, cross, SourceFallback)
}
