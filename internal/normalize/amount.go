// Package normalize parses locale-formatted amounts and the date
// conventions found in issuer spreadsheet exports.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotANumber is returned for empty cells and for text that holds no
// parseable number. Zero is a valid amount and never signals absence.
var ErrNotANumber = errors.New("not a number")

// ParseAmount converts a numeric or text cell to a decimal amount.
// Text is cleaned by keeping only digits, the decimal point and a leading
// minus sign, so "₪ 1,234.56" and "-50 USD" both parse.
func ParseAmount(c models.Cell) (decimal.Decimal, error) {
	switch v := c.(type) {
	case nil:
		return decimal.Zero, ErrNotANumber
	case decimal.Decimal:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, ErrNotANumber
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return ParseAmount(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return parseAmountText(v)
	default:
		return parseAmountText(models.CellText(v))
	}
}

func parseAmountText(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if strings.Trim(cleaned, "-.") == "" {
		return decimal.Zero, ErrNotANumber
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return d, nil
}
