package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"grouped thousands", "1,234.56", "1234.56"},
		{"negative", "-50", "-50"},
		{"shekel symbol", "₪ 89.90", "89.9"},
		{"negative after symbol", "₪ -120.00", "-120"},
		{"dollar with spaces", " $ 12.5 ", "12.5"},
		{"zero is a value", "0.00", "0"},
		{"float cell", 42.75, "42.75"},
		{"int cell", 300, "300"},
		{"embedded minus ignored", "12-3", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseAmount_NotANumber(t *testing.T) {
	inputs := []any{nil, "", "   ", "-", "abc", "₪", "1.2.3"}

	for _, in := range inputs {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrNotANumber, "input %#v", in)
	}
}
