package aggregate

import (
	"fmt"
	"testing"

	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(merchant string, amount int64) models.Transaction {
	return models.Transaction{
		Merchant:             merchant,
		BillingAmount:        decimal.NewFromInt(amount),
		BillingCurrency:      "₪",
		AmountInHomeCurrency: decimal.NewFromInt(amount),
	}
}

func TestByMerchant_NetsRefunds(t *testing.T) {
	txs := []models.Transaction{tx("A", 100), tx("A", -30), tx("A", 50)}

	s := ByMerchant(txs, 0)

	require.Len(t, s.Merchants, 1)
	assert.Equal(t, "A", s.Merchants[0].Merchant)
	assert.True(t, decimal.NewFromInt(120).Equal(s.Merchants[0].Total))
	assert.Equal(t, 3, s.Merchants[0].Count)
	assert.True(t, decimal.NewFromInt(120).Equal(s.Total))
	assert.Equal(t, 1, s.MerchantCount)
}

func TestByMerchant_SortsDescending(t *testing.T) {
	txs := []models.Transaction{
		tx("small", 10),
		tx("big", 500),
		tx("mid", 100),
		tx("small", 5),
	}

	s := ByMerchant(txs, DefaultTopN)

	var names []string
	for _, m := range s.Merchants {
		names = append(names, m.Merchant)
	}
	assert.Equal(t, []string{"big", "mid", "small"}, names)
	assert.True(t, decimal.NewFromInt(615).Equal(s.Total))
}

func TestByMerchant_TiesKeepFirstAppearance(t *testing.T) {
	txs := []models.Transaction{tx("b", 40), tx("a", 40), tx("c", 40)}

	s := ByMerchant(txs, DefaultTopN)

	require.Len(t, s.Merchants, 3)
	assert.Equal(t, "b", s.Merchants[0].Merchant)
	assert.Equal(t, "a", s.Merchants[1].Merchant)
	assert.Equal(t, "c", s.Merchants[2].Merchant)
}

func TestByMerchant_ExactNameGrouping(t *testing.T) {
	txs := []models.Transaction{tx("Shufersal", 10), tx("shufersal", 10), tx("Shufersal ", 10)}

	s := ByMerchant(txs, DefaultTopN)

	assert.Len(t, s.Merchants, 3)
	assert.Equal(t, 3, s.MerchantCount)
}

func TestByMerchant_FoldsTailIntoOther(t *testing.T) {
	var txs []models.Transaction
	for i := 0; i < 105; i++ {
		// Higher index spends more, so m0..m4 end up in the tail.
		txs = append(txs, tx(fmt.Sprintf("m%d", i), int64(i+1)))
	}

	s := ByMerchant(txs, 100)

	require.Len(t, s.Merchants, 101)
	assert.Equal(t, 105, s.MerchantCount)

	other := s.Merchants[100]
	assert.Equal(t, models.OtherMerchant, other.Merchant)
	assert.True(t, decimal.NewFromInt(1+2+3+4+5).Equal(other.Total))
	assert.Equal(t, 5, other.Count)
	assert.True(t, other.Folded)
	assert.Equal(t, 5, other.FoldedMerchants)

	var sum decimal.Decimal
	for _, m := range s.Merchants {
		sum = sum.Add(m.Total)
	}
	assert.True(t, s.Total.Equal(sum), "folded entries still add up to the grand total")
}

func TestByMerchant_RealOtherMerchantStaysDistinct(t *testing.T) {
	txs := []models.Transaction{tx(models.OtherMerchant, 1000)}
	for i := 0; i < 5; i++ {
		txs = append(txs, tx(fmt.Sprintf("m%d", i), int64(10-i)))
	}

	s := ByMerchant(txs, 3)

	require.Len(t, s.Merchants, 4)
	real, folded := s.Merchants[0], s.Merchants[3]

	assert.Equal(t, models.OtherMerchant, real.Merchant)
	assert.False(t, real.Folded)
	assert.True(t, decimal.NewFromInt(1000).Equal(real.Total))

	assert.Equal(t, models.OtherMerchant, folded.Merchant)
	assert.True(t, folded.Folded)
	assert.Equal(t, 3, folded.FoldedMerchants)
	assert.True(t, decimal.NewFromInt(8+7+6).Equal(folded.Total))
	assert.Equal(t, 6, s.MerchantCount)
}

func TestByMerchant_NoOtherWhenWithinLimit(t *testing.T) {
	var txs []models.Transaction
	for i := 0; i < 100; i++ {
		txs = append(txs, tx(fmt.Sprintf("m%d", i), 1))
	}

	s := ByMerchant(txs, 100)

	assert.Len(t, s.Merchants, 100)
	for _, m := range s.Merchants {
		assert.False(t, m.Folded)
	}
}

func TestByMerchant_Empty(t *testing.T) {
	s := ByMerchant(nil, DefaultTopN)

	assert.Empty(t, s.Merchants)
	assert.True(t, s.Total.IsZero())
	assert.Equal(t, 0, s.MerchantCount)
}

func TestExclude(t *testing.T) {
	txs := []models.Transaction{tx("A", 1), tx("B", 2), tx("A", 3)}

	out := Exclude(txs, map[string]bool{"A": true})

	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].Merchant)
	assert.Len(t, txs, 3)
}
