// Package aggregate folds a snapshot of transactions into merchant totals
// and monthly series. Every function is pure: callers filter hidden
// merchants first and recompute after any change.
package aggregate

import (
	"slices"

	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultTopN is how many merchants are ranked individually.
const DefaultTopN = 100

// ByMerchant sums home-currency amounts per exact merchant string and
// ranks them in descending order. Merchants beyond topN are folded into a
// single "Other" entry. Total and MerchantCount always cover every
// merchant. Ties keep first-appearance order. The fold is marked Folded,
// which tells it apart from a real merchant named "Other".
func ByMerchant(txs []models.Transaction, topN int) models.MerchantSummary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var order []string
	byName := make(map[string]*models.MerchantAggregate)
	total := decimal.Zero

	for _, t := range txs {
		total = total.Add(t.AmountInHomeCurrency)

		agg, ok := byName[t.Merchant]
		if !ok {
			agg = &models.MerchantAggregate{Merchant: t.Merchant}
			byName[t.Merchant] = agg
			order = append(order, t.Merchant)
		}
		agg.Total = agg.Total.Add(t.AmountInHomeCurrency)
		agg.Count++
	}

	ranked := make([]models.MerchantAggregate, 0, min(len(order), topN+1))
	for _, name := range order {
		ranked = append(ranked, *byName[name])
	}
	slices.SortStableFunc(ranked, func(a, b models.MerchantAggregate) int {
		return b.Total.Cmp(a.Total)
	})

	summary := models.MerchantSummary{
		Total:         total,
		MerchantCount: len(ranked),
	}

	if len(ranked) > topN {
		other := models.MerchantAggregate{
			Merchant:        models.OtherMerchant,
			Total:           decimal.Zero,
			Folded:          true,
			FoldedMerchants: len(ranked) - topN,
		}
		for _, a := range ranked[topN:] {
			other.Total = other.Total.Add(a.Total)
			other.Count += a.Count
		}
		ranked = append(ranked[:topN:topN], other)
	}
	summary.Merchants = ranked

	return summary
}

// Exclude returns the transactions whose merchant is not hidden.
func Exclude(txs []models.Transaction, hidden map[string]bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if hidden[t.Merchant] {
			continue
		}
		out = append(out, t)
	}
	return out
}
