package aggregate

import (
	"log/slog"
	"slices"

	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/normalize"
	"github.com/shopspring/decimal"
)

// ByMonth buckets one merchant's transactions by calendar month, oldest
// first. Transactions whose raw date cannot be parsed are counted in
// InvalidDates and left out of the series.
func ByMonth(txs []models.Transaction, merchant string) models.MonthlySeries {
	series := models.MonthlySeries{
		Merchant: merchant,
		Months:   []models.MonthlyAggregate{},
	}

	buckets := make(map[string]*models.MonthlyAggregate)
	for _, t := range txs {
		if t.Merchant != merchant {
			continue
		}

		d, err := normalize.ParseDate(t.Date)
		if err != nil {
			series.InvalidDates++
			slog.Debug("unparseable transaction date", "merchant", merchant, "date", t.Date)
			continue
		}

		key := normalize.MonthKey(d)
		b, ok := buckets[key]
		if !ok {
			b = &models.MonthlyAggregate{Month: key, Total: decimal.Zero}
			buckets[key] = b
		}
		b.Total = b.Total.Add(t.AmountInHomeCurrency)
		b.Count++
	}

	for _, b := range buckets {
		series.Months = append(series.Months, *b)
	}
	slices.SortFunc(series.Months, func(a, b models.MonthlyAggregate) int {
		switch {
		case a.Month < b.Month:
			return -1
		case a.Month > b.Month:
			return 1
		}
		return 0
	})

	return series
}
