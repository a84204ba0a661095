// Package layout holds the known issuer export formats and picks the one a
// sheet uses by scanning its first rows for header keywords.
package layout

import (
	"github.com/omriav/credit-analyzer/internal/models"
)

const (
	Isracard models.LayoutID = "isracard"
	Cal      models.LayoutID = "cal"
	Max      models.LayoutID = "max"
	English  models.LayoutID = "english"
)

// registry is evaluated in order. Earlier entries shadow later, more
// generic ones, so a new format goes before the first layout whose
// keywords its header would also satisfy.
var registry = []models.Layout{
	{
		ID:           Isracard,
		DisplayName:  "Isracard / Amex",
		HeaderRow:    5,
		DataStartRow: 6,
		Keywords:     []string{"תאריך רכישה", "שם בית עסק", "סכום חיוב"},
		HeaderLabels: []string{"שם בית עסק"},
		Columns: map[models.Field]int{
			models.FieldDate:                0,
			models.FieldMerchant:            1,
			models.FieldTransactionAmount:   2,
			models.FieldTransactionCurrency: 3,
			models.FieldBillingAmount:       4,
			models.FieldBillingCurrency:     5,
			models.FieldReceiptNumber:       6,
			models.FieldAdditionalDetails:   7,
		},
	},
	{
		ID:           Cal,
		DisplayName:  "Visa Cal",
		HeaderRow:    1,
		DataStartRow: 2,
		Keywords:     []string{"שם בית עסק", "סכום חיוב"},
		// Isracard headers carry the same two captions.
		Excludes:     []string{"תאריך רכישה"},
		HeaderLabels: []string{"שם בית עסק"},
		Columns: map[models.Field]int{
			models.FieldDate:              0,
			models.FieldMerchant:          1,
			models.FieldTransactionAmount: 2,
			models.FieldBillingAmount:     3,
			models.FieldBillingCurrency:   4,
			models.FieldCategory:          5,
			models.FieldNotes:             6,
		},
	},
	{
		ID:           Max,
		DisplayName:  "Max",
		HeaderRow:    3,
		DataStartRow: 4,
		Keywords:     []string{"שם בית העסק", "סכום חיוב", "מטבע חיוב"},
		HeaderLabels: []string{"שם בית העסק"},
		Columns: map[models.Field]int{
			models.FieldDate:                0,
			models.FieldMerchant:            1,
			models.FieldCategory:            2,
			models.FieldCardNumber:          3,
			models.FieldBillingAmount:       5,
			models.FieldBillingCurrency:     6,
			models.FieldTransactionAmount:   7,
			models.FieldTransactionCurrency: 8,
			models.FieldBillingDate:         9,
			models.FieldNotes:               10,
		},
	},
	{
		ID:           English,
		DisplayName:  "Generic (English headers)",
		HeaderRow:    0,
		DataStartRow: 1,
		Keywords:     []string{"date", "merchant", "amount", "currency"},
		HeaderLabels: []string{"Merchant", "merchant", "MERCHANT"},
		Columns: map[models.Field]int{
			models.FieldDate:            0,
			models.FieldMerchant:        1,
			models.FieldBillingAmount:   2,
			models.FieldBillingCurrency: 3,
			models.FieldCategory:        4,
			models.FieldNotes:           5,
			models.FieldCardNumber:      6,
		},
	},
}

// defaultID is the original export format, used when nothing matches.
const defaultID = Max

// Known returns copies of the registered layouts in detection order.
func Known() []models.Layout {
	out := make([]models.Layout, len(registry))
	for i, l := range registry {
		out[i] = l.Clone()
	}
	return out
}

// Lookup returns the registered layout with the given id.
func Lookup(id models.LayoutID) (models.Layout, bool) {
	for _, l := range registry {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return models.Layout{}, false
}

// Default returns the fallback layout at its fixed row indices.
func Default() models.Layout {
	l, _ := Lookup(defaultID)
	return l
}

// HeaderLabels returns every merchant-column caption of every layout.
func HeaderLabels() []string {
	var labels []string
	for _, l := range registry {
		labels = append(labels, l.HeaderLabels...)
	}
	return labels
}
