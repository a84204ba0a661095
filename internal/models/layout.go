package models

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// LayoutID identifies a known issuer export format.
type LayoutID string

// Field is a canonical transaction field name used in column maps.
type Field string

const (
	FieldDate                Field = "date"
	FieldMerchant            Field = "merchant"
	FieldBillingAmount       Field = "billingAmount"
	FieldBillingCurrency     Field = "billingCurrency"
	FieldTransactionAmount   Field = "transactionAmount"
	FieldTransactionCurrency Field = "transactionCurrency"
	FieldCategory            Field = "category"
	FieldNotes               Field = "notes"
	FieldReceiptNumber       Field = "receiptNumber"
	FieldCardNumber          Field = "cardNumber"
	FieldBillingDate         Field = "billingDate"
	FieldAdditionalDetails   Field = "additionalDetails"
)

// RequiredFields must be mapped by every layout.
var RequiredFields = []Field{FieldDate, FieldMerchant, FieldBillingAmount, FieldBillingCurrency}

// Layout describes one issuer's sheet structure. Layouts are values and are
// never mutated after registration; detection returns a copy anchored at
// the row where the header was found.
type Layout struct {
	ID           LayoutID      `json:"id"`
	DisplayName  string        `json:"displayName"`
	HeaderRow    int           `json:"headerRow"`
	DataStartRow int           `json:"dataStartRow"`
	Columns      map[Field]int `json:"columns"`

	// Keywords must all appear in the lower-cased, pipe-joined header row.
	Keywords []string `json:"-"`
	// Excludes must not appear in that row.
	Excludes []string `json:"-"`
	// HeaderLabels are the header captions of the merchant column; a data
	// row whose merchant equals one of them is a repeated header.
	HeaderLabels []string `json:"-"`
}

// Column returns the zero-based column index mapped to f.
func (l Layout) Column(f Field) (int, bool) {
	i, ok := l.Columns[f]
	return i, ok
}

// Clone returns a copy that shares no map or slice with l.
func (l Layout) Clone() Layout {
	l.Columns = maps.Clone(l.Columns)
	l.Keywords = slices.Clone(l.Keywords)
	l.Excludes = slices.Clone(l.Excludes)
	l.HeaderLabels = slices.Clone(l.HeaderLabels)
	return l
}

// Validate checks the structural invariants of a layout descriptor.
func (l Layout) Validate() error {
	if l.ID == "" {
		return errors.New("layout id is empty")
	}
	if l.HeaderRow < 0 {
		return fmt.Errorf("layout %s: header row %d is negative", l.ID, l.HeaderRow)
	}
	if l.DataStartRow <= l.HeaderRow {
		return fmt.Errorf("layout %s: data start row %d must follow header row %d", l.ID, l.DataStartRow, l.HeaderRow)
	}
	seen := make(map[int]Field)
	for _, f := range RequiredFields {
		i, ok := l.Columns[f]
		if !ok {
			return fmt.Errorf("layout %s: required field %q is not mapped", l.ID, f)
		}
		if i < 0 {
			return fmt.Errorf("layout %s: field %q has negative column %d", l.ID, f, i)
		}
		if other, dup := seen[i]; dup {
			return fmt.Errorf("layout %s: fields %q and %q share column %d", l.ID, other, f, i)
		}
		seen[i] = f
	}
	return nil
}
