package models

import (
	"github.com/shopspring/decimal"
)

// OtherMerchant labels the bucket that folds every merchant below the top N.
const OtherMerchant = "Other"

// MerchantAggregate is the total spent at one merchant, in home currency.
type MerchantAggregate struct {
	Merchant string          `json:"merchant"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	// Folded marks the synthetic bucket of merchants below the top N, so
	// it stays distinct from a real merchant called "Other".
	Folded          bool `json:"folded,omitempty"`
	FoldedMerchants int  `json:"foldedMerchants,omitempty"`
}

// MerchantSummary is the ranked merchant breakdown of a transaction set.
type MerchantSummary struct {
	Merchants     []MerchantAggregate `json:"merchants"`
	Total         decimal.Decimal     `json:"total"`
	MerchantCount int                 `json:"merchantCount"`
}

// MonthlyAggregate is one (merchant, month) bucket.
type MonthlyAggregate struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// MonthlySeries is the chronological spend of one merchant.
type MonthlySeries struct {
	Merchant     string             `json:"merchant"`
	Months       []MonthlyAggregate `json:"months"`
	InvalidDates int                `json:"invalidDates"`
}
