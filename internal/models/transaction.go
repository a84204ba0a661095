package models

import (
	"github.com/shopspring/decimal"
)

// Transaction is one normalized credit-card charge or refund.
//
// Date keeps the raw cell exactly as read; it is parsed only when a
// monthly series is built, so a bad date never drops a transaction.
type Transaction struct {
	Date                 Cell                `json:"date"`
	Merchant             string              `json:"merchant"`
	BillingAmount        decimal.Decimal     `json:"billingAmount"`
	BillingCurrency      string              `json:"billingCurrency"`
	AmountInHomeCurrency decimal.Decimal     `json:"amountInHomeCurrency"`
	TransactionAmount    decimal.NullDecimal `json:"transactionAmount"`
	TransactionCurrency  string              `json:"transactionCurrency,omitempty"`
	Category             string              `json:"category,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	ReceiptNumber        string              `json:"receiptNumber,omitempty"`
	CardNumber           string              `json:"cardNumber,omitempty"`
	BillingDate          string              `json:"billingDate,omitempty"`
	Details              string              `json:"details,omitempty"`
	IsRecurring          bool                `json:"isRecurring"`
	IsRefund             bool                `json:"isRefund"`
	SourceFormat         LayoutID            `json:"sourceFormat"`
}

// FileResult is the outcome of processing one input file.
type FileResult struct {
	FileName     string        `json:"fileName"`
	LayoutID     LayoutID      `json:"detectedLayoutId,omitempty"`
	LayoutName   string        `json:"detectedLayoutDisplayName,omitempty"`
	Count        int           `json:"count"`
	Skipped      int           `json:"skipped"`
	Malformed    int           `json:"malformed"`
	Error        string        `json:"error,omitempty"`
	Transactions []Transaction `json:"-"`
}

// Failed reports whether the file could not be processed at all.
func (r FileResult) Failed() bool {
	return r.Error != ""
}
