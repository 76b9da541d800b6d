package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the snapshot currency of a quotation or reservation.
type Currency string

const (
	CurrencyPEN Currency = "PEN"
	CurrencyUSD Currency = "USD"
)

// Quotation is a priced offer tying a lead to a specific lot, with
// financing terms. The exchange rate is captured once at creation and
// never recomputed.
type Quotation struct {
	ID             int64           `json:"id"`
	LeadID         int64           `json:"lead_id"`
	LotID          int64           `json:"lot_id"`
	QuotedAt       time.Time       `json:"quoted_at"`
	Currency       Currency        `json:"currency"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	FinancedAmount decimal.Decimal `json:"financed_amount"`
	MonthsFinanced int             `json:"months_financed"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}
