package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus defines the states of a reservation.
//
// FinancingActive means the deal advanced into its installment phase:
// the lot is held as reserved, a payment schedule exists and the signed
// contract is pending validation. Voided means the deal fell through.
type ReservationStatus string

const (
	ReservationStatusIssued          ReservationStatus = "issued"
	ReservationStatusFinancingActive ReservationStatus = "financing_active"
	ReservationStatusVoided          ReservationStatus = "voided"
)

type PaymentMethod string

const (
	MethodCash        PaymentMethod = "cash"
	MethodTransfer    PaymentMethod = "transfer"
	MethodCard        PaymentMethod = "card"
	MethodBankDeposit PaymentMethod = "bank_deposit"
)

// LedgerEntryStatus is the review status of one recorded payment attempt.
// Only confirmed entries count toward the reservation's paid amount.
type LedgerEntryStatus string

const (
	EntryConfirmed LedgerEntryStatus = "confirmed"
	EntryPending   LedgerEntryStatus = "pending"
	EntryRejected  LedgerEntryStatus = "rejected"
)

// LedgerEntry is one recorded payment attempt. Entries are appended to a
// reservation's ledger and kept for audit even when rejected.
type LedgerEntry struct {
	ID        string            `json:"id"`
	Date      time.Time         `json:"date"`
	Amount    decimal.Decimal   `json:"amount"`
	Method    PaymentMethod     `json:"method"`
	Bank      string            `json:"bank,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Status    LedgerEntryStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
}

// PaymentLedger is the append-only payment history of a reservation. It
// is persisted as a JSON column on the reservation row.
type PaymentLedger []LedgerEntry

// Find returns the entry with the given id, or nil.
func (pl PaymentLedger) Find(id string) *LedgerEntry {
	for i := range pl {
		if pl[i].ID == id {
			return &pl[i]
		}
	}
	return nil
}

// Append adds an entry at the end of the ledger.
func (pl *PaymentLedger) Append(e LedgerEntry) {
	*pl = append(*pl, e)
}

// Replace swaps the entry with e.ID for e, keeping its position.
// Returns false when no entry carries that id.
func (pl PaymentLedger) Replace(e LedgerEntry) bool {
	for i := range pl {
		if pl[i].ID == e.ID {
			pl[i] = e
			return true
		}
	}
	return false
}

// Remove deletes the entry with the given id. Returns false when absent.
func (pl *PaymentLedger) Remove(id string) bool {
	for i := range *pl {
		if (*pl)[i].ID == id {
			*pl = append((*pl)[:i], (*pl)[i+1:]...)
			return true
		}
	}
	return false
}

// ConfirmedTotal sums the confirmed entries. The aggregate is always
// re-derived from the full confirmed subset, never kept incrementally.
func (pl PaymentLedger) ConfirmedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range pl {
		if e.Status == EntryConfirmed {
			total = total.Add(e.Amount)
		}
	}
	return total.Round(2)
}

// Value implements driver.Valuer so the ledger can live in a JSONB column.
func (pl PaymentLedger) Value() (driver.Value, error) {
	if pl == nil {
		pl = PaymentLedger{}
	}
	return json.Marshal(pl)
}

// Scan implements sql.Scanner.
func (pl *PaymentLedger) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*pl = PaymentLedger{}
		return nil
	case []byte:
		return json.Unmarshal(v, pl)
	case string:
		return json.Unmarshal([]byte(v), pl)
	default:
		return fmt.Errorf("payment ledger: cannot scan %T", src)
	}
}

// ContractValidationPending marks a reservation whose signed contract
// still awaits back-office validation.
const ContractValidationPending = "pending_validation"

// Reservation tracks a buyer's separation payment and subsequent
// installments against a quotation.
type Reservation struct {
	ID                 int64             `json:"id"`
	QuotationID        int64             `json:"quotation_id"`
	ClientID           int64             `json:"client_id"`
	ReservedAt         time.Time         `json:"reserved_at"`
	ExpiresAt          time.Time         `json:"expires_at"`
	Currency           Currency          `json:"currency"`
	ExchangeRate       decimal.Decimal   `json:"exchange_rate"`
	PaymentMethod      PaymentMethod     `json:"payment_method"`
	Status             ReservationStatus `json:"status"`
	TotalRequired      decimal.Decimal   `json:"total_required"`
	AmountPaid         decimal.Decimal   `json:"amount_paid"`
	RemainingAmount    decimal.Decimal   `json:"remaining_amount"`
	Ledger             PaymentLedger     `json:"ledger"`
	ContractValidation string            `json:"contract_validation,omitempty"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Recalculate re-derives the paid and remaining amounts from the ledger.
// Remaining never goes below zero: overpayments clamp at fully paid.
func (r *Reservation) Recalculate() {
	r.AmountPaid = r.Ledger.ConfirmedTotal()
	remaining := r.TotalRequired.Sub(r.AmountPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	r.RemainingAmount = remaining.Round(2)
}

// ReservationFilter defines the available parameters for filtering
// reservations in reports.
type ReservationFilter struct {
	Status   *ReservationStatus
	Currency *Currency
	From     *time.Time
	To       *time.Time
	// AdvisorIDs restricts results to reservations whose lead belongs
	// to one of these advisors. Empty means no restriction.
	AdvisorIDs []int64
}
