package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
	"inmocrm/internal/repositories"
)

// pipelineTx bundles the repositories a cross-entity operation touches,
// all bound to the same transaction.
type pipelineTx struct {
	Reservations ReservationRepo
	Lots         LotRepo
	Payments     PaymentRepo
	Quotations   QuotationRepo
	Leads        LeadRepo
	Clients      ClientRepo
}

// ReservationService owns the reservation balance, its payment ledger
// and the cascades a status change fans out to.
type ReservationService struct {
	runTx    func(fn func(pipelineTx) error) error
	mailer   EmailService
	notifier Notifier
	now      func() time.Time
}

func NewReservationService(store *repositories.Store, mailer EmailService, notifier Notifier) *ReservationService {
	return &ReservationService{
		runTx: func(fn func(pipelineTx) error) error {
			return store.InTx(func(tx *repositories.Store) error {
				return fn(pipelineTx{
					Reservations: tx.Reservations,
					Lots:         tx.Lots,
					Payments:     tx.Payments,
					Quotations:   tx.Quotations,
					Leads:        tx.Leads,
					Clients:      tx.Clients,
				})
			})
		},
		mailer:   mailer,
		notifier: notifier,
		now:      time.Now,
	}
}

// reservationExpiryDays is how long an issued reservation holds before
// the back office voids it manually.
const reservationExpiryDays = 15

type CreateReservationInput struct {
	QuotationID   int64                `json:"quotation_id"`
	ReservedAt    time.Time            `json:"reserved_at"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      models.Currency      `json:"currency"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// Create opens a reservation for a quotation. The agreed separation
// amount becomes the required total; nothing is considered paid until
// ledger entries confirm it.
func (s *ReservationService) Create(in CreateReservationInput) (*models.Reservation, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("separation amount must be positive")
	}
	if in.Currency != models.CurrencyPEN && in.Currency != models.CurrencyUSD {
		return nil, apperr.Validation("unsupported currency")
	}

	var res *models.Reservation
	err := s.runTx(func(tx pipelineTx) error {
		quotation, err := tx.Quotations.GetByID(in.QuotationID)
		if err != nil {
			return err
		}
		if quotation == nil || !quotation.IsActive {
			return apperr.Validation("quotation is missing or inactive")
		}
		lead, err := tx.Leads.GetByID(quotation.LeadID)
		if err != nil {
			return err
		}
		if lead == nil || !lead.IsActive {
			return apperr.Validation("quotation lead is missing or inactive")
		}
		client, err := tx.Clients.GetByID(lead.ClientID)
		if err != nil {
			return err
		}
		if client == nil || !client.IsActive {
			return apperr.Validation("client is missing or inactive")
		}

		existing, err := tx.Reservations.GetActiveByQuotation(in.QuotationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("an active reservation already exists for this quotation")
		}

		now := s.now()
		reservedAt := in.ReservedAt
		if reservedAt.IsZero() {
			reservedAt = now
		}
		amount := in.Amount.Round(2)
		res = &models.Reservation{
			QuotationID:     in.QuotationID,
			ClientID:        client.ID,
			ReservedAt:      reservedAt,
			ExpiresAt:       reservedAt.AddDate(0, 0, reservationExpiryDays),
			Currency:        in.Currency,
			ExchangeRate:    quotation.ExchangeRate,
			PaymentMethod:   in.PaymentMethod,
			Status:          models.ReservationStatusIssued,
			TotalRequired:   amount,
			AmountPaid:      decimal.Zero,
			RemainingAmount: amount,
			Ledger:          models.PaymentLedger{},
			IsActive:        true,
			CreatedAt:       now,
		}
		id, err := tx.Reservations.Create(res)
		if err != nil {
			return err
		}
		res.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PaymentInfo describes the payment accompanying a status change. A
// full payment settles whatever remains; otherwise Amount is folded in
// as a partial payment.
type PaymentInfo struct {
	Full      bool                 `json:"full"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Bank      string               `json:"bank,omitempty"`
	Reference string               `json:"reference,omitempty"`
	Notes     string               `json:"notes,omitempty"`
}

type ChangeReservationStatusInput struct {
	Status models.ReservationStatus `json:"status"`
	// TotalRequired overrides the agreed separation amount when the
	// deal was re-quoted between status changes.
	TotalRequired *decimal.Decimal `json:"total_required,omitempty"`
	Payment       *PaymentInfo     `json:"payment,omitempty"`
}

// ChangeStatus applies a reservation status, folds in any accompanying
// payment and fans out the cascade the new status implies: the lot
// moves, the installment schedule is generated on first entry into
// financing, and the contract-validation marker is set or cleared. The
// whole fan-out commits or rolls back as one unit.
func (s *ReservationService) ChangeStatus(id int64, in ChangeReservationStatusInput) (*models.Reservation, error) {
	policy, ok := ReservationCascades[in.Status]
	if !ok {
		return nil, apperr.Validation("unknown reservation status")
	}

	var (
		res          *models.Reservation
		client       *models.Client
		scheduled    int
		firstFinance bool
	)
	err := s.runTx(func(tx pipelineTx) error {
		var err error
		res, err = tx.Reservations.GetByID(id)
		if err != nil {
			return err
		}
		if res == nil || !res.IsActive {
			return apperr.NotFound("reservation not found")
		}

		prev := res.Status
		res.Status = in.Status
		firstFinance = policy.GenerateSchedule && prev != in.Status

		if in.TotalRequired != nil {
			if !in.TotalRequired.IsPositive() {
				return apperr.Validation("required total must be positive")
			}
			res.TotalRequired = in.TotalRequired.Round(2)
		}

		if in.Payment != nil {
			if err := s.applyPayment(res, in.Payment); err != nil {
				return err
			}
		} else {
			// A changed required total still moves the remaining amount.
			clampRemaining(res)
		}

		if policy.ValidationPending {
			res.ContractValidation = models.ContractValidationPending
		} else {
			res.ContractValidation = ""
		}

		quotation, err := tx.Quotations.GetByID(res.QuotationID)
		if err != nil {
			return err
		}
		if quotation == nil {
			return apperr.Consistency("reservation references a missing quotation", nil)
		}

		if err := cascadeLot(tx, quotation.LotID, policy.LotStatus); err != nil {
			return err
		}

		if firstFinance {
			schedule := BuildPaymentSchedule(quotation, res.ID, s.now())
			if len(schedule) > 0 {
				if err := tx.Payments.DeleteByReservation(res.ID); err != nil {
					return apperr.Consistency("payment schedule reset failed", err)
				}
				if err := tx.Payments.CreateBatch(schedule); err != nil {
					return apperr.Consistency("payment schedule generation failed", err)
				}
				scheduled = len(schedule)
			}
		}

		if err := tx.Reservations.Update(res); err != nil {
			return err
		}

		client, err = tx.Clients.GetByID(res.ClientID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects: never part of the unit of work.
	if in.Payment != nil && client != nil && client.Email != "" && s.mailer != nil {
		if err := s.mailer.SendPaymentReceipt(client.Email, client.FullName, res); err != nil {
			log.Printf("payment receipt mail to %s failed: %v", client.Email, err)
		}
	}
	if firstFinance && s.notifier != nil && client != nil {
		s.notifier.ReservationFinanced(res.ID, client.FullName, scheduled)
	}
	return res, nil
}

// applyPayment folds a confirmed payment into the running balance and
// mirrors it in the ledger, keeping paid + remaining == required.
func (s *ReservationService) applyPayment(res *models.Reservation, p *PaymentInfo) error {
	amount := p.Amount.Round(2)
	if p.Full {
		amount = res.TotalRequired.Sub(res.AmountPaid)
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		res.AmountPaid = res.TotalRequired
	} else {
		if !amount.IsPositive() {
			return apperr.Validation("payment amount must be positive")
		}
		res.AmountPaid = res.AmountPaid.Add(amount)
	}
	clampRemaining(res)

	method := p.Method
	if method == "" {
		method = res.PaymentMethod
	}
	res.Ledger.Append(models.LedgerEntry{
		ID:        uuid.NewString(),
		Date:      s.now(),
		Amount:    amount,
		Method:    method,
		Bank:      p.Bank,
		Reference: p.Reference,
		Status:    models.EntryConfirmed,
		Notes:     p.Notes,
	})
	return nil
}

func clampRemaining(res *models.Reservation) {
	remaining := res.TotalRequired.Sub(res.AmountPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	res.RemainingAmount = remaining.Round(2)
}

// cascadeLot moves the lot to the status the reservation policy
// dictates. A rejected move here is a consistency fault: the
// reservation write is already part of this unit, so the caller's
// transaction must abort.
func cascadeLot(tx pipelineTx, lotID int64, target models.LotStatus) error {
	lot, err := tx.Lots.GetByID(lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return apperr.Consistency("quotation references a missing lot", nil)
	}
	if lot.Status == target {
		return nil
	}
	if !CanTransitionLot(lot.Status, target) {
		return apperr.Consistency("lot cascade rejected by the transition table", nil)
	}
	if err := tx.Lots.UpdateStatus(lotID, target); err != nil {
		return apperr.Consistency("lot cascade failed", err)
	}
	return nil
}

// BuildPaymentSchedule derives the installment plan from the quotation
// financing terms: equal monthly payments anchored one month after the
// quotation date, with the last installment absorbing the rounding
// remainder so the schedule sums exactly to the financed amount.
func BuildPaymentSchedule(q *models.Quotation, reservationID int64, createdAt time.Time) []*models.Payment {
	if q.MonthsFinanced <= 0 || !q.FinancedAmount.IsPositive() {
		return nil
	}
	monthly := q.FinancedAmount.Div(decimal.NewFromInt(int64(q.MonthsFinanced))).Round(2)

	remaining := q.FinancedAmount
	out := make([]*models.Payment, 0, q.MonthsFinanced)
	for i := 1; i <= q.MonthsFinanced; i++ {
		amount := monthly
		if i == q.MonthsFinanced {
			amount = remaining.Round(2)
		}
		remaining = remaining.Sub(amount)
		out = append(out, &models.Payment{
			ReservationID: reservationID,
			Number:        i,
			DueDate:       q.QuotedAt.AddDate(0, i, 0),
			AmountDue:     amount,
			AmountPaid:    decimal.Zero,
			Status:        models.PaymentPending,
			CreatedAt:     createdAt,
		})
	}
	return out
}

// LedgerEntryInput is one payment attempt recorded against the ledger.
type LedgerEntryInput struct {
	Date      time.Time                `json:"date"`
	Amount    decimal.Decimal          `json:"amount"`
	Method    models.PaymentMethod     `json:"method"`
	Bank      string                   `json:"bank,omitempty"`
	Reference string                   `json:"reference,omitempty"`
	Status    models.LedgerEntryStatus `json:"status"`
	Notes     string                   `json:"notes,omitempty"`
}

func (in *LedgerEntryInput) validate() error {
	if !in.Amount.IsPositive() {
		return apperr.Validation("ledger amount must be positive")
	}
	switch in.Status {
	case "":
		in.Status = models.EntryConfirmed
	case models.EntryConfirmed, models.EntryPending, models.EntryRejected:
	default:
		return apperr.Validation("unknown ledger entry status")
	}
	return nil
}

// AddPaymentEntry appends an attempt to the ledger and re-derives the
// paid amount from the confirmed subset.
func (s *ReservationService) AddPaymentEntry(reservationID int64, in LedgerEntryInput) (*models.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var entry models.LedgerEntry
	err := s.withReservation(reservationID, func(res *models.Reservation) error {
		date := in.Date
		if date.IsZero() {
			date = s.now()
		}
		entry = models.LedgerEntry{
			ID:        uuid.NewString(),
			Date:      date,
			Amount:    in.Amount.Round(2),
			Method:    in.Method,
			Bank:      in.Bank,
			Reference: in.Reference,
			Status:    in.Status,
			Notes:     in.Notes,
		}
		res.Ledger.Append(entry)
		res.Recalculate()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdatePaymentEntry edits an attempt in place and re-derives the
// aggregate, so flipping an entry between confirmed and rejected moves
// the balance with it.
func (s *ReservationService) UpdatePaymentEntry(reservationID int64, entryID string, in LedgerEntryInput) (*models.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var entry models.LedgerEntry
	err := s.withReservation(reservationID, func(res *models.Reservation) error {
		existing := res.Ledger.Find(entryID)
		if existing == nil {
			return apperr.NotFound("ledger entry not found")
		}
		entry = *existing
		if !in.Date.IsZero() {
			entry.Date = in.Date
		}
		entry.Amount = in.Amount.Round(2)
		if in.Method != "" {
			entry.Method = in.Method
		}
		entry.Bank = in.Bank
		entry.Reference = in.Reference
		entry.Status = in.Status
		entry.Notes = in.Notes
		res.Ledger.Replace(entry)
		res.Recalculate()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemovePaymentEntry drops an attempt and re-derives the aggregate,
// restoring the balance to exactly what it was before the entry.
func (s *ReservationService) RemovePaymentEntry(reservationID int64, entryID string) error {
	return s.withReservation(reservationID, func(res *models.Reservation) error {
		if !res.Ledger.Remove(entryID) {
			return apperr.NotFound("ledger entry not found")
		}
		res.Recalculate()
		return nil
	})
}

// withReservation loads, mutates and saves one reservation in a
// transaction.
func (s *ReservationService) withReservation(id int64, fn func(*models.Reservation) error) error {
	return s.runTx(func(tx pipelineTx) error {
		res, err := tx.Reservations.GetByID(id)
		if err != nil {
			return err
		}
		if res == nil || !res.IsActive {
			return apperr.NotFound("reservation not found")
		}
		if err := fn(res); err != nil {
			return err
		}
		return tx.Reservations.Update(res)
	})
}

func (s *ReservationService) GetByID(id int64) (*models.Reservation, error) {
	var res *models.Reservation
	err := s.runTx(func(tx pipelineTx) error {
		var err error
		res, err = tx.Reservations.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperr.NotFound("reservation not found")
	}
	return res, nil
}

// Schedule returns the generated installment plan of a reservation.
func (s *ReservationService) Schedule(reservationID int64) ([]*models.Payment, error) {
	var out []*models.Payment
	err := s.runTx(func(tx pipelineTx) error {
		res, err := tx.Reservations.GetByID(reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return apperr.NotFound("reservation not found")
		}
		out, err = tx.Payments.ListByReservation(reservationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentData loads everything the PDF documents of a reservation
// need in one consistent snapshot.
func (s *ReservationService) DocumentData(reservationID int64) (*models.Reservation, *models.Client, *models.Lot, []*models.Payment, error) {
	var (
		res      *models.Reservation
		client   *models.Client
		lot      *models.Lot
		schedule []*models.Payment
	)
	err := s.runTx(func(tx pipelineTx) error {
		var err error
		res, err = tx.Reservations.GetByID(reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return apperr.NotFound("reservation not found")
		}
		client, err = tx.Clients.GetByID(res.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return apperr.Consistency("reservation references a missing client", nil)
		}
		quotation, err := tx.Quotations.GetByID(res.QuotationID)
		if err != nil {
			return err
		}
		if quotation == nil {
			return apperr.Consistency("reservation references a missing quotation", nil)
		}
		lot, err = tx.Lots.GetByID(quotation.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return apperr.Consistency("quotation references a missing lot", nil)
		}
		schedule, err = tx.Payments.ListByReservation(reservationID)
		return err
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return res, client, lot, schedule, nil
}

// RecordInstallment allocates a collected amount against one scheduled
// installment, marking it paid once the due amount is covered.
func (s *ReservationService) RecordInstallment(reservationID int64, number int, amount decimal.Decimal) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperr.Validation("installment amount must be positive")
	}
	var target *models.Payment
	err := s.runTx(func(tx pipelineTx) error {
		payments, err := tx.Payments.ListByReservation(reservationID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if p.Number == number {
				target = p
				break
			}
		}
		if target == nil {
			return apperr.NotFound("installment not found")
		}
		target.AmountPaid = target.AmountPaid.Add(amount.Round(2))
		if target.AmountPaid.GreaterThanOrEqual(target.AmountDue) {
			now := s.now()
			target.Status = models.PaymentPaid
			target.PaidAt = &now
		}
		return tx.Payments.Update(target)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}
