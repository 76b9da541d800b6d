package services

import (
	"time"

	"github.com/shopspring/decimal"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
	"inmocrm/internal/repositories"
)

// QuotationService prices lots for leads. Quoting moves the lot to
// Quoted in the same unit of work.
type QuotationService struct {
	runTx func(fn func(pipelineTx) error) error
	now   func() time.Time
}

func NewQuotationService(store *repositories.Store) *QuotationService {
	return &QuotationService{
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
		now: time.Now,
	}
}

type CreateQuotationInput struct {
	LeadID         int64           `json:"lead_id"`
	LotID          int64           `json:"lot_id"`
	Currency       models.Currency `json:"currency"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	MonthsFinanced int             `json:"months_financed"`
}

// Create prices a lot for a lead. The exchange rate and total are
// snapshotted as given; the financed amount is whatever the down
// payment leaves uncovered.
func (s *QuotationService) Create(in CreateQuotationInput) (*models.Quotation, error) {
	if in.Currency != models.CurrencyPEN && in.Currency != models.CurrencyUSD {
		return nil, apperr.Validation("unsupported currency")
	}
	if !in.TotalPrice.IsPositive() {
		return nil, apperr.Validation("total price must be positive")
	}
	if in.DownPayment.IsNegative() || in.DownPayment.GreaterThan(in.TotalPrice) {
		return nil, apperr.Validation("down payment must be between zero and the total price")
	}
	if in.MonthsFinanced < 0 {
		return nil, apperr.Validation("months financed cannot be negative")
	}
	financed := in.TotalPrice.Sub(in.DownPayment).Round(2)
	if financed.IsPositive() && in.MonthsFinanced == 0 {
		return nil, apperr.Validation("a financed balance needs a term in months")
	}

	var q *models.Quotation
	err := s.runTx(func(tx pipelineTx) error {
		lead, err := tx.Leads.GetByID(in.LeadID)
		if err != nil {
			return err
		}
		if lead == nil || !lead.IsActive {
			return apperr.Validation("lead is missing or inactive")
		}
		if lead.Status.Terminal() || lead.Status == models.LeadStatusExpired {
			return apperr.Validation("lead is no longer in the pipeline")
		}

		lot, err := tx.Lots.GetByID(in.LotID)
		if err != nil {
			return err
		}
		if lot == nil || !lot.IsActive {
			return apperr.Validation("lot is missing or inactive")
		}
		// an already-quoted lot accepts a re-quote in place
		if lot.Status != models.LotStatusQuoted && !CanTransitionLot(lot.Status, models.LotStatusQuoted) {
			return apperr.InvalidTransition("lot is not available for quoting")
		}

		now := s.now()
		q = &models.Quotation{
			LeadID:         in.LeadID,
			LotID:          in.LotID,
			QuotedAt:       now,
			Currency:       in.Currency,
			ExchangeRate:   in.ExchangeRate,
			TotalPrice:     in.TotalPrice.Round(2),
			DownPayment:    in.DownPayment.Round(2),
			FinancedAmount: financed,
			MonthsFinanced: in.MonthsFinanced,
			IsActive:       true,
			CreatedAt:      now,
		}
		id, err := tx.Quotations.Create(q)
		if err != nil {
			return err
		}
		q.ID = id

		if lot.Status != models.LotStatusQuoted {
			if err := tx.Lots.UpdateStatus(in.LotID, models.LotStatusQuoted); err != nil {
				return apperr.Consistency("lot cascade failed", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuotationService) GetByID(id int64) (*models.Quotation, error) {
	var q *models.Quotation
	err := s.runTx(func(tx pipelineTx) error {
		var err error
		q, err = tx.Quotations.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperr.NotFound("quotation not found")
	}
	return q, nil
}

func (s *QuotationService) ListByLead(leadID int64) ([]*models.Quotation, error) {
	var out []*models.Quotation
	err := s.runTx(func(tx pipelineTx) error {
		var err error
		out, err = tx.Quotations.ListByLead(leadID)
		return err
	})
	return out, err
}
