package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

func newQuotationServiceForTest(p *testPipeline) *QuotationService {
	return &QuotationService{
		runTx: p.runTx,
		now:   func() time.Time { return testNow },
	}
}

func quotationFixture(p *testPipeline) (int64, *models.Lot) {
	client := p.clients.add(&models.Client{FullName: "María Quispe", DocumentID: "45678912", IsActive: true})
	leadID, _ := p.leads.Create(&models.Lead{
		Code: "LEAD-2026-00001", ClientID: client.ID,
		Status: models.LeadStatusAttended, IsActive: true,
		EntryDate: testNow, ExpirationDate: testNow.AddDate(0, 0, 7),
	})
	lot := p.lots.add(&models.Lot{
		BlockID: 1, Number: "A-12", Status: models.LotStatusAvailable, IsActive: true,
		Price: decimal.RequireFromString("45000"),
	})
	return leadID, lot
}

func TestQuotationCreateMovesLotToQuoted(t *testing.T) {
	p := newTestPipeline()
	leadID, lot := quotationFixture(p)
	svc := newQuotationServiceForTest(p)

	q, err := svc.Create(CreateQuotationInput{
		LeadID:         leadID,
		LotID:          lot.ID,
		Currency:       models.CurrencyPEN,
		ExchangeRate:   decimal.RequireFromString("3.75"),
		TotalPrice:     decimal.RequireFromString("45000"),
		DownPayment:    decimal.RequireFromString("5000"),
		MonthsFinanced: 24,
	})
	require.NoError(t, err)
	require.True(t, q.FinancedAmount.Equal(decimal.RequireFromString("40000")))
	require.Equal(t, testNow, q.QuotedAt)

	stored, err := p.lots.GetByID(lot.ID)
	require.NoError(t, err)
	require.Equal(t, models.LotStatusQuoted, stored.Status)
}

func TestQuotationCreateRejectsFinancedBalanceWithoutTerm(t *testing.T) {
	p := newTestPipeline()
	leadID, lot := quotationFixture(p)
	svc := newQuotationServiceForTest(p)

	_, err := svc.Create(CreateQuotationInput{
		LeadID:       leadID,
		LotID:        lot.ID,
		Currency:     models.CurrencyPEN,
		ExchangeRate: decimal.RequireFromString("3.75"),
		TotalPrice:   decimal.RequireFromString("45000"),
		DownPayment:  decimal.RequireFromString("5000"),
	})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestQuotationCreateRejectsLockedLot(t *testing.T) {
	p := newTestPipeline()
	leadID, lot := quotationFixture(p)
	require.NoError(t, p.lots.UpdateStatus(lot.ID, models.LotStatusSold))
	svc := newQuotationServiceForTest(p)

	_, err := svc.Create(CreateQuotationInput{
		LeadID:       leadID,
		LotID:        lot.ID,
		Currency:     models.CurrencyPEN,
		ExchangeRate: decimal.RequireFromString("3.75"),
		TotalPrice:   decimal.RequireFromString("45000"),
		DownPayment:  decimal.RequireFromString("45000"),
	})
	require.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
}

func TestQuotationCreateRejectsClosedLead(t *testing.T) {
	p := newTestPipeline()
	leadID, lot := quotationFixture(p)
	stored := p.leads.leads[leadID]
	stored.Status = models.LeadStatusCanceled
	svc := newQuotationServiceForTest(p)

	_, err := svc.Create(CreateQuotationInput{
		LeadID:       leadID,
		LotID:        lot.ID,
		Currency:     models.CurrencyPEN,
		ExchangeRate: decimal.RequireFromString("3.75"),
		TotalPrice:   decimal.RequireFromString("45000"),
		DownPayment:  decimal.RequireFromString("45000"),
	})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}
