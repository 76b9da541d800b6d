package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

func newReservationServiceForTest(p *testPipeline, notifier Notifier) *ReservationService {
	return &ReservationService{
		runTx:    p.runTx,
		notifier: notifier,
		now:      func() time.Time { return testNow },
	}
}

// reservationFixture seeds a quoted lot with its quotation, lead and
// client, financed at 1200 over 12 months.
func reservationFixture(p *testPipeline) *models.Quotation {
	client := p.clients.add(&models.Client{FullName: "María Quispe", DocumentID: "45678912", IsActive: true})
	leadID, _ := p.leads.Create(&models.Lead{
		Code: "LEAD-2026-00001", ClientID: client.ID,
		Status: models.LeadStatusInFollowUp, IsActive: true,
		EntryDate: testNow, ExpirationDate: testNow.AddDate(0, 0, 7),
	})
	lot := p.lots.add(&models.Lot{
		BlockID: 1, Number: "A-12", Status: models.LotStatusQuoted, IsActive: true,
		Price: decimal.RequireFromString("45000"),
	})
	return p.quotations.add(&models.Quotation{
		LeadID: leadID, LotID: lot.ID, QuotedAt: testNow,
		Currency:       models.CurrencyPEN,
		ExchangeRate:   decimal.RequireFromString("3.75"),
		TotalPrice:     decimal.RequireFromString("45000"),
		DownPayment:    decimal.RequireFromString("43800"),
		FinancedAmount: decimal.RequireFromString("1200"),
		MonthsFinanced: 12,
		IsActive:       true,
	})
}

func requireBalanced(t *testing.T, res *models.Reservation) {
	t.Helper()
	require.True(t, res.AmountPaid.Add(res.RemainingAmount).Equal(res.TotalRequired) ||
		res.RemainingAmount.IsZero(),
		"paid %s + remaining %s vs required %s",
		res.AmountPaid, res.RemainingAmount, res.TotalRequired)
}

func TestReservationCreate(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID:   q.ID,
		Amount:        decimal.RequireFromString("500"),
		Currency:      models.CurrencyPEN,
		PaymentMethod: models.MethodTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusIssued, res.Status)
	require.True(t, res.TotalRequired.Equal(decimal.RequireFromString("500")))
	require.True(t, res.AmountPaid.IsZero())
	require.True(t, res.RemainingAmount.Equal(res.TotalRequired))
	require.Equal(t, testNow.AddDate(0, 0, 15), res.ExpiresAt)
	require.True(t, q.ExchangeRate.Equal(res.ExchangeRate))
	require.Empty(t, res.Ledger)
}

func TestReservationCreateRejectsSecondActive(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	in := CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	}
	_, err := svc.Create(in)
	require.NoError(t, err)

	_, err = svc.Create(in)
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestReservationFullPaymentSettlesBalance(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	notifier := &fakeNotifier{}
	svc := newReservationServiceForTest(p, notifier)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:  models.ReservationStatusFinancingActive,
		Payment: &PaymentInfo{Full: true, Method: models.MethodCash},
	})
	require.NoError(t, err)

	require.True(t, updated.AmountPaid.Equal(updated.TotalRequired))
	require.True(t, updated.RemainingAmount.IsZero())
	requireBalanced(t, updated)

	// the full payment lands in the ledger as one confirmed entry for
	// exactly the outstanding delta
	require.Len(t, updated.Ledger, 1)
	entry := updated.Ledger[0]
	require.Equal(t, models.EntryConfirmed, entry.Status)
	require.True(t, entry.Amount.Equal(decimal.RequireFromString("500")))
	require.NotEmpty(t, entry.ID)

	// cascade: lot held, schedule generated, contract pending validation
	lot, err := p.lots.GetByID(q.LotID)
	require.NoError(t, err)
	require.Equal(t, models.LotStatusReserved, lot.Status)

	schedule, err := p.payments.ListByReservation(res.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 12)
	require.Equal(t, models.ContractValidationPending, updated.ContractValidation)

	require.Equal(t, []int64{res.ID}, notifier.financed)
}

func TestReservationPartialPaymentKeepsInvariant(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:  models.ReservationStatusIssued,
		Payment: &PaymentInfo{Amount: decimal.RequireFromString("200"), Method: models.MethodTransfer},
	})
	require.NoError(t, err)
	require.True(t, updated.AmountPaid.Equal(decimal.RequireFromString("200")))
	require.True(t, updated.RemainingAmount.Equal(decimal.RequireFromString("300")))
	requireBalanced(t, updated)
}

func TestReservationRequoteAdjustsRemaining(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:  models.ReservationStatusIssued,
		Payment: &PaymentInfo{Amount: decimal.RequireFromString("200")},
	})
	require.NoError(t, err)

	// the deal was re-quoted upward between status changes
	newTotal := decimal.RequireFromString("800")
	updated, err := svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:        models.ReservationStatusIssued,
		TotalRequired: &newTotal,
	})
	require.NoError(t, err)
	require.True(t, updated.TotalRequired.Equal(newTotal))
	require.True(t, updated.AmountPaid.Equal(decimal.RequireFromString("200")))
	require.True(t, updated.RemainingAmount.Equal(decimal.RequireFromString("600")))
}

func TestReservationOverpaymentClampsAtZero(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:  models.ReservationStatusIssued,
		Payment: &PaymentInfo{Amount: decimal.RequireFromString("700")},
	})
	require.NoError(t, err)
	require.True(t, updated.RemainingAmount.IsZero())
}

func TestReservationVoidReleasesLot(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:  models.ReservationStatusFinancingActive,
		Payment: &PaymentInfo{Full: true},
	})
	require.NoError(t, err)

	voided, err := svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status: models.ReservationStatusVoided,
	})
	require.NoError(t, err)
	require.Empty(t, voided.ContractValidation)

	lot, err := p.lots.GetByID(q.LotID)
	require.NoError(t, err)
	require.Equal(t, models.LotStatusAvailable, lot.Status)
}

func TestReservationCascadeFailureAborts(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	// force the lot into a state the cascade cannot move
	require.NoError(t, p.lots.UpdateStatus(q.LotID, models.LotStatusSold))

	_, err = svc.ChangeStatus(res.ID, ChangeReservationStatusInput{
		Status:  models.ReservationStatusFinancingActive,
		Payment: &PaymentInfo{Full: true},
	})
	require.True(t, apperr.IsKind(err, apperr.KindConsistency))

	// nothing of the change is visible
	stored, err := p.reservations.GetByID(res.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusIssued, stored.Status)
	require.True(t, stored.AmountPaid.IsZero())
}

func TestLedgerEntriesDriveTheBalance(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	// a pending entry never counts
	pending, err := svc.AddPaymentEntry(res.ID, LedgerEntryInput{
		Amount: decimal.RequireFromString("300"),
		Method: models.MethodBankDeposit,
		Status: models.EntryPending,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(res.ID)
	require.NoError(t, err)
	require.True(t, got.AmountPaid.IsZero())
	require.True(t, got.RemainingAmount.Equal(decimal.RequireFromString("500")))

	// confirming it moves the balance
	_, err = svc.UpdatePaymentEntry(res.ID, pending.ID, LedgerEntryInput{
		Amount: decimal.RequireFromString("300"),
		Method: models.MethodBankDeposit,
		Status: models.EntryConfirmed,
	})
	require.NoError(t, err)

	got, err = svc.GetByID(res.ID)
	require.NoError(t, err)
	require.True(t, got.AmountPaid.Equal(decimal.RequireFromString("300")))
	require.True(t, got.RemainingAmount.Equal(decimal.RequireFromString("200")))
	requireBalanced(t, got)

	// removing it restores the balance exactly
	require.NoError(t, svc.RemovePaymentEntry(res.ID, pending.ID))
	got, err = svc.GetByID(res.ID)
	require.NoError(t, err)
	require.True(t, got.AmountPaid.IsZero())
	require.True(t, got.RemainingAmount.Equal(decimal.RequireFromString("500")))
}

func TestLedgerEntryNotFound(t *testing.T) {
	p := newTestPipeline()
	q := reservationFixture(p)
	svc := newReservationServiceForTest(p, nil)

	res, err := svc.Create(CreateReservationInput{
		QuotationID: q.ID,
		Amount:      decimal.RequireFromString("500"),
		Currency:    models.CurrencyPEN,
	})
	require.NoError(t, err)

	err = svc.RemovePaymentEntry(res.ID, "missing")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestBuildPaymentScheduleEvenSplit(t *testing.T) {
	q := &models.Quotation{
		QuotedAt:       testNow,
		FinancedAmount: decimal.RequireFromString("1200"),
		MonthsFinanced: 12,
	}
	schedule := BuildPaymentSchedule(q, 1, testNow)
	require.Len(t, schedule, 12)
	for i, p := range schedule {
		require.Equal(t, i+1, p.Number)
		require.True(t, p.AmountDue.Equal(decimal.RequireFromString("100")), "installment %d", i+1)
		require.Equal(t, testNow.AddDate(0, i+1, 0), p.DueDate)
		require.Equal(t, models.PaymentPending, p.Status)
	}
}

func TestBuildPaymentScheduleLastAbsorbsRounding(t *testing.T) {
	q := &models.Quotation{
		QuotedAt:       testNow,
		FinancedAmount: decimal.RequireFromString("1000"),
		MonthsFinanced: 3,
	}
	schedule := BuildPaymentSchedule(q, 1, testNow)
	require.Len(t, schedule, 3)
	require.True(t, schedule[0].AmountDue.Equal(decimal.RequireFromString("333.33")))
	require.True(t, schedule[1].AmountDue.Equal(decimal.RequireFromString("333.33")))
	require.True(t, schedule[2].AmountDue.Equal(decimal.RequireFromString("333.34")))

	sum := decimal.Zero
	for _, p := range schedule {
		sum = sum.Add(p.AmountDue)
	}
	require.True(t, sum.Equal(q.FinancedAmount))
}

func TestBuildPaymentScheduleSkipsCashDeals(t *testing.T) {
	q := &models.Quotation{QuotedAt: testNow, FinancedAmount: decimal.Zero, MonthsFinanced: 0}
	require.Empty(t, BuildPaymentSchedule(q, 1, testNow))
}
