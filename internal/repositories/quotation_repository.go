package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type QuotationRepository struct {
	db DBTX
}

func NewQuotationRepository(db DBTX) *QuotationRepository {
	return &QuotationRepository{db: db}
}

const quotationColumns = `id, lead_id, lot_id, quoted_at, currency, exchange_rate,
	total_price, down_payment, financed_amount, months_financed, is_active, created_at`

func scanQuotation(row interface{ Scan(...interface{}) error }) (*models.Quotation, error) {
	var q models.Quotation
	err := row.Scan(
		&q.ID, &q.LeadID, &q.LotID, &q.QuotedAt, &q.Currency, &q.ExchangeRate,
		&q.TotalPrice, &q.DownPayment, &q.FinancedAmount, &q.MonthsFinanced,
		&q.IsActive, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) Create(quotation *models.Quotation) (int64, error) {
	const q = `
		INSERT INTO quotations (lead_id, lot_id, quoted_at, currency, exchange_rate,
			total_price, down_payment, financed_amount, months_financed,
			is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q,
		quotation.LeadID, quotation.LotID, quotation.QuotedAt, quotation.Currency,
		quotation.ExchangeRate, quotation.TotalPrice, quotation.DownPayment,
		quotation.FinancedAmount, quotation.MonthsFinanced, quotation.IsActive,
		quotation.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create quotation: %w", err)
	}
	return id, nil
}

func (r *QuotationRepository) GetByID(id int64) (*models.Quotation, error) {
	q := `SELECT ` + quotationColumns + ` FROM quotations WHERE id=$1`
	quotation, err := scanQuotation(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return quotation, nil
}

func (r *QuotationRepository) ListByLead(leadID int64) ([]*models.Quotation, error) {
	q := `SELECT ` + quotationColumns + ` FROM quotations
		WHERE lead_id=$1
		ORDER BY quoted_at DESC`
	rows, err := r.db.Query(q, leadID)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var out []*models.Quotation
	for rows.Next() {
		quotation, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, quotation)
	}
	return out, rows.Err()
}
