package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type ReservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, quotation_id, client_id, reserved_at, expires_at,
	currency, exchange_rate, payment_method, status, total_required,
	amount_paid, remaining_amount, ledger, contract_validation, is_active, created_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*models.Reservation, error) {
	var res models.Reservation
	err := row.Scan(
		&res.ID, &res.QuotationID, &res.ClientID, &res.ReservedAt, &res.ExpiresAt,
		&res.Currency, &res.ExchangeRate, &res.PaymentMethod, &res.Status,
		&res.TotalRequired, &res.AmountPaid, &res.RemainingAmount, &res.Ledger,
		&res.ContractValidation, &res.IsActive, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) Create(res *models.Reservation) (int64, error) {
	const q = `
		INSERT INTO reservations (quotation_id, client_id, reserved_at, expires_at,
			currency, exchange_rate, payment_method, status, total_required,
			amount_paid, remaining_amount, ledger, contract_validation,
			is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q,
		res.QuotationID, res.ClientID, res.ReservedAt, res.ExpiresAt,
		res.Currency, res.ExchangeRate, res.PaymentMethod, res.Status,
		res.TotalRequired, res.AmountPaid, res.RemainingAmount, res.Ledger,
		res.ContractValidation, res.IsActive, res.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create reservation: %w", err)
	}
	return id, nil
}

func (r *ReservationRepository) Update(res *models.Reservation) error {
	const q = `
		UPDATE reservations
		SET status=$1, payment_method=$2, total_required=$3, amount_paid=$4,
			remaining_amount=$5, ledger=$6, contract_validation=$7,
			expires_at=$8, is_active=$9
		WHERE id=$10
	`
	_, err := r.db.Exec(q,
		res.Status, res.PaymentMethod, res.TotalRequired, res.AmountPaid,
		res.RemainingAmount, res.Ledger, res.ContractValidation,
		res.ExpiresAt, res.IsActive, res.ID,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(id int64) (*models.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id=$1`
	res, err := scanReservation(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// GetActiveByQuotation returns the active reservation of a quotation,
// nil when none exists. One quotation holds at most one.
func (r *ReservationRepository) GetActiveByQuotation(quotationID int64) (*models.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE quotation_id=$1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1`
	res, err := scanReservation(r.db.QueryRow(q, quotationID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation by quotation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) Filter(f models.ReservationFilter, limit, offset int) ([]*models.Reservation, error) {
	q := `SELECT r.id, r.quotation_id, r.client_id, r.reserved_at, r.expires_at,
		r.currency, r.exchange_rate, r.payment_method, r.status, r.total_required,
		r.amount_paid, r.remaining_amount, r.ledger, r.contract_validation,
		r.is_active, r.created_at
		FROM reservations r
		WHERE r.is_active = TRUE`
	args := []interface{}{}
	i := 1

	if len(f.AdvisorIDs) > 0 {
		q += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM quotations q
			JOIN leads l ON l.id = q.lead_id
			WHERE q.id = r.quotation_id AND l.advisor_id = ANY($%d)
		)`, i)
		args = append(args, int64Array(f.AdvisorIDs))
		i++
	}
	if f.Status != nil {
		q += fmt.Sprintf(" AND r.status = $%d", i)
		args = append(args, *f.Status)
		i++
	}
	if f.Currency != nil {
		q += fmt.Sprintf(" AND r.currency = $%d", i)
		args = append(args, *f.Currency)
		i++
	}
	if f.From != nil {
		q += fmt.Sprintf(" AND r.reserved_at >= $%d", i)
		args = append(args, *f.From)
		i++
	}
	if f.To != nil {
		q += fmt.Sprintf(" AND r.reserved_at <= $%d", i)
		args = append(args, *f.To)
		i++
	}

	q += fmt.Sprintf(" ORDER BY r.reserved_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("filter reservations: %w", err)
	}
	defer rows.Close()

	var out []*models.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) CountByStatus() (map[models.ReservationStatus]int, error) {
	const q = `
		SELECT status, COUNT(*) FROM reservations
		WHERE is_active = TRUE
		GROUP BY status
	`
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	defer rows.Close()

	out := map[models.ReservationStatus]int{}
	for rows.Next() {
		var s models.ReservationStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
