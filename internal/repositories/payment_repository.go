package repositories

import (
	"fmt"

	"inmocrm/internal/models"
)

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, reservation_id, number, due_date, amount_due,
	amount_paid, status, paid_at, created_at`

// CreateBatch inserts a whole generated schedule. Callers run it inside
// the same transaction as the reservation status change.
func (r *PaymentRepository) CreateBatch(payments []*models.Payment) error {
	const q = `
		INSERT INTO payments (reservation_id, number, due_date, amount_due,
			amount_paid, status, paid_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	for _, p := range payments {
		if err := r.db.QueryRow(q, p.ReservationID, p.Number, p.DueDate,
			p.AmountDue, p.AmountPaid, p.Status, p.PaidAt, p.CreatedAt).Scan(&p.ID); err != nil {
			return fmt.Errorf("create payment %d: %w", p.Number, err)
		}
	}
	return nil
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	const q = `
		UPDATE payments
		SET amount_paid=$1, status=$2, paid_at=$3
		WHERE id=$4
	`
	_, err := r.db.Exec(q, p.AmountPaid, p.Status, p.PaidAt, p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListByReservation(reservationID int64) ([]*models.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments
		WHERE reservation_id=$1
		ORDER BY number`
	rows, err := r.db.Query(q, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.Number, &p.DueDate,
			&p.AmountDue, &p.AmountPaid, &p.Status, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// DeleteByReservation clears a previously generated schedule. Used only
// when a voided reservation re-enters financing and the schedule is
// rebuilt from the quotation.
func (r *PaymentRepository) DeleteByReservation(reservationID int64) error {
	const q = `DELETE FROM payments WHERE reservation_id=$1`
	_, err := r.db.Exec(q, reservationID)
	if err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return nil
}
