package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type LotRepository struct {
	db DBTX
}

func NewLotRepository(db DBTX) *LotRepository {
	return &LotRepository{db: db}
}

const lotColumns = `id, block_id, number, area, price, status, is_active, created_at`

func scanLot(row interface{ Scan(...interface{}) error }) (*models.Lot, error) {
	var l models.Lot
	err := row.Scan(&l.ID, &l.BlockID, &l.Number, &l.Area, &l.Price,
		&l.Status, &l.IsActive, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotRepository) Create(lot *models.Lot) (int64, error) {
	const q = `
		INSERT INTO lots (block_id, number, area, price, status, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q, lot.BlockID, lot.Number, lot.Area, lot.Price,
		lot.Status, lot.IsActive, lot.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create lot: %w", err)
	}
	return id, nil
}

func (r *LotRepository) GetByID(id int64) (*models.Lot, error) {
	q := `SELECT ` + lotColumns + ` FROM lots WHERE id=$1`
	lot, err := scanLot(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

func (r *LotRepository) UpdateStatus(id int64, status models.LotStatus) error {
	const q = `UPDATE lots SET status=$1 WHERE id=$2`
	res, err := r.db.Exec(q, status, id)
	if err != nil {
		return fmt.Errorf("update lot status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lot status affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *LotRepository) SetActive(id int64, active bool) error {
	const q = `UPDATE lots SET is_active=$1 WHERE id=$2`
	_, err := r.db.Exec(q, active, id)
	if err != nil {
		return fmt.Errorf("set lot active: %w", err)
	}
	return nil
}

// NumberExistsInBlock checks lot-number uniqueness case-insensitively
// within one block.
func (r *LotRepository) NumberExistsInBlock(blockID int64, number string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM lots
			WHERE block_id=$1 AND LOWER(number)=LOWER($2)
		)
	`
	var exists bool
	if err := r.db.QueryRow(q, blockID, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("lot number exists: %w", err)
	}
	return exists, nil
}

func (r *LotRepository) ListByBlock(blockID int64, limit, offset int) ([]*models.Lot, error) {
	q := `SELECT ` + lotColumns + ` FROM lots
		WHERE block_id=$1 AND is_active = TRUE
		ORDER BY number
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(q, blockID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var out []*models.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LotRepository) CountByStatus() (map[models.LotStatus]int, error) {
	const q = `
		SELECT status, COUNT(*) FROM lots
		WHERE is_active = TRUE
		GROUP BY status
	`
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("count lots: %w", err)
	}
	defer rows.Close()

	out := map[models.LotStatus]int{}
	for rows.Next() {
		var s models.LotStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
