package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"inmocrm/internal/models"
)

type LeadRepository struct {
	db DBTX
}

func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, code, client_id, advisor_id, project_id, referral_id,
	status, capture_source, completion_reason, cancellation_note,
	entry_date, expiration_date, recycle_count, last_recycled_by,
	last_recycled_at, is_active, created_at`

func scanLead(row interface{ Scan(...interface{}) error }) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(
		&l.ID, &l.Code, &l.ClientID, &l.AdvisorID, &l.ProjectID, &l.ReferralID,
		&l.Status, &l.CaptureSource, &l.CompletionReason, &l.CancellationNote,
		&l.EntryDate, &l.ExpirationDate, &l.RecycleCount, &l.LastRecycledBy,
		&l.LastRecycledAt, &l.IsActive, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) Create(lead *models.Lead) (int64, error) {
	const q = `
		INSERT INTO leads (code, client_id, advisor_id, project_id, referral_id,
			status, capture_source, completion_reason, cancellation_note,
			entry_date, expiration_date, recycle_count, last_recycled_by,
			last_recycled_at, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q,
		lead.Code, lead.ClientID, lead.AdvisorID, lead.ProjectID, lead.ReferralID,
		lead.Status, lead.CaptureSource, lead.CompletionReason, lead.CancellationNote,
		lead.EntryDate, lead.ExpirationDate, lead.RecycleCount, lead.LastRecycledBy,
		lead.LastRecycledAt, lead.IsActive, lead.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	return id, nil
}

func (r *LeadRepository) Update(lead *models.Lead) error {
	const q = `
		UPDATE leads
		SET advisor_id=$1, project_id=$2, status=$3, completion_reason=$4,
			cancellation_note=$5, entry_date=$6, expiration_date=$7,
			recycle_count=$8, last_recycled_by=$9, last_recycled_at=$10,
			is_active=$11
		WHERE id=$12
	`
	_, err := r.db.Exec(q,
		lead.AdvisorID, lead.ProjectID, lead.Status, lead.CompletionReason,
		lead.CancellationNote, lead.EntryDate, lead.ExpirationDate,
		lead.RecycleCount, lead.LastRecycledBy, lead.LastRecycledAt,
		lead.IsActive, lead.ID,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) GetByID(id int64) (*models.Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	lead, err := scanLead(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// MaxCodeForYear returns the highest assigned code of the given year, or
// empty when the year has no leads yet.
func (r *LeadRepository) MaxCodeForYear(year int) (string, error) {
	const q = `
		SELECT code FROM leads
		WHERE code LIKE $1
		ORDER BY code DESC
		LIMIT 1
	`
	var code string
	err := r.db.QueryRow(q, fmt.Sprintf("LEAD-%d-%%", year)).Scan(&code)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("max lead code: %w", err)
	}
	return code, nil
}

// ExpireOverdue transitions every active, non-terminal lead whose window
// has closed. Running it twice in a row affects zero rows the second
// time, which is what makes the sweep safe to re-run.
func (r *LeadRepository) ExpireOverdue(now time.Time) (int64, error) {
	const q = `
		UPDATE leads
		SET status=$1
		WHERE is_active = TRUE
		  AND expiration_date < $2
		  AND status NOT IN ($3, $4, $5)
	`
	res, err := r.db.Exec(q, models.LeadStatusExpired, now,
		models.LeadStatusExpired, models.LeadStatusCompleted, models.LeadStatusCanceled)
	if err != nil {
		return 0, fmt.Errorf("expire leads: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire leads affected: %w", err)
	}
	return n, nil
}

func (r *LeadRepository) Filter(f models.LeadFilter, limit, offset int) ([]*models.Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads WHERE is_active = TRUE`
	args := []interface{}{}
	i := 1

	if f.Status != nil {
		q += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, *f.Status)
		i++
	}
	if f.ProjectID != nil {
		q += fmt.Sprintf(" AND project_id = $%d", i)
		args = append(args, *f.ProjectID)
		i++
	}
	if f.From != nil {
		q += fmt.Sprintf(" AND entry_date >= $%d", i)
		args = append(args, *f.From)
		i++
	}
	if f.To != nil {
		q += fmt.Sprintf(" AND entry_date <= $%d", i)
		args = append(args, *f.To)
		i++
	}
	if len(f.AdvisorIDs) > 0 {
		q += fmt.Sprintf(" AND advisor_id = ANY($%d)", i)
		args = append(args, int64Array(f.AdvisorIDs))
		i++
	}

	q += fmt.Sprintf(" ORDER BY entry_date DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("filter leads: %w", err)
	}
	defer rows.Close()

	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LeadRepository) CountByStatus() (map[models.LeadStatus]int, error) {
	const q = `
		SELECT status, COUNT(*) FROM leads
		WHERE is_active = TRUE
		GROUP BY status
	`
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	defer rows.Close()

	out := map[models.LeadStatus]int{}
	for rows.Next() {
		var s models.LeadStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
