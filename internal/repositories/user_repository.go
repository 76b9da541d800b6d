package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, role_id, supervisor_id, is_active, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.SupervisorID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(user *models.User) (int64, error) {
	const q = `
		INSERT INTO users (full_name, email, password_hash, role_id, supervisor_id, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q, user.FullName, user.Email, user.PasswordHash,
		user.RoleID, user.SupervisorID, user.IsActive, user.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET full_name=$1, email=$2, role_id=$3, supervisor_id=$4, is_active=$5
		WHERE id=$6
	`
	_, err := r.db.Exec(q, user.FullName, user.Email, user.RoleID,
		user.SupervisorID, user.IsActive, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.db.QueryRow(q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(limit, offset int) ([]*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users
		ORDER BY full_name
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AdvisorIDsBySupervisor resolves the visibility scope of a supervisor:
// the ids of active advisors reporting to them.
func (r *UserRepository) AdvisorIDsBySupervisor(supervisorID int64) ([]int64, error) {
	const q = `
		SELECT id FROM users
		WHERE supervisor_id=$1 AND is_active = TRUE
	`
	rows, err := r.db.Query(q, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("advisors by supervisor: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *UserRepository) SetActive(id int64, active bool) error {
	const q = `UPDATE users SET is_active=$1 WHERE id=$2`
	_, err := r.db.Exec(q, active, id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}
