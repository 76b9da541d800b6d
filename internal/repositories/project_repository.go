package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *models.Project) (int64, error) {
	const q = `
		INSERT INTO projects (name, location, is_active, created_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q, p.Name, p.Location, p.IsActive, p.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}
	return id, nil
}

func (r *ProjectRepository) GetByID(id int64) (*models.Project, error) {
	const q = `SELECT id, name, location, is_active, created_at FROM projects WHERE id=$1`
	var p models.Project
	err := r.db.QueryRow(q, id).Scan(&p.ID, &p.Name, &p.Location, &p.IsActive, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(limit, offset int) ([]*models.Project, error) {
	const q = `
		SELECT id, name, location, is_active, created_at
		FROM projects
		WHERE is_active = TRUE
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
