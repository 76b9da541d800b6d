package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type BlockRepository struct {
	db DBTX
}

func NewBlockRepository(db DBTX) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(block *models.Block) (int64, error) {
	const q = `
		INSERT INTO blocks (project_id, name, is_active, created_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q, block.ProjectID, block.Name, block.IsActive, block.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create block: %w", err)
	}
	return id, nil
}

func (r *BlockRepository) GetByID(id int64) (*models.Block, error) {
	const q = `SELECT id, project_id, name, is_active, created_at FROM blocks WHERE id=$1`
	var b models.Block
	err := r.db.QueryRow(q, id).Scan(&b.ID, &b.ProjectID, &b.Name, &b.IsActive, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	return &b, nil
}

func (r *BlockRepository) ListByProject(projectID int64) ([]*models.Block, error) {
	const q = `
		SELECT id, project_id, name, is_active, created_at
		FROM blocks
		WHERE project_id=$1 AND is_active = TRUE
		ORDER BY name
	`
	rows, err := r.db.Query(q, projectID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var out []*models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
