package repositories

import (
	"database/sql"
	"fmt"

	"inmocrm/internal/models"
)

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, creator_id, assignee_id, entity_id, entity_type,
	title, description, due_date, status, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.CreatorID, &t.AssigneeID, &t.EntityID, &t.EntityType,
		&t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(task *models.Task) (int64, error) {
	const q = `
		INSERT INTO tasks (creator_id, assignee_id, entity_id, entity_type,
			title, description, due_date, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q, task.CreatorID, task.AssigneeID, task.EntityID,
		task.EntityType, task.Title, task.Description, task.DueDate,
		task.Status, task.CreatedAt, task.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return id, nil
}

func (r *TaskRepository) GetByID(id int64) (*models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`
	t, err := scanTask(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) Update(task *models.Task) error {
	const q = `
		UPDATE tasks
		SET assignee_id=$1, title=$2, description=$3, due_date=$4,
			status=$5, updated_at=$6
		WHERE id=$7
	`
	_, err := r.db.Exec(q, task.AssigneeID, task.Title, task.Description,
		task.DueDate, task.Status, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(id int64) error {
	const q = `DELETE FROM tasks WHERE id=$1`
	_, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Find(f models.TaskFilter, limit, offset int) ([]*models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []interface{}{}
	i := 1

	if f.AssigneeID != nil {
		q += fmt.Sprintf(" AND assignee_id = $%d", i)
		args = append(args, *f.AssigneeID)
		i++
	}
	if f.EntityID != nil {
		q += fmt.Sprintf(" AND entity_id = $%d", i)
		args = append(args, *f.EntityID)
		i++
	}
	if f.EntityType != nil {
		q += fmt.Sprintf(" AND entity_type = $%d", i)
		args = append(args, *f.EntityType)
		i++
	}
	if f.Status != nil {
		q += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, *f.Status)
		i++
	}

	q += fmt.Sprintf(" ORDER BY due_date NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	var out []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
