package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"inmocrm/internal/models"
)

type ClientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, full_name, document_id, phone, email, address, is_active, created_at`

func scanClient(row interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.FullName, &c.DocumentID, &c.Phone, &c.Email,
		&c.Address, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(client *models.Client) (int64, error) {
	const q = `
		INSERT INTO clients (full_name, document_id, phone, email, address, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(q, client.FullName, client.DocumentID, client.Phone,
		client.Email, client.Address, client.IsActive, client.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create client: %w", err)
	}
	return id, nil
}

func (r *ClientRepository) Update(client *models.Client) error {
	const q = `
		UPDATE clients
		SET full_name=$1, document_id=$2, phone=$3, email=$4, address=$5, is_active=$6
		WHERE id=$7
	`
	_, err := r.db.Exec(q, client.FullName, client.DocumentID, client.Phone,
		client.Email, client.Address, client.IsActive, client.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(id int64) (*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients WHERE id=$1`
	c, err := scanClient(r.db.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) GetByDocument(documentID string) (*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients WHERE document_id=$1`
	c, err := scanClient(r.db.QueryRow(q, documentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by document: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) List(limit, offset int) ([]*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientRepository) FindByName(name string) ([]*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients
		WHERE LOWER(full_name) LIKE $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(q, "%"+strings.ToLower(name)+"%")
	if err != nil {
		return nil, fmt.Errorf("find clients by name: %w", err)
	}
	defer rows.Close()

	var out []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
