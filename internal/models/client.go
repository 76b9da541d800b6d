package models

import "time"

// Client represents a prospective or actual buyer.
type Client struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	DocumentID string    `json:"document_id"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
