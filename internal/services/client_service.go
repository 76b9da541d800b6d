package services

import (
	"strings"
	"time"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

// ClientService manages buyer records. Clients are deduplicated by
// document number, so re-captured prospects keep a single history.
type ClientService struct {
	repo ClientRepo
	now  func() time.Time
}

func NewClientService(repo ClientRepo) *ClientService {
	return &ClientService{repo: repo, now: time.Now}
}

type UpsertClientInput struct {
	FullName   string `json:"full_name"`
	DocumentID string `json:"document_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
}

// GetOrCreateByDocument returns the existing client for a document
// number, refreshing contact details, or registers a new one.
func (s *ClientService) GetOrCreateByDocument(in UpsertClientInput) (*models.Client, error) {
	in.DocumentID = strings.TrimSpace(in.DocumentID)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.DocumentID == "" {
		return nil, apperr.Validation("document number is required")
	}
	if in.FullName == "" {
		return nil, apperr.Validation("full name is required")
	}

	existing, err := s.repo.GetByDocument(in.DocumentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		changed := false
		if in.Phone != "" && in.Phone != existing.Phone {
			existing.Phone = in.Phone
			changed = true
		}
		if in.Email != "" && in.Email != existing.Email {
			existing.Email = in.Email
			changed = true
		}
		if in.Address != "" && in.Address != existing.Address {
			existing.Address = in.Address
			changed = true
		}
		if changed {
			if err := s.repo.Update(existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	client := &models.Client{
		FullName:   in.FullName,
		DocumentID: in.DocumentID,
		Phone:      in.Phone,
		Email:      in.Email,
		Address:    in.Address,
		IsActive:   true,
		CreatedAt:  s.now(),
	}
	id, err := s.repo.Create(client)
	if err != nil {
		return nil, err
	}
	client.ID = id
	return client, nil
}

func (s *ClientService) Update(id int64, in UpsertClientInput) (*models.Client, error) {
	client, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperr.NotFound("client not found")
	}
	if in.FullName != "" {
		client.FullName = strings.TrimSpace(in.FullName)
	}
	if in.Phone != "" {
		client.Phone = in.Phone
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.Address != "" {
		client.Address = in.Address
	}
	if err := s.repo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) GetByID(id int64) (*models.Client, error) {
	client, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperr.NotFound("client not found")
	}
	return client, nil
}

func (s *ClientService) List(limit, offset int) ([]*models.Client, error) {
	return s.repo.List(limit, offset)
}

func (s *ClientService) Search(name string) ([]*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("search term is required")
	}
	return s.repo.FindByName(name)
}
