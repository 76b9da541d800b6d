package services

import (
	"time"

	"inmocrm/internal/models"
)

// Storage interfaces consumed by the services. The repositories package
// satisfies them; tests substitute in-memory fakes.

type LeadRepo interface {
	Create(lead *models.Lead) (int64, error)
	Update(lead *models.Lead) error
	GetByID(id int64) (*models.Lead, error)
	MaxCodeForYear(year int) (string, error)
	ExpireOverdue(now time.Time) (int64, error)
	Filter(f models.LeadFilter, limit, offset int) ([]*models.Lead, error)
	CountByStatus() (map[models.LeadStatus]int, error)
}

type ClientRepo interface {
	Create(client *models.Client) (int64, error)
	Update(client *models.Client) error
	GetByID(id int64) (*models.Client, error)
	GetByDocument(documentID string) (*models.Client, error)
	List(limit, offset int) ([]*models.Client, error)
	FindByName(name string) ([]*models.Client, error)
}

type LotRepo interface {
	Create(lot *models.Lot) (int64, error)
	GetByID(id int64) (*models.Lot, error)
	UpdateStatus(id int64, status models.LotStatus) error
	SetActive(id int64, active bool) error
	NumberExistsInBlock(blockID int64, number string) (bool, error)
	ListByBlock(blockID int64, limit, offset int) ([]*models.Lot, error)
	CountByStatus() (map[models.LotStatus]int, error)
}

type BlockRepo interface {
	Create(block *models.Block) (int64, error)
	GetByID(id int64) (*models.Block, error)
	ListByProject(projectID int64) ([]*models.Block, error)
}

type ProjectRepo interface {
	Create(p *models.Project) (int64, error)
	GetByID(id int64) (*models.Project, error)
	List(limit, offset int) ([]*models.Project, error)
}

type QuotationRepo interface {
	Create(q *models.Quotation) (int64, error)
	GetByID(id int64) (*models.Quotation, error)
	ListByLead(leadID int64) ([]*models.Quotation, error)
}

type ReservationRepo interface {
	Create(res *models.Reservation) (int64, error)
	Update(res *models.Reservation) error
	GetByID(id int64) (*models.Reservation, error)
	GetActiveByQuotation(quotationID int64) (*models.Reservation, error)
	Filter(f models.ReservationFilter, limit, offset int) ([]*models.Reservation, error)
	CountByStatus() (map[models.ReservationStatus]int, error)
}

type PaymentRepo interface {
	CreateBatch(payments []*models.Payment) error
	Update(p *models.Payment) error
	ListByReservation(reservationID int64) ([]*models.Payment, error)
	DeleteByReservation(reservationID int64) error
}

type UserRepo interface {
	Create(user *models.User) (int64, error)
	Update(user *models.User) error
	GetByID(id int64) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)
	AdvisorIDsBySupervisor(supervisorID int64) ([]int64, error)
	SetActive(id int64, active bool) error
}

type TaskRepo interface {
	Create(task *models.Task) (int64, error)
	GetByID(id int64) (*models.Task, error)
	Update(task *models.Task) error
	Delete(id int64) error
	Find(f models.TaskFilter, limit, offset int) ([]*models.Task, error)
}

// Notifier pushes pipeline alerts to the operations channel. Nil-safe
// in every service: notifications are best-effort and never block a
// state change.
type Notifier interface {
	SweepCompleted(expired int64)
	ReservationFinanced(reservationID int64, clientName string, installments int)
}
