package repositories

import (
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run against either, so one logical operation can bind
// every involved repository to the same transaction.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store bundles all repositories over one connection. InTx yields a
// tx-bound copy so cross-entity writes commit or roll back as a unit.
type Store struct {
	db *sql.DB

	Leads        *LeadRepository
	Lots         *LotRepository
	Blocks       *BlockRepository
	Projects     *ProjectRepository
	Clients      *ClientRepository
	Quotations   *QuotationRepository
	Reservations *ReservationRepository
	Payments     *PaymentRepository
	Users        *UserRepository
	Tasks        *TaskRepository
}

func NewStore(db *sql.DB) *Store {
	s := bindStore(db)
	s.db = db
	return s
}

func bindStore(dbtx DBTX) *Store {
	return &Store{
		Leads:        NewLeadRepository(dbtx),
		Lots:         NewLotRepository(dbtx),
		Blocks:       NewBlockRepository(dbtx),
		Projects:     NewProjectRepository(dbtx),
		Clients:      NewClientRepository(dbtx),
		Quotations:   NewQuotationRepository(dbtx),
		Reservations: NewReservationRepository(dbtx),
		Payments:     NewPaymentRepository(dbtx),
		Users:        NewUserRepository(dbtx),
		Tasks:        NewTaskRepository(dbtx),
	}
}

// InTx runs fn against a transaction-bound store. Any error (or panic)
// rolls the whole unit back; partial writes are never visible. Nested
// calls reuse the surrounding transaction.
func (s *Store) InTx(fn func(*Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(bindStore(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
