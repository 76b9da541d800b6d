package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

// LotService owns the lot inventory state machine.
type LotService struct {
	repo     LotRepo
	blocks   BlockRepo
	projects ProjectRepo
	now      func() time.Time
}

func NewLotService(repo LotRepo, blocks BlockRepo, projects ProjectRepo) *LotService {
	return &LotService{repo: repo, blocks: blocks, projects: projects, now: time.Now}
}

type CreateLotInput struct {
	BlockID int64           `json:"block_id"`
	Number  string          `json:"number"`
	Area    decimal.Decimal `json:"area"`
	Price   decimal.Decimal `json:"price"`
}

// Create registers a lot as Available. The parent block and project
// must both be active, and the number unique within the block.
func (s *LotService) Create(in CreateLotInput) (*models.Lot, error) {
	if in.Number == "" {
		return nil, apperr.Validation("lot number is required")
	}
	block, err := s.blocks.GetByID(in.BlockID)
	if err != nil {
		return nil, err
	}
	if block == nil || !block.IsActive {
		return nil, apperr.Validation("block is missing or inactive")
	}
	project, err := s.projects.GetByID(block.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil || !project.IsActive {
		return nil, apperr.Validation("project is missing or inactive")
	}

	exists, err := s.repo.NumberExistsInBlock(in.BlockID, in.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("lot number already exists in this block")
	}

	lot := &models.Lot{
		BlockID:   in.BlockID,
		Number:    in.Number,
		Area:      in.Area.Round(2),
		Price:     in.Price.Round(2),
		Status:    models.LotStatusAvailable,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	id, err := s.repo.Create(lot)
	if err != nil {
		return nil, err
	}
	lot.ID = id
	return lot, nil
}

// ChangeStatus applies a transition from the compatibility table, or
// rejects it. Invalid moves are never coerced to a nearby valid state.
func (s *LotService) ChangeStatus(id int64, next models.LotStatus) (*models.Lot, error) {
	lot, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil || !lot.IsActive {
		return nil, apperr.NotFound("lot not found")
	}
	if !CanTransitionLot(lot.Status, next) {
		return nil, apperr.InvalidTransition(
			fmt.Sprintf("lot cannot move from %s to %s", lot.Status, next))
	}
	if err := s.repo.UpdateStatus(id, next); err != nil {
		return nil, err
	}
	lot.Status = next
	return lot, nil
}

// Deactivate soft-deletes a lot. Reserved and sold lots are locked.
func (s *LotService) Deactivate(id int64) error {
	lot, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if lot == nil {
		return apperr.NotFound("lot not found")
	}
	if lot.Status.Locked() {
		return apperr.Conflict("a reserved or sold lot cannot be deactivated")
	}
	return s.repo.SetActive(id, false)
}

func (s *LotService) GetByID(id int64) (*models.Lot, error) {
	return s.repo.GetByID(id)
}

func (s *LotService) ListByBlock(blockID int64, limit, offset int) ([]*models.Lot, error) {
	return s.repo.ListByBlock(blockID, limit, offset)
}
