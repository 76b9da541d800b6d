package services

import (
	"strings"
	"time"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

// TaskService manages the follow-up reminders advisors attach to leads
// and reservations.
type TaskService struct {
	repo TaskRepo
	now  func() time.Time
}

func NewTaskService(repo TaskRepo) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

type CreateTaskInput struct {
	CreatorID   int64             `json:"creator_id"`
	AssigneeID  int64             `json:"assignee_id"`
	EntityID    int64             `json:"entity_id"`
	EntityType  models.TaskEntity `json:"entity_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
}

func (s *TaskService) Create(in CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("task title is required")
	}
	if in.EntityType != models.TaskEntityLead && in.EntityType != models.TaskEntityReservation {
		return nil, apperr.Validation("unknown task entity type")
	}

	now := s.now()
	task := &models.Task{
		CreatorID:   in.CreatorID,
		AssigneeID:  in.AssigneeID,
		EntityID:    in.EntityID,
		EntityType:  in.EntityType,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      models.TaskStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.repo.Create(task)
	if err != nil {
		return nil, err
	}
	task.ID = id
	return task, nil
}

func (s *TaskService) ChangeStatus(id int64, status models.TaskStatus) (*models.Task, error) {
	switch status {
	case models.TaskStatusOpen, models.TaskStatusDone, models.TaskStatusCancelled:
	default:
		return nil, apperr.Validation("unknown task status")
	}
	task, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task not found")
	}
	task.Status = status
	task.UpdatedAt = s.now()
	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetByID(id int64) (*models.Task, error) {
	task, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task not found")
	}
	return task, nil
}

func (s *TaskService) Delete(id int64) error {
	return s.repo.Delete(id)
}

func (s *TaskService) Find(f models.TaskFilter, limit, offset int) ([]*models.Task, error) {
	return s.repo.Find(f, limit, offset)
}
