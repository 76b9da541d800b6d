package services

import (
	"strings"
	"time"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

// ProjectService manages developments and their blocks.
type ProjectService struct {
	projects ProjectRepo
	blocks   BlockRepo
	now      func() time.Time
}

func NewProjectService(projects ProjectRepo, blocks BlockRepo) *ProjectService {
	return &ProjectService{projects: projects, blocks: blocks, now: time.Now}
}

type CreateProjectInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (s *ProjectService) Create(in CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("project name is required")
	}
	project := &models.Project{
		Name:      strings.TrimSpace(in.Name),
		Location:  in.Location,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	id, err := s.projects.Create(project)
	if err != nil {
		return nil, err
	}
	project.ID = id
	return project, nil
}

func (s *ProjectService) GetByID(id int64) (*models.Project, error) {
	project, err := s.projects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("project not found")
	}
	return project, nil
}

func (s *ProjectService) List(limit, offset int) ([]*models.Project, error) {
	return s.projects.List(limit, offset)
}

type CreateBlockInput struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
}

func (s *ProjectService) CreateBlock(in CreateBlockInput) (*models.Block, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("block name is required")
	}
	project, err := s.projects.GetByID(in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil || !project.IsActive {
		return nil, apperr.Validation("project is missing or inactive")
	}

	block := &models.Block{
		ProjectID: in.ProjectID,
		Name:      strings.TrimSpace(in.Name),
		IsActive:  true,
		CreatedAt: s.now(),
	}
	id, err := s.blocks.Create(block)
	if err != nil {
		return nil, err
	}
	block.ID = id
	return block, nil
}

func (s *ProjectService) ListBlocks(projectID int64) ([]*models.Block, error) {
	return s.blocks.ListByProject(projectID)
}
