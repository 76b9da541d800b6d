package services

import (
	"log"
	"strings"
	"time"

	"inmocrm/internal/apperr"
	"inmocrm/internal/authz"
	"inmocrm/internal/models"
)

// UserService manages the back-office accounts and derives the
// visibility scope a caller operates under.
type UserService struct {
	repo   UserRepo
	auth   AuthService
	mailer EmailService
	now    func() time.Time
}

func NewUserService(repo UserRepo, auth AuthService, mailer EmailService) *UserService {
	return &UserService{repo: repo, auth: auth, mailer: mailer, now: time.Now}
}

type CreateUserInput struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RoleID       int    `json:"role_id"`
	SupervisorID *int64 `json:"supervisor_id,omitempty"`
}

func (s *UserService) Create(in CreateUserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if !authz.ValidRole(in.RoleID) {
		return nil, apperr.Validation("unknown role")
	}
	existing, err := s.repo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a user with this email already exists")
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		RoleID:       in.RoleID,
		SupervisorID: in.SupervisorID,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	id, err := s.repo.Create(user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(user.Email, user.FullName, in.Password); err != nil {
			// warn but do not fail creation
			log.Printf("welcome email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *UserService) GetByID(id int64) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) List(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}

func (s *UserService) Deactivate(id int64) error {
	return s.repo.SetActive(id, false)
}

// ScopeFor resolves the visibility scope of a caller: advisors see
// their own records, supervisors additionally see their team, elevated
// roles see everything.
func (s *UserService) ScopeFor(userID int64, roleID int) (authz.Scope, error) {
	scope := authz.Scope{ActorID: userID, RoleID: roleID}
	if roleID == authz.RoleSupervisor {
		ids, err := s.repo.AdvisorIDsBySupervisor(userID)
		if err != nil {
			return authz.Scope{}, err
		}
		scope.AdvisorIDs = ids
	}
	return scope, nil
}
