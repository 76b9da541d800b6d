package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

const tokenTTL = 12 * time.Hour

type AuthService interface {
	HashPassword(plain string) (string, error)
	Login(email, password string) (string, *models.User, error)
}

type authService struct {
	users  UserRepo
	secret []byte
	now    func() time.Time
}

func NewAuthService(users UserRepo, jwtSecret string) AuthService {
	return &authService{users: users, secret: []byte(jwtSecret), now: time.Now}
}

func (s *authService) HashPassword(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", apperr.Validation("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifies the credentials and issues a signed token carrying the
// user id and role.
func (s *authService) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if user == nil || !user.IsActive {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role_id": user.RoleID,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, user, nil
}
