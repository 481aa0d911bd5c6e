package service

import (
	"context"
	"strings"

	"Camp/internal/apperr"
	dom "Camp/internal/domain"
	"Camp/internal/repo"
	"Camp/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration against the credential store.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password. A username or
// email collision surfaces as a Duplicate failure and creates nothing.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return dom.User{}, apperr.Validation("username is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, apperr.Duplicate("username or email already taken")
		}
		return dom.User{}, err
	}
	return u, nil
}
