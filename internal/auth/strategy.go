package auth

import (
	"context"
	"errors"
	"strings"

	"Camp/internal/apperr"
	dom "Camp/internal/domain"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// Credentials is what a client submits to prove identity.
type Credentials struct {
	Username string
	Password string
}

// Strategy verifies credentials and yields the authenticated user ID.
// PasswordStrategy is the only implementation today; other providers
// implement this interface instead of branching inside the login handler.
type Strategy interface {
	Verify(ctx context.Context, creds Credentials) (int64, error)
}

// UserSource is the credential-store lookup a PasswordStrategy needs.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
}

// PasswordStrategy verifies a username/password pair against stored bcrypt
// hashes. Unknown usernames and wrong passwords yield the same failure.
type PasswordStrategy struct {
	users UserSource
}

// NewPasswordStrategy returns a new PasswordStrategy.
func NewPasswordStrategy(users UserSource) *PasswordStrategy {
	return &PasswordStrategy{users: users}
}

// dummyHash is compared when the username is unknown, so a lookup miss costs
// the same as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Verify returns the user ID on match and a generic InvalidCredentials
// failure otherwise.
func (s *PasswordStrategy) Verify(ctx context.Context, creds Credentials) (int64, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return 0, apperr.InvalidCredentials()
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return 0, apperr.InvalidCredentials()
		}
		return 0, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		return 0, apperr.InvalidCredentials()
	}
	return u.ID, nil
}
