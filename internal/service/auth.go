package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hortti/inventory/internal/repo"
	"github.com/hortti/inventory/pkg/hash"
	"github.com/hortti/inventory/pkg/logging"
	"github.com/hortti/inventory/pkg/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

// Login verifies the credentials and issues a signed access token. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return "", fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := tokens.NewAccessToken(user.ID.String(), user.Username, s.JWTSecret, s.TokenTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}
