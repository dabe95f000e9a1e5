// Package auth verifies passwords and issues and resolves bearer tokens.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet-api/internal/errs"
	"wallet-api/internal/models"
	"wallet-api/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

// UserFinder is the part of the user store authentication needs.
// A missing user is (nil, nil).
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Config struct {
	Secret     string
	Algorithm  string
	Issuer     string
	TTL        time.Duration
	BcryptCost int
}

type Service struct {
	secret string
	method *jwt.SigningMethodHMAC
	issuer string
	ttl    time.Duration

	// dummyHash is compared against when the user does not exist.
	dummyHash string

	now func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("auth: empty signing secret")
	}
	method, err := util.SigningMethod(cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	dummy, err := util.HashPassword("wallet-api-dummy-password", cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: dummy hash: %w", err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		secret:    cfg.Secret,
		method:    method,
		issuer:    cfg.Issuer,
		ttl:       ttl,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Authenticate returns the user whose password matches. Unknown user and
// wrong password both yield errs.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, users UserFinder, username, password string) (*models.User, error) {
	user, err := users.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		util.CheckPassword(password, s.dummyHash)
		return nil, errs.ErrInvalidCredentials
	}
	if !util.CheckPassword(password, user.HashedPassword) {
		return nil, errs.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a token for subject. ttl <= 0 uses the configured default.
func (s *Service) IssueToken(subject string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	exp := now.Add(ttl)
	token, err := util.GenerateToken(s.secret, s.method, s.issuer, subject, now, exp)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

// ResolveToken verifies the token and loads its subject. Every failure is
// errs.ErrInvalidToken except store errors.
func (s *Service) ResolveToken(ctx context.Context, users UserFinder, token string) (*models.User, error) {
	claims, err := util.ParseToken(s.secret, s.method.Alg(), token, s.now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, errs.ErrInvalidToken
	}
	user, err := users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.ErrInvalidToken
	}
	return user, nil
}

// RequireActive passes active users through.
func RequireActive(user *models.User) (*models.User, error) {
	if user == nil || !user.IsActive {
		return nil, errs.ErrInactiveUser
	}
	return user, nil
}
