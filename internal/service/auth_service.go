package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/devtama101/customer-support-dashboard/internal/auth"
	"github.com/devtama101/customer-support-dashboard/internal/config"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// AuthService coordinates agent login. Customers never authenticate; the
// widget path stays public.
type AuthService struct {
	agents     repository.AgentRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, agents repository.AgentRepository) *AuthService {
	return &AuthService{
		agents:     agents,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates an agent and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Agent, string, time.Time, error) {
	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(agent.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(agent)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return agent, token, exp, nil
}

// HashPassword produces a bcrypt hash at the configured cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	return auth.HashPassword(password, s.bcryptCost)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
