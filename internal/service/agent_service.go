package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// AgentService manages the agent roster.
type AgentService struct {
	agents repository.AgentRepository
	teams  repository.TeamRepository
	auth   *AuthService
}

// NewAgentService builds the service.
func NewAgentService(agents repository.AgentRepository, teams repository.TeamRepository, auth *AuthService) *AgentService {
	return &AgentService{agents: agents, teams: teams, auth: auth}
}

// AgentCreateInput carries fields for registering an agent.
type AgentCreateInput struct {
	TeamID   string
	Name     string
	Email    string
	Password string
	Role     domain.AgentRole
}

// Create registers an agent on a team.
func (s *AgentService) Create(ctx context.Context, input AgentCreateInput) (*domain.Agent, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"name": "required"})
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"password": "min 8 characters"})
	}
	role := input.Role
	if role == "" {
		role = domain.AgentRoleAgent
	}
	if !domain.IsValidAgentRole(role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if _, err := s.teams.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": input.TeamID})
		}
		return nil, apperrors.MapError(err)
	}

	if _, err := s.agents.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	agent := &domain.Agent{
		TeamID:       input.TeamID,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// Get returns one agent by id.
func (s *AgentService) Get(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// List returns all agents, or one team's agents when teamID is set.
func (s *AgentService) List(ctx context.Context, teamID *string) ([]domain.Agent, error) {
	var (
		agents []domain.Agent
		err    error
	)
	if teamID != nil && *teamID != "" {
		agents, err = s.agents.ListByTeam(ctx, *teamID)
	} else {
		agents, err = s.agents.List(ctx)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}
