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

// TeamService manages teams and their widget settings.
type TeamService struct {
	teams repository.TeamRepository
}

// NewTeamService builds the service.
func NewTeamService(teams repository.TeamRepository) *TeamService {
	return &TeamService{teams: teams}
}

// Create registers a team. New teams accept widget intake and auto-assign
// by default.
func (s *TeamService) Create(ctx context.Context, name string) (*domain.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"name": "required"})
	}

	team := &domain.Team{
		Name: strings.TrimSpace(name),
		Settings: domain.TeamSettings{
			WidgetEnabled:  true,
			AutoAssignment: true,
		},
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// Get returns one team by id.
func (s *TeamService) Get(ctx context.Context, id string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// List returns all teams.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// UpdateSettings replaces a team's widget settings.
func (s *TeamService) UpdateSettings(ctx context.Context, id string, settings domain.TeamSettings) (*domain.Team, error) {
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	team.Settings = settings
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}
