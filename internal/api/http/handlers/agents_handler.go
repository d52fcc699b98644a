package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devtama101/customer-support-dashboard/internal/api/dto"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/service"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// AgentsHandler manages agent and team endpoints.
type AgentsHandler struct {
	agents *service.AgentService
	teams  *service.TeamService
	auth   *service.AuthService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agents *service.AgentService, teams *service.TeamService, authService *service.AuthService) *AgentsHandler {
	return &AgentsHandler{agents: agents, teams: teams, auth: authService}
}

// Login POST /auth/login.
func (h *AgentsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	agent, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Agent:     agentResponse(agent),
	}})
}

// Create POST /agents.
func (h *AgentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	agent, err := h.agents.Create(c.UserContext(), service.AgentCreateInput{
		TeamID:   req.TeamID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": agentResponse(agent)})
}

// Get GET /agents/:id.
func (h *AgentsHandler) Get(c *fiber.Ctx) error {
	agent, err := h.agents.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponse(agent)})
}

// List GET /agents.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	agents, err := h.agents.List(c.UserContext(), optionalQuery(c, "team_id"))
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, agentResponse(&agents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTeam POST /teams.
func (h *AgentsHandler) CreateTeam(c *fiber.Ctx) error {
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.teams.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": teamResponse(team)})
}

// ListTeams GET /teams.
func (h *AgentsHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.teams.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, teamResponse(&teams[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateTeamSettings PATCH /teams/:id/settings.
func (h *AgentsHandler) UpdateTeamSettings(c *fiber.Ctx) error {
	var req dto.UpdateTeamSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.teams.UpdateSettings(c.UserContext(), c.Params("id"), domain.TeamSettings{
		WidgetEnabled:  req.WidgetEnabled,
		AutoAssignment: req.AutoAssignment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}

func agentResponse(agent *domain.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:        agent.ID,
		TeamID:    agent.TeamID,
		Name:      agent.Name,
		Email:     agent.Email,
		Role:      agent.Role,
		CreatedAt: agent.CreatedAt,
	}
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:             team.ID,
		Name:           team.Name,
		WidgetEnabled:  team.Settings.WidgetEnabled,
		AutoAssignment: team.Settings.AutoAssignment,
		CreatedAt:      team.CreatedAt,
		UpdatedAt:      team.UpdatedAt,
	}
}
