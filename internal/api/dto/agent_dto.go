package dto

import (
	"time"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and its expiry.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Agent     AgentResponse `json:"agent"`
}

// CreateAgentRequest payload.
type CreateAgentRequest struct {
	TeamID   string           `json:"team_id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.AgentRole `json:"role,omitempty"`
}

// AgentResponse serializes an agent. Password hashes never leave the
// service.
type AgentResponse struct {
	ID        string           `json:"id"`
	TeamID    string           `json:"team_id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.AgentRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// UpdateTeamSettingsRequest payload.
type UpdateTeamSettingsRequest struct {
	WidgetEnabled  bool `json:"widget_enabled"`
	AutoAssignment bool `json:"auto_assignment"`
}

// TeamResponse serializes a team.
type TeamResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	WidgetEnabled  bool      `json:"widget_enabled"`
	AutoAssignment bool      `json:"auto_assignment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
