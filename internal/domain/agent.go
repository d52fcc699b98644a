package domain

import "time"

// AgentRole enumerates internal operator roles.
type AgentRole string

const (
	AgentRoleAdmin AgentRole = "ADMIN"
	AgentRoleAgent AgentRole = "AGENT"
)

// IsValidAgentRole reports whether the value is a known role.
func IsValidAgentRole(role AgentRole) bool {
	switch role {
	case AgentRoleAdmin, AgentRoleAgent:
		return true
	}
	return false
}

// Agent models a support operator who works tickets for a team.
type Agent struct {
	ID           string
	TeamID       string
	Name         string
	Email        string
	PasswordHash string
	Role         AgentRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
