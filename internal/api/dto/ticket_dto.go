package dto

import (
	"time"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerID  string                `json:"customer_id"`
	TeamID      string                `json:"team_id"`
	Subject     string                `json:"subject"`
	Description *string               `json:"description,omitempty"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
	Category    *string               `json:"category,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
	Reason string              `json:"reason,omitempty"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// AssignTicketRequest payload. A null agent_id clears the assignment.
type AssignTicketRequest struct {
	AgentID *string `json:"agent_id"`
}

// TicketResponse serializes a ticket.
type TicketResponse struct {
	ID              string                `json:"id"`
	Reference       string                `json:"reference"`
	TeamID          string                `json:"team_id"`
	CustomerID      string                `json:"customer_id"`
	AssignedAgentID *string               `json:"assigned_agent_id"`
	Subject         string                `json:"subject"`
	Description     *string               `json:"description"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        *string               `json:"category"`
	SentimentScore  *float64              `json:"sentiment_score"`
	AISummary       *string               `json:"ai_summary"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
}

// TicketDetailResponse adds the ordered conversation.
type TicketDetailResponse struct {
	TicketResponse
	Messages []MessageResponse `json:"messages"`
}

// DashboardStatsResponse serializes headline numbers.
type DashboardStatsResponse struct {
	OpenTickets        int `json:"open_tickets"`
	InProgressTickets  int `json:"in_progress_tickets"`
	WaitingTickets     int `json:"waiting_tickets"`
	ResolvedTickets    int `json:"resolved_tickets"`
	TotalTickets       int `json:"total_tickets"`
	ResolutionRate     int `json:"resolution_rate"`
	AvgResponseMinutes int `json:"avg_response_minutes"`
}

// SentimentBreakdownResponse serializes sentiment buckets.
type SentimentBreakdownResponse struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// VolumePointResponse is one day of created-ticket volume.
type VolumePointResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
