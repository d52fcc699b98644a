package dto

import (
	"time"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// SummaryResponse carries a generated or stored summary.
type SummaryResponse struct {
	TicketID string `json:"ticket_id"`
	Summary  string `json:"summary"`
}

// SuggestedReplyResponse carries a drafted reply for agent review.
type SuggestedReplyResponse struct {
	TicketID string `json:"ticket_id"`
	Reply    string `json:"reply"`
}

// SuggestedPriorityResponse carries a priority recommendation.
type SuggestedPriorityResponse struct {
	TicketID string                `json:"ticket_id"`
	Priority domain.TicketPriority `json:"priority"`
}

// AILogResponse serializes one audit entry.
type AILogResponse struct {
	ID         string              `json:"id"`
	TicketID   string              `json:"ticket_id"`
	ActionType domain.AIActionType `json:"action_type"`
	Input      map[string]any      `json:"input,omitempty"`
	Output     map[string]any      `json:"output,omitempty"`
	TokensUsed *int                `json:"tokens_used"`
	CreatedAt  time.Time           `json:"created_at"`
}

// UsageResponse serializes aggregated token accounting.
type UsageResponse struct {
	TotalTokens   int            `json:"total_tokens"`
	TotalRequests int            `json:"total_requests"`
	ByAction      map[string]int `json:"by_action"`
}
