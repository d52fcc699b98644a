package events

import (
	"time"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketMessageAdded    EventType = "ticket_message_added"
	EventTicketEnriched        EventType = "ticket_enriched"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type       domain.SenderType `json:"type"`
	CustomerID *string           `json:"customer_id,omitempty"`
	AgentID    *string           `json:"agent_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TeamID     string                `json:"team_id"`
	CustomerID string                `json:"customer_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Subject    string                `json:"subject"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedAgentID *string `json:"assigned_agent_id,omitempty"`
	TeamID          string  `json:"team_id"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string            `json:"message_id"`
	SenderType  domain.SenderType `json:"sender_type"`
	SenderID    string            `json:"sender_id"`
	BodyPreview string            `json:"body_preview"`
}

// TicketEnrichedPayload payload.
type TicketEnrichedPayload struct {
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	Category       *string  `json:"category,omitempty"`
}
