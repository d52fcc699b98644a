package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusWaiting    TicketStatus = "WAITING"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Ticket categories form a closed set; anything else is normalized to "other".
const (
	CategoryBilling        = "billing"
	CategoryTechnical      = "technical"
	CategoryFeatureRequest = "feature_request"
	CategoryBug            = "bug"
	CategoryAccount        = "account"
	CategoryOther          = "other"
)

// Ticket is the aggregate for customer support cases.
type Ticket struct {
	ID              string
	TeamID          string
	CustomerID      string
	AssignedAgentID *string
	Subject         string
	Description     *string
	Status          TicketStatus
	Priority        TicketPriority
	Category        *string
	SentimentScore  *float64
	AISummary       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

// IsValidStatus reports whether s is one of the known ticket statuses.
func IsValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// IsValidPriority reports whether p is one of the known priorities.
func IsValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// IsValidCategory reports whether c belongs to the closed category set.
func IsValidCategory(c string) bool {
	switch c {
	case CategoryBilling, CategoryTechnical, CategoryFeatureRequest,
		CategoryBug, CategoryAccount, CategoryOther:
		return true
	}
	return false
}

// IsTerminal reports whether the status marks the ticket resolved or closed.
// Tickets in these states carry a resolvedAt timestamp and reopen on new
// customer activity.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// ApplyStatus sets the status and keeps resolvedAt consistent with it:
// present iff the ticket is resolved or closed.
func (t *Ticket) ApplyStatus(status TicketStatus, now time.Time) {
	t.Status = status
	if status.IsTerminal() {
		t.ResolvedAt = &now
	} else {
		t.ResolvedAt = nil
	}
}

// Reference returns the short human-shareable ticket reference: the first
// eight characters of the id, uppercased.
func (t *Ticket) Reference() string {
	id := t.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
