package dto

import (
	"time"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	SenderType domain.SenderType `json:"sender_type"`
	SenderID   string            `json:"sender_id"`
	Body       string            `json:"body"`
}

// MessageResponse represents one conversation turn.
type MessageResponse struct {
	ID         string            `json:"id"`
	TicketID   string            `json:"ticket_id"`
	SenderType domain.SenderType `json:"sender_type"`
	SenderID   string            `json:"sender_id"`
	Body       string            `json:"body"`
	CreatedAt  time.Time         `json:"created_at"`
}
