package domain

import "time"

// SenderType indicates which side of the conversation authored a message.
type SenderType string

const (
	SenderTypeCustomer SenderType = "CUSTOMER"
	SenderTypeAgent    SenderType = "AGENT"
)

// SenderRef is a tagged reference to a message author. The id points at a
// customer or an agent depending on the type, never both.
type SenderRef struct {
	Type SenderType
	ID   string
}

// CustomerSender builds a sender reference for a customer.
func CustomerSender(customerID string) SenderRef {
	return SenderRef{Type: SenderTypeCustomer, ID: customerID}
}

// AgentSender builds a sender reference for an agent.
func AgentSender(agentID string) SenderRef {
	return SenderRef{Type: SenderTypeAgent, ID: agentID}
}

// IsValidSenderType reports whether s is a known sender type.
func IsValidSenderType(s SenderType) bool {
	return s == SenderTypeCustomer || s == SenderTypeAgent
}

// Message is one conversation turn in a ticket thread. Messages are
// immutable once created; ordering is by createdAt ascending.
type Message struct {
	ID        string
	TicketID  string
	Sender    SenderRef
	Body      string
	CreatedAt time.Time
}
