package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatusKeepsResolvedAtConsistent(t *testing.T) {
	t.Parallel()
	now := time.Now()
	ticket := &Ticket{Status: TicketStatusOpen}

	ticket.ApplyStatus(TicketStatusResolved, now)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, now, *ticket.ResolvedAt)

	ticket.ApplyStatus(TicketStatusClosed, now)
	require.NotNil(t, ticket.ResolvedAt)

	ticket.ApplyStatus(TicketStatusInProgress, now)
	assert.Nil(t, ticket.ResolvedAt)

	ticket.ApplyStatus(TicketStatusWaiting, now)
	assert.Nil(t, ticket.ResolvedAt)
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	assert.True(t, TicketStatusResolved.IsTerminal())
	assert.True(t, TicketStatusClosed.IsTerminal())
	assert.False(t, TicketStatusOpen.IsTerminal())
	assert.False(t, TicketStatusInProgress.IsTerminal())
	assert.False(t, TicketStatusWaiting.IsTerminal())
}

func TestReference(t *testing.T) {
	t.Parallel()
	ticket := &Ticket{ID: "a1b2c3d4-e5f6-7890-abcd-ef0123456789"}
	assert.Equal(t, "A1B2C3D4", ticket.Reference())

	short := &Ticket{ID: "ab12"}
	assert.Equal(t, "AB12", short.Reference())
}

func TestValidators(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidStatus(TicketStatusOpen))
	assert.False(t, IsValidStatus("ARCHIVED"))

	assert.True(t, IsValidPriority(TicketPriorityUrgent))
	assert.False(t, IsValidPriority("CRITICAL"))

	assert.True(t, IsValidCategory(CategoryFeatureRequest))
	assert.False(t, IsValidCategory("spam"))
}
