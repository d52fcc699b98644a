package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

type messageFixture struct {
	svc       *MessageService
	tickets   *fakeTicketRepo
	messages  *fakeMessageRepo
	aiLogs    *fakeAILogRepo
	inference *fakeInference
}

func newMessageFixture(t *testing.T, inference *fakeInference) *messageFixture {
	t.Helper()
	f := &messageFixture{
		tickets:   newFakeTicketRepo(),
		messages:  newFakeMessageRepo(),
		aiLogs:    newFakeAILogRepo(),
		inference: inference,
	}
	f.svc = NewMessageService(MessageDependencies{
		TicketRepo:  f.tickets,
		MessageRepo: f.messages,
		AILogRepo:   f.aiLogs,
		Inference:   inference,
		Logger:      zap.NewNop(),
	})
	return f
}

func (f *messageFixture) seedTicket(t *testing.T, status domain.TicketStatus, category *string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		TeamID:     "team-1",
		CustomerID: "cust-1",
		Subject:    "Printer on fire",
		Status:     status,
		Priority:   domain.TicketPriorityMedium,
		Category:   category,
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	return ticket
}

func TestAddMessageValidation(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, &fakeInference{})
	ticket := f.seedTicket(t, domain.TicketStatusOpen, nil)

	_, err := f.svc.AddMessage(context.Background(), ticket.ID, domain.CustomerSender("cust-1"), "  ")
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.AddMessage(context.Background(), ticket.ID, domain.SenderRef{Type: domain.SenderTypeCustomer}, "hi")
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.AddMessage(context.Background(), ticket.ID, domain.SenderRef{Type: "ROBOT", ID: "x"}, "hi")
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.AddMessage(context.Background(), "missing", domain.CustomerSender("cust-1"), "hi")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestCustomerMessageRescoresTicket(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, &fakeInference{sentimentScore: -0.6, category: domain.CategoryTechnical, sentimentTokens: 12, categoryTokens: 8})
	ticket := f.seedTicket(t, domain.TicketStatusOpen, nil)

	msg, err := f.svc.AddMessage(context.Background(), ticket.ID, domain.CustomerSender("cust-1"), "Nothing works at all")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SentimentScore)
	assert.InDelta(t, -0.6, *updated.SentimentScore, 1e-9)
	require.NotNil(t, updated.Category)
	assert.Equal(t, domain.CategoryTechnical, *updated.Category)

	assert.Len(t, f.aiLogs.byAction(domain.AIActionAnalyzeSentiment), 1)
	assert.Len(t, f.aiLogs.byAction(domain.AIActionCategorize), 1)
}

func TestCustomerMessageKeepsExistingCategory(t *testing.T) {
	t.Parallel()
	billing := domain.CategoryBilling
	f := newMessageFixture(t, &fakeInference{sentimentScore: 0.2, category: domain.CategoryTechnical})
	ticket := f.seedTicket(t, domain.TicketStatusOpen, &billing)

	_, err := f.svc.AddMessage(context.Background(), ticket.ID, domain.CustomerSender("cust-1"), "thanks for the refund")
	require.NoError(t, err)

	updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Category)
	assert.Equal(t, domain.CategoryBilling, *updated.Category)

	_, categoryCalls, _, _, _ := f.inference.calls()
	assert.Zero(t, categoryCalls)
}

func TestCustomerMessageReopensTerminalTicket(t *testing.T) {
	t.Parallel()
	for _, status := range []domain.TicketStatus{domain.TicketStatusResolved, domain.TicketStatusClosed} {
		f := newMessageFixture(t, &fakeInference{sentimentScore: 0.1, category: domain.CategoryOther})
		ticket := f.seedTicket(t, status, nil)

		_, err := f.svc.AddMessage(context.Background(), ticket.ID, domain.CustomerSender("cust-1"), "it broke again")
		require.NoError(t, err)

		updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusOpen, updated.Status)
		assert.Nil(t, updated.ResolvedAt)
	}
}

func TestAgentMessageDoesNotTouchTicket(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, &fakeInference{sentimentScore: -0.9, category: domain.CategoryBug})
	ticket := f.seedTicket(t, domain.TicketStatusClosed, nil)

	_, err := f.svc.AddMessage(context.Background(), ticket.ID, domain.AgentSender("agent-1"), "following up")
	require.NoError(t, err)

	updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.Nil(t, updated.SentimentScore)

	sentimentCalls, categoryCalls, _, _, _ := f.inference.calls()
	assert.Zero(t, sentimentCalls)
	assert.Zero(t, categoryCalls)
	assert.Zero(t, f.aiLogs.count())
}

func TestInferenceFailureDoesNotBlockMessage(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, &fakeInference{
		sentimentErr: errors.New("timeout"),
		categoryErr:  errors.New("timeout"),
	})
	ticket := f.seedTicket(t, domain.TicketStatusOpen, nil)

	msg, err := f.svc.AddMessage(context.Background(), ticket.ID, domain.CustomerSender("cust-1"), "hello?")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SentimentScore)
	assert.Zero(t, *updated.SentimentScore)
	require.NotNil(t, updated.Category)
	assert.Equal(t, domain.CategoryOther, *updated.Category)
	assert.Zero(t, f.aiLogs.count())
}

func TestListMessagesRequiresTicket(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, &fakeInference{})

	_, err := f.svc.ListMessages(context.Background(), "missing")
	assertErrorCode(t, err, "NOT_FOUND")
}
