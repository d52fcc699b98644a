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

type enrichmentFixture struct {
	svc       *EnrichmentService
	tickets   *fakeTicketRepo
	messages  *fakeMessageRepo
	aiLogs    *fakeAILogRepo
	inference *fakeInference
}

func newEnrichmentFixture(t *testing.T, inference *fakeInference) *enrichmentFixture {
	t.Helper()
	f := &enrichmentFixture{
		tickets:   newFakeTicketRepo(),
		messages:  newFakeMessageRepo(),
		aiLogs:    newFakeAILogRepo(),
		inference: inference,
	}
	f.svc = NewEnrichmentService(EnrichmentDependencies{
		TicketRepo:  f.tickets,
		MessageRepo: f.messages,
		AILogRepo:   f.aiLogs,
		Inference:   inference,
		Logger:      zap.NewNop(),
	})
	return f
}

func (f *enrichmentFixture) seedTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		TeamID:     "team-1",
		CustomerID: "cust-1",
		Subject:    "Where is my invoice",
		Status:     domain.TicketStatusOpen,
		Priority:   domain.TicketPriorityMedium,
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	return ticket
}

func (f *enrichmentFixture) seedMessage(t *testing.T, ticketID, body string) {
	t.Helper()
	require.NoError(t, f.messages.Create(context.Background(), &domain.Message{
		TicketID: ticketID,
		Sender:   domain.CustomerSender("cust-1"),
		Body:     body,
	}))
}

func TestSummarizeEmptyConversation(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{summary: "should not be used"})
	ticket := f.seedTicket(t)

	summary, err := f.svc.Summarize(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "No messages to summarize.", summary)
	assert.Zero(t, f.aiLogs.count())

	_, _, summaryCalls, _, _ := f.inference.calls()
	assert.Zero(t, summaryCalls)
}

func TestSummarizePersistsAndLogs(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{summary: "Customer asks about an invoice.", summaryTokens: 33})
	ticket := f.seedTicket(t)
	f.seedMessage(t, ticket.ID, "Where is my invoice?")

	summary, err := f.svc.Summarize(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer asks about an invoice.", summary)

	updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AISummary)
	assert.Equal(t, summary, *updated.AISummary)

	entries := f.aiLogs.byAction(domain.AIActionSummarize)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].TokensUsed)
	assert.Equal(t, 33, *entries[0].TokensUsed)
}

func TestGetOrGenerateSummaryIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{summary: "First summary."})
	ticket := f.seedTicket(t)
	f.seedMessage(t, ticket.ID, "hello")

	first, err := f.svc.GetOrGenerateSummary(context.Background(), ticket.ID)
	require.NoError(t, err)
	second, err := f.svc.GetOrGenerateSummary(context.Background(), ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	_, _, summaryCalls, _, _ := f.inference.calls()
	assert.Equal(t, 1, summaryCalls)
	assert.Equal(t, 1, f.aiLogs.count())
}

func TestSummarizeInferenceFailure(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{summaryErr: errors.New("upstream down")})
	ticket := f.seedTicket(t)
	f.seedMessage(t, ticket.ID, "hello")

	_, err := f.svc.Summarize(context.Background(), ticket.ID)
	assertErrorCode(t, err, "INFERENCE_FAILED")
	assert.Zero(t, f.aiLogs.count())
}

func TestSuggestReplyEmptyConversation(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{reply: "unused"})
	ticket := f.seedTicket(t)

	reply, err := f.svc.SuggestReply(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unable to generate a suggestion.", reply)
	assert.Zero(t, f.aiLogs.count())
}

func TestSuggestReplyLogsDraft(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{reply: "Hi Jane, your invoice is attached.", replyTokens: 20})
	ticket := f.seedTicket(t)
	f.seedMessage(t, ticket.ID, "Where is my invoice?")

	reply, err := f.svc.SuggestReply(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane, your invoice is attached.", reply)
	assert.Len(t, f.aiLogs.byAction(domain.AIActionSuggestReply), 1)
}

func TestSuggestPriorityMissingTicket(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{priority: domain.TicketPriorityUrgent})

	priority, err := f.svc.SuggestPriority(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, priority)
	assert.Zero(t, f.aiLogs.count())

	_, _, _, _, priorityCalls := f.inference.calls()
	assert.Zero(t, priorityCalls)
}

func TestSuggestPriorityLogsRecommendation(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{priority: domain.TicketPriorityHigh, priorityTokens: 5})
	ticket := f.seedTicket(t)

	priority, err := f.svc.SuggestPriority(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, priority)
	assert.Len(t, f.aiLogs.byAction(domain.AIActionSuggestPriority), 1)
}

func TestGetUsageAggregation(t *testing.T) {
	t.Parallel()
	f := newEnrichmentFixture(t, &fakeInference{})

	ten := 10
	twenty := 20
	entries := []domain.AILogEntry{
		{TicketID: "t1", ActionType: domain.AIActionSummarize, TokensUsed: &ten},
		{TicketID: "t1", ActionType: domain.AIActionSuggestReply, TokensUsed: &twenty},
		{TicketID: "t2", ActionType: domain.AIActionSummarize},
	}
	for i := range entries {
		require.NoError(t, f.aiLogs.Create(context.Background(), &entries[i]))
	}

	usage, err := f.svc.GetUsage(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 30, usage.TotalTokens)
	assert.Equal(t, 3, usage.TotalRequests)
	assert.Equal(t, 2, usage.ByAction[domain.AIActionSummarize])
	assert.Equal(t, 1, usage.ByAction[domain.AIActionSuggestReply])
}
