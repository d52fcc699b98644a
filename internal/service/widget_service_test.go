package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

type widgetFixture struct {
	svc       *WidgetService
	teams     *fakeTeamRepo
	customers *fakeCustomerRepo
	agents    *fakeAgentRepo
	tickets   *fakeTicketRepo
	messages  *fakeMessageRepo
	aiLogs    *fakeAILogRepo
	inference *fakeInference
}

func newWidgetFixture(t *testing.T, inference *fakeInference) *widgetFixture {
	t.Helper()
	f := &widgetFixture{
		teams:     newFakeTeamRepo(),
		customers: newFakeCustomerRepo(),
		agents:    newFakeAgentRepo(),
		tickets:   newFakeTicketRepo(),
		messages:  newFakeMessageRepo(),
		aiLogs:    newFakeAILogRepo(),
		inference: inference,
	}
	f.svc = NewWidgetService(WidgetDependencies{
		TeamRepo:     f.teams,
		CustomerRepo: f.customers,
		AgentRepo:    f.agents,
		TicketRepo:   f.tickets,
		MessageRepo:  f.messages,
		AILogRepo:    f.aiLogs,
		Inference:    inference,
		Logger:       zap.NewNop(),
	})
	return f
}

func (f *widgetFixture) seedTeam(t *testing.T, settings domain.TeamSettings) *domain.Team {
	t.Helper()
	team := &domain.Team{Name: "T1", Settings: settings}
	require.NoError(t, f.teams.Create(context.Background(), team))
	return team
}

func enabledTeam() domain.TeamSettings {
	return domain.TeamSettings{WidgetEnabled: true, AutoAssignment: true}
}

func TestWidgetIntakeScenario(t *testing.T) {
	t.Parallel()
	f := newWidgetFixture(t, &fakeInference{sentimentScore: -0.6, category: domain.CategoryAccount})
	team := f.seedTeam(t, enabledTeam())

	agent := &domain.Agent{TeamID: team.ID, Name: "Sam", Email: "sam@example.com"}
	require.NoError(t, f.agents.Create(context.Background(), agent))

	result, err := f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID:  team.ID,
		Name:    "Jane",
		Email:   "jane@x.com",
		Message: "I can't log in",
	})
	require.NoError(t, err)

	assert.Len(t, result.Reference, 8)
	assert.Equal(t, strings.ToUpper(result.Reference), result.Reference)

	ticket, err := f.tickets.GetByID(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	require.NotNil(t, ticket.AssignedAgentID)
	assert.Equal(t, agent.ID, *ticket.AssignedAgentID)
	require.NotNil(t, ticket.SentimentScore)
	assert.InDelta(t, -0.6, *ticket.SentimentScore, 1e-9)
	require.NotNil(t, ticket.Category)
	assert.Equal(t, domain.CategoryAccount, *ticket.Category)

	msgs, err := f.messages.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.SenderTypeCustomer, msgs[0].Sender.Type)
	assert.Equal(t, "I can't log in", msgs[0].Body)

	customer, err := f.customers.GetByEmail(context.Background(), "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, customer.Metadata.Source)
	assert.Equal(t, "widget", *customer.Metadata.Source)
	require.NotNil(t, customer.Metadata.TeamID)
	assert.Equal(t, team.ID, *customer.Metadata.TeamID)

	assert.Len(t, f.aiLogs.byAction(domain.AIActionAnalyzeSentiment), 1)
	assert.Len(t, f.aiLogs.byAction(domain.AIActionCategorize), 1)
}

func TestWidgetIntakeReusesCustomerByEmail(t *testing.T) {
	t.Parallel()
	f := newWidgetFixture(t, &fakeInference{sentimentScore: 0, category: domain.CategoryOther})
	team := f.seedTeam(t, enabledTeam())

	existing := &domain.Customer{Email: "jane@x.com", Name: "Jane"}
	require.NoError(t, f.customers.Create(context.Background(), existing))

	result, err := f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID:  team.ID,
		Name:    "Jane Again",
		Email:   "JANE@X.COM",
		Message: "second contact",
	})
	require.NoError(t, err)

	ticket, err := f.tickets.GetByID(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, ticket.CustomerID)
}

func TestWidgetIntakeWithoutAgentsLeavesUnassigned(t *testing.T) {
	t.Parallel()
	f := newWidgetFixture(t, &fakeInference{sentimentScore: 0.5, category: domain.CategoryOther})
	team := f.seedTeam(t, enabledTeam())

	result, err := f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID:  team.ID,
		Name:    "Jane",
		Email:   "jane@x.com",
		Message: "loving the product",
	})
	require.NoError(t, err)

	ticket, err := f.tickets.GetByID(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.Nil(t, ticket.AssignedAgentID)
	assert.Equal(t, domain.TicketPriorityLow, ticket.Priority)
}

func TestWidgetIntakeTruncatesSubject(t *testing.T) {
	t.Parallel()
	f := newWidgetFixture(t, &fakeInference{sentimentScore: 0, category: domain.CategoryOther})
	team := f.seedTeam(t, enabledTeam())

	long := strings.Repeat("a", 250)
	result, err := f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID:  team.ID,
		Name:    "Jane",
		Email:   "jane@x.com",
		Message: long,
	})
	require.NoError(t, err)

	ticket, err := f.tickets.GetByID(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.Len(t, ticket.Subject, 100)
	require.NotNil(t, ticket.Description)
	assert.Equal(t, long, *ticket.Description)
}

func TestWidgetIntakeValidation(t *testing.T) {
	t.Parallel()
	f := newWidgetFixture(t, &fakeInference{})

	_, err := f.svc.Intake(context.Background(), WidgetIntakeInput{})
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID: "t", Name: "Jane", Email: "not-an-email", Message: "hi",
	})
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID: "missing", Name: "Jane", Email: "jane@x.com", Message: "hi",
	})
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestWidgetIntakeDisabledTeam(t *testing.T) {
	t.Parallel()
	f := newWidgetFixture(t, &fakeInference{})
	team := f.seedTeam(t, domain.TeamSettings{WidgetEnabled: false})

	_, err := f.svc.Intake(context.Background(), WidgetIntakeInput{
		TeamID: team.ID, Name: "Jane", Email: "jane@x.com", Message: "hi",
	})
	assertErrorCode(t, err, "FORBIDDEN")
}

func TestPriorityFromSentiment(t *testing.T) {
	t.Parallel()
	cases := []struct {
		score float64
		want  domain.TicketPriority
	}{
		{-0.9, domain.TicketPriorityHigh},
		{-0.6, domain.TicketPriorityHigh},
		{-0.4, domain.TicketPriorityMedium},
		{-0.1, domain.TicketPriorityMedium},
		{0, domain.TicketPriorityMedium},
		{0.3, domain.TicketPriorityMedium},
		{0.4, domain.TicketPriorityLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, priorityFromSentiment(tc.score), "score %v", tc.score)
	}
}
