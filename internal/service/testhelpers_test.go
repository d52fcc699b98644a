package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/devtama101/customer-support-dashboard/internal/ai"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.ToDomainError(err).Code)
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.TeamID != nil && ticket.TeamID != *filter.TeamID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context, teamID *string) (map[domain.TicketStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.TicketStatus]int)
	for _, ticket := range r.tickets {
		if teamID != nil && ticket.TeamID != *teamID {
			continue
		}
		counts[ticket.Status]++
	}
	return counts, nil
}

func (r *fakeTicketRepo) SentimentScores(_ context.Context, teamID *string) ([]*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var scores []*float64
	for _, ticket := range r.tickets {
		if teamID != nil && ticket.TeamID != *teamID {
			continue
		}
		scores = append(scores, ticket.SentimentScore)
	}
	return scores, nil
}

func (r *fakeTicketRepo) CountCreatedPerDay(_ context.Context, teamID *string, _ int) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, ticket := range r.tickets {
		if teamID != nil && ticket.TeamID != *teamID {
			continue
		}
		counts[ticket.CreatedAt.Format("2006-01-02")]++
	}
	return counts, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Message
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			result = append(result, msg)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, msg := range r.messages {
		if msg.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeMessageRepo) AverageFirstResponseSeconds(_ context.Context, _ *string) (float64, error) {
	return 0, nil
}

type fakeAILogRepo struct {
	mu      sync.Mutex
	entries []domain.AILogEntry
}

func newFakeAILogRepo() *fakeAILogRepo {
	return &fakeAILogRepo{}
}

func (r *fakeAILogRepo) Create(_ context.Context, entry *domain.AILogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAILogRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AILogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AILogEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].TicketID == ticketID {
			result = append(result, r.entries[i])
		}
	}
	return result, nil
}

func (r *fakeAILogRepo) ListUsage(_ context.Context, _ *string) ([]repository.UsageRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]repository.UsageRow, 0, len(r.entries))
	for _, entry := range r.entries {
		rows = append(rows, repository.UsageRow{ActionType: entry.ActionType, TokensUsed: entry.TokensUsed})
	}
	return rows, nil
}

func (r *fakeAILogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *fakeAILogRepo) byAction(action domain.AIActionType) []domain.AILogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AILogEntry
	for _, entry := range r.entries {
		if entry.ActionType == action {
			result = append(result, entry)
		}
	}
	return result
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]domain.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	customer.UpdatedAt = time.Now()
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := customer
	return &copied, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Email == strings.ToLower(email) {
			copied := customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *string, _, _ int) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Customer
	for _, customer := range r.customers {
		result = append(result, customer)
	}
	return result, nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.customers, id)
	return nil
}

type fakeAgentRepo struct {
	mu     sync.Mutex
	agents []domain.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{}
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	now := time.Now()
	agent.CreatedAt = now
	agent.UpdatedAt = now
	r.agents = append(r.agents, *agent)
	return nil
}

func (r *fakeAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, agent := range r.agents {
		if agent.ID == id {
			copied := agent
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAgentRepo) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, agent := range r.agents {
		if agent.Email == strings.ToLower(email) {
			copied := agent
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAgentRepo) ListByTeam(_ context.Context, teamID string) ([]domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Agent
	for _, agent := range r.agents {
		if agent.TeamID == teamID {
			result = append(result, agent)
		}
	}
	return result, nil
}

func (r *fakeAgentRepo) List(_ context.Context) ([]domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Agent(nil), r.agents...), nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[string]domain.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]domain.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now
	r.teams[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	team.UpdatedAt = time.Now()
	r.teams[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := team
	return &copied, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Team
	for _, team := range r.teams {
		result = append(result, team)
	}
	return result, nil
}

// fakeInference returns scripted values and counts invocations per method.
type fakeInference struct {
	mu sync.Mutex

	sentimentScore  float64
	sentimentTokens int
	sentimentErr    error

	category       string
	categoryTokens int
	categoryErr    error

	summary       string
	summaryTokens int
	summaryErr    error

	reply       string
	replyTokens int
	replyErr    error

	priority       domain.TicketPriority
	priorityTokens int
	priorityErr    error

	sentimentCalls int
	categoryCalls  int
	summaryCalls   int
	replyCalls     int
	priorityCalls  int
}

var _ ai.Client = (*fakeInference)(nil)

func (f *fakeInference) ScoreSentiment(_ context.Context, _ string) (float64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentimentCalls++
	return f.sentimentScore, f.sentimentTokens, f.sentimentErr
}

func (f *fakeInference) Categorize(_ context.Context, _ string) (string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryCalls++
	return f.category, f.categoryTokens, f.categoryErr
}

func (f *fakeInference) SummarizeConversation(_ context.Context, _ []ai.TranscriptMessage) (string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	return f.summary, f.summaryTokens, f.summaryErr
}

func (f *fakeInference) SuggestReply(_ context.Context, _ string, _ []ai.TranscriptMessage) (string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyCalls++
	return f.reply, f.replyTokens, f.replyErr
}

func (f *fakeInference) SuggestPriority(_ context.Context, _, _ string, _ float64) (domain.TicketPriority, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priorityCalls++
	return f.priority, f.priorityTokens, f.priorityErr
}

func (f *fakeInference) calls() (sentiment, category, summary, reply, priority int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sentimentCalls, f.categoryCalls, f.summaryCalls, f.replyCalls, f.priorityCalls
}
