package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/ai"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/events"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

const widgetSubjectLimit = 100

// WidgetService handles the public, unauthenticated intake path used by
// the embeddable chat widget.
type WidgetService struct {
	teams      repository.TeamRepository
	customers  repository.CustomerRepository
	agents     repository.AgentRepository
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	aiLogs     repository.AILogRepository
	inference  ai.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// WidgetDependencies bundles collaborators for the widget service.
type WidgetDependencies struct {
	TeamRepo     repository.TeamRepository
	CustomerRepo repository.CustomerRepository
	AgentRepo    repository.AgentRepository
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.MessageRepository
	AILogRepo    repository.AILogRepository
	Inference    ai.Client
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewWidgetService constructs the service.
func NewWidgetService(deps WidgetDependencies) *WidgetService {
	return &WidgetService{
		teams:      deps.TeamRepo,
		customers:  deps.CustomerRepo,
		agents:     deps.AgentRepo,
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		aiLogs:     deps.AILogRepo,
		inference:  deps.Inference,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// WidgetIntakeInput is the public intake payload.
type WidgetIntakeInput struct {
	TeamID  string
	Name    string
	Email   string
	Message string
}

// WidgetIntakeResult carries the short reference shared back to the visitor.
type WidgetIntakeResult struct {
	TicketID  string
	Reference string
}

// Intake finds or creates the customer by email, scores the message,
// opens a ticket and hands back a short shareable reference. Inference
// failures fall back to neutral values; the ticket is always created.
func (s *WidgetService) Intake(ctx context.Context, input WidgetIntakeInput) (*WidgetIntakeResult, error) {
	if err := validateIntake(input); err != nil {
		return nil, err
	}

	team, err := s.teams.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": input.TeamID})
		}
		return nil, apperrors.MapError(err)
	}
	if !team.Settings.WidgetEnabled {
		return nil, apperrors.NewForbidden("widget intake is disabled for this team")
	}

	customer, err := s.findOrCreateCustomer(ctx, team.ID, input)
	if err != nil {
		return nil, err
	}

	sentiment, sentimentTokens, category, categoryTokens := s.scoreIntake(ctx, input.Message)

	ticket := &domain.Ticket{
		TeamID:         team.ID,
		CustomerID:     customer.ID,
		Subject:        intakeSubject(input.Message),
		Description:    &input.Message,
		Status:         domain.TicketStatusOpen,
		Priority:       priorityFromSentiment(sentiment),
		Category:       &category,
		SentimentScore: &sentiment,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logIntakeInference(ctx, ticket.ID, input.Message, sentiment, sentimentTokens, category, categoryTokens)

	message := &domain.Message{
		TicketID: ticket.ID,
		Sender:   domain.CustomerSender(customer.ID),
		Body:     input.Message,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    customerActor(customer.ID),
		Payload: events.TicketCreatedPayload{
			TeamID:     ticket.TeamID,
			CustomerID: customer.ID,
			Priority:   ticket.Priority,
			Subject:    ticket.Subject,
		},
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID,
		Actor:    customerActor(customer.ID),
		Payload: events.TicketMessageAddedPayload{
			MessageID:   message.ID,
			SenderType:  domain.SenderTypeCustomer,
			SenderID:    customer.ID,
			BodyPreview: stringPreview(message.Body, 120),
		},
	})

	if team.Settings.AutoAssignment {
		s.autoAssign(ctx, ticket)
	}

	return &WidgetIntakeResult{TicketID: ticket.ID, Reference: ticket.Reference()}, nil
}

func (s *WidgetService) findOrCreateCustomer(ctx context.Context, teamID string, input WidgetIntakeInput) (*domain.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	customer, err := s.customers.GetByEmail(ctx, email)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	source := "widget"
	customer = &domain.Customer{
		Email: email,
		Name:  strings.TrimSpace(input.Name),
		Metadata: domain.CustomerMetadata{
			Source: &source,
			TeamID: &teamID,
		},
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// scoreIntake runs sentiment and category inference concurrently. Either
// call failing resolves to its fallback value so intake never blocks on
// the inference leaf.
func (s *WidgetService) scoreIntake(ctx context.Context, message string) (float64, int, string, int) {
	var (
		wg              sync.WaitGroup
		sentiment       float64
		sentimentTokens int
		category        string
		categoryTokens  int
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		score, tokens, err := s.inference.ScoreSentiment(ctx, message)
		if err != nil {
			s.logger.Warn("widget sentiment scoring failed", zap.Error(err))
			return
		}
		sentiment = score
		sentimentTokens = tokens
	}()
	go func() {
		defer wg.Done()
		label, tokens, err := s.inference.Categorize(ctx, message)
		if err != nil {
			s.logger.Warn("widget categorization failed", zap.Error(err))
			category = domain.CategoryOther
			return
		}
		category = label
		categoryTokens = tokens
	}()
	wg.Wait()

	return sentiment, sentimentTokens, category, categoryTokens
}

func (s *WidgetService) logIntakeInference(ctx context.Context, ticketID, message string, sentiment float64, sentimentTokens int, category string, categoryTokens int) {
	s.writeLog(ctx, &domain.AILogEntry{
		TicketID:   ticketID,
		ActionType: domain.AIActionAnalyzeSentiment,
		Input:      map[string]any{"text": stringPreview(message, 120)},
		Output:     map[string]any{"score": sentiment},
	}, sentimentTokens)
	s.writeLog(ctx, &domain.AILogEntry{
		TicketID:   ticketID,
		ActionType: domain.AIActionCategorize,
		Input:      map[string]any{"text": stringPreview(message, 120)},
		Output:     map[string]any{"category": category},
	}, categoryTokens)
}

func (s *WidgetService) writeLog(ctx context.Context, entry *domain.AILogEntry, tokens int) {
	if tokens > 0 {
		entry.TokensUsed = &tokens
	}
	if err := s.aiLogs.Create(ctx, entry); err != nil {
		s.logger.Warn("ai log write failed",
			zap.String("ticket_id", entry.TicketID), zap.String("action", string(entry.ActionType)), zap.Error(err))
	}
}

// autoAssign routes the ticket to the team's first agent. The assignment
// only sets the assignee; intake tickets stay OPEN until an agent acts.
func (s *WidgetService) autoAssign(ctx context.Context, ticket *domain.Ticket) {
	agents, err := s.agents.ListByTeam(ctx, ticket.TeamID)
	if err != nil {
		s.logger.Warn("auto-assignment lookup failed", zap.String("team_id", ticket.TeamID), zap.Error(err))
		return
	}
	if len(agents) == 0 {
		return
	}

	agent := agents[0]
	ticket.AssignedAgentID = &agent.ID
	ticket.UpdatedAt = time.Now().UTC()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Warn("auto-assignment update failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.Actor{Type: domain.SenderTypeAgent},
		Payload: events.TicketAssignedPayload{
			AssignedAgentID: &agent.ID,
			TeamID:          ticket.TeamID,
		},
	})
}

func validateIntake(input WidgetIntakeInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.TeamID) == "" {
		details["teamId"] = "required"
	}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		details["email"] = "required"
	} else if !strings.Contains(email, "@") {
		details["email"] = "invalid"
	}
	if strings.TrimSpace(input.Message) == "" {
		details["message"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing or invalid widget fields", details)
	}
	return nil
}

func intakeSubject(message string) string {
	runes := []rune(message)
	if len(runes) <= widgetSubjectLimit {
		return message
	}
	return string(runes[:widgetSubjectLimit])
}

func priorityFromSentiment(score float64) domain.TicketPriority {
	switch {
	case score < -0.5:
		return domain.TicketPriorityHigh
	case score < -0.3:
		return domain.TicketPriorityMedium
	case score > 0.3:
		return domain.TicketPriorityLow
	default:
		return domain.TicketPriorityMedium
	}
}
