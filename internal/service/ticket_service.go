package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/events"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// TicketService owns the ticket lifecycle: status, priority and assignment
// together with their derived side effects.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	customers  repository.CustomerRepository
	agents     repository.AgentRepository
	teams      repository.TeamRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.MessageRepository
	CustomerRepo repository.CustomerRepository
	AgentRepo    repository.AgentRepository
	TeamRepo     repository.TeamRepository
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID  string
	TeamID      string
	Subject     string
	Description *string
	Priority    domain.TicketPriority
	Category    *string
}

// TicketListFilter describes dashboard listing filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	AssigneeID *string
	CustomerID *string
	TeamID     *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// DashboardStats aggregates headline ticket numbers.
type DashboardStats struct {
	OpenTickets        int
	InProgressTickets  int
	WaitingTickets     int
	ResolvedTickets    int
	TotalTickets       int
	ResolutionRate     int
	AvgResponseMinutes int
}

// SentimentBreakdown buckets tickets by sentiment sign.
type SentimentBreakdown struct {
	Positive int
	Neutral  int
	Negative int
}

// VolumePoint is one day of ticket creation volume.
type VolumePoint struct {
	Date  string
	Count int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		customers:  deps.CustomerRepo,
		agents:     deps.AgentRepo,
		teams:      deps.TeamRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a new ticket for a customer.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, apperrors.NewValidationError("customer_id required", nil)
	}
	if input.Priority != "" && !domain.IsValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.teams.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": input.TeamID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		TeamID:      input.TeamID,
		CustomerID:  customer.ID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: input.Description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    customerActor(customer.ID),
		Payload: events.TicketCreatedPayload{
			TeamID:     ticket.TeamID,
			CustomerID: ticket.CustomerID,
			Priority:   ticket.Priority,
			Subject:    ticket.Subject,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket together with its ordered conversation.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.Message, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, msgs, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		TeamID:     filter.TeamID,
		CustomerID: filter.CustomerID,
		AssigneeID: filter.AssigneeID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateStatus moves the ticket to newStatus. Any status is reachable from
// any other; resolvedAt follows the status (set when resolved/closed,
// cleared otherwise).
func (s *TicketService) UpdateStatus(ctx context.Context, agent *domain.Agent, ticketID string, newStatus domain.TicketStatus, reason string) (*domain.Ticket, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	ticket.ApplyStatus(newStatus, time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    agentActorOrSystem(agent),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Reason:    reason,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority only; no side effects.
func (s *TicketService) UpdatePriority(ctx context.Context, agent *domain.Agent, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !domain.IsValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Actor:    agentActorOrSystem(agent),
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// Assign sets or clears the assignee. Assigning a non-nil agent forces the
// ticket into IN_PROGRESS through the same status rule as UpdateStatus, so
// a resolved ticket picked back up loses its resolvedAt stamp.
func (s *TicketService) Assign(ctx context.Context, actor *domain.Agent, ticketID string, agentID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if agentID != nil {
		if _, err := s.agents.GetByID(ctx, *agentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": *agentID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	oldStatus := ticket.Status
	ticket.AssignedAgentID = agentID
	if agentID != nil {
		ticket.ApplyStatus(domain.TicketStatusInProgress, time.Now())
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    agentActorOrSystem(actor),
		Payload: events.TicketAssignedPayload{
			AssignedAgentID: agentID,
			TeamID:          ticket.TeamID,
		},
	})
	if ticket.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    agentActorOrSystem(actor),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
				Reason:    "assignment",
			},
		})
	}
	return ticket, nil
}

// Delete hard-deletes a ticket; messages and AI log entries cascade.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetDashboardStats summarizes ticket volume and handling pace.
func (s *TicketService) GetDashboardStats(ctx context.Context, teamID *string) (*DashboardStats, error) {
	counts, err := s.tickets.CountByStatus(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	closedOrResolved := counts[domain.TicketStatusResolved] + counts[domain.TicketStatusClosed]
	resolutionRate := 0
	if total > 0 {
		resolutionRate = int(float64(closedOrResolved)/float64(total)*100 + 0.5)
	}

	avgSeconds, err := s.messages.AverageFirstResponseSeconds(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &DashboardStats{
		OpenTickets:        counts[domain.TicketStatusOpen],
		InProgressTickets:  counts[domain.TicketStatusInProgress],
		WaitingTickets:     counts[domain.TicketStatusWaiting],
		ResolvedTickets:    counts[domain.TicketStatusResolved],
		TotalTickets:       total,
		ResolutionRate:     resolutionRate,
		AvgResponseMinutes: int(avgSeconds/60 + 0.5),
	}, nil
}

// GetSentimentBreakdown buckets tickets into positive/neutral/negative.
// Tickets without a score count as neutral.
func (s *TicketService) GetSentimentBreakdown(ctx context.Context, teamID *string) (*SentimentBreakdown, error) {
	scores, err := s.tickets.SentimentScores(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	breakdown := &SentimentBreakdown{}
	for _, score := range scores {
		switch {
		case score == nil:
			breakdown.Neutral++
		case *score > 0:
			breakdown.Positive++
		case *score < 0:
			breakdown.Negative++
		default:
			breakdown.Neutral++
		}
	}
	return breakdown, nil
}

// GetVolumeSeries returns one point per day for the trailing window,
// including zero-count days.
func (s *TicketService) GetVolumeSeries(ctx context.Context, teamID *string, days int) ([]VolumePoint, error) {
	if days <= 0 {
		days = 7
	}
	counts, err := s.tickets.CountCreatedPerDay(ctx, teamID, days)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	points := make([]VolumePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, VolumePoint{Date: date, Count: counts[date]})
	}
	return points, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func customerActor(customerID string) events.Actor {
	return events.Actor{
		Type:       domain.SenderTypeCustomer,
		CustomerID: &customerID,
	}
}

func agentActor(agentID string) events.Actor {
	return events.Actor{
		Type:    domain.SenderTypeAgent,
		AgentID: &agentID,
	}
}

func agentActorOrSystem(agent *domain.Agent) events.Actor {
	if agent == nil {
		return events.Actor{Type: domain.SenderTypeAgent}
	}
	return agentActor(agent.ID)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
