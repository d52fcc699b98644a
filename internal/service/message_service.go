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

// MessageService appends conversation messages and drives re-enrichment on
// customer input. Message persistence never depends on inference success.
type MessageService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	aiLogs     repository.AILogRepository
	inference  ai.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	AILogRepo   repository.AILogRepository
	Inference   ai.Client
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		aiLogs:     deps.AILogRepo,
		inference:  deps.Inference,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// AddMessage appends a message to a ticket. Customer messages additionally
// re-score sentiment, categorize an uncategorized ticket, and reopen a
// resolved or closed ticket; all of that degrades gracefully when
// inference fails.
func (s *MessageService) AddMessage(ctx context.Context, ticketID string, sender domain.SenderRef, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	if strings.TrimSpace(sender.ID) == "" {
		return nil, apperrors.NewValidationError("sender_id required", nil)
	}
	if !domain.IsValidSenderType(sender.Type) {
		return nil, apperrors.NewValidationError("invalid sender type", map[string]any{"sender_type": sender.Type})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	msg := &domain.Message{
		TicketID: ticket.ID,
		Sender:   sender,
		Body:     body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID,
		Actor:    senderActor(sender),
		Payload: events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			SenderType:  sender.Type,
			SenderID:    sender.ID,
			BodyPreview: stringPreview(body, 120),
		},
	})

	if sender.Type == domain.SenderTypeCustomer {
		s.enrichOnCustomerMessage(ctx, ticket, body)
	}

	return msg, nil
}

// enrichOnCustomerMessage re-scores the ticket after customer input and
// reopens it when it was resolved or closed. Failures are logged and
// swallowed; the created message is already persisted.
func (s *MessageService) enrichOnCustomerMessage(ctx context.Context, ticket *domain.Ticket, body string) {
	sentiment, category := s.analyze(ctx, ticket, body)

	ticket.SentimentScore = &sentiment
	ticket.Category = &category

	oldStatus := ticket.Status
	if ticket.Status.IsTerminal() {
		ticket.ApplyStatus(domain.TicketStatusOpen, time.Now())
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Warn("ticket enrichment update failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketEnriched,
		TicketID: ticket.ID,
		Actor:    events.Actor{Type: domain.SenderTypeCustomer, CustomerID: &ticket.CustomerID},
		Payload: events.TicketEnrichedPayload{
			SentimentScore: ticket.SentimentScore,
			Category:       ticket.Category,
		},
	})
	if ticket.Status != oldStatus {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    events.Actor{Type: domain.SenderTypeCustomer, CustomerID: &ticket.CustomerID},
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
				Reason:    "customer_reply",
			},
		})
	}
}

// analyze runs sentiment scoring and categorization concurrently. Each leg
// resolves its own failure to the documented fallback before the join, so
// one failing call never aborts the other.
func (s *MessageService) analyze(ctx context.Context, ticket *domain.Ticket, body string) (float64, string) {
	var (
		wg        sync.WaitGroup
		sentiment float64
		category  string
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		score, tokens, err := s.inference.ScoreSentiment(ctx, body)
		if err != nil {
			s.logger.Warn("sentiment scoring failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			sentiment = 0
			return
		}
		sentiment = score
		s.logInference(ctx, ticket.ID, domain.AIActionAnalyzeSentiment,
			map[string]any{"length": len(body)},
			map[string]any{"score": score}, tokens)
	}()

	if ticket.Category != nil && *ticket.Category != "" {
		category = *ticket.Category
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			label, tokens, err := s.inference.Categorize(ctx, ticket.Subject+"\n\n"+body)
			if err != nil {
				s.logger.Warn("categorization failed",
					zap.String("ticket_id", ticket.ID), zap.Error(err))
				category = domain.CategoryOther
				return
			}
			category = label
			s.logInference(ctx, ticket.ID, domain.AIActionCategorize,
				map[string]any{"length": len(body)},
				map[string]any{"category": label}, tokens)
		}()
	}

	wg.Wait()
	return sentiment, category
}

// logInference records an audit entry, best-effort.
func (s *MessageService) logInference(ctx context.Context, ticketID string, action domain.AIActionType, input, output map[string]any, tokens int) {
	if s.aiLogs == nil {
		return
	}
	entry := &domain.AILogEntry{
		TicketID:   ticketID,
		ActionType: action,
		Input:      input,
		Output:     output,
	}
	if tokens > 0 {
		entry.TokensUsed = &tokens
	}
	if err := s.aiLogs.Create(ctx, entry); err != nil {
		s.logger.Warn("ai log write failed",
			zap.String("ticket_id", ticketID), zap.String("action", string(action)), zap.Error(err))
	}
}

// ListMessages returns a ticket's conversation in creation order.
func (s *MessageService) ListMessages(ctx context.Context, ticketID string) ([]domain.Message, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// DeleteMessage removes a single message (administrative).
func (s *MessageService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("message", map[string]any{"message_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func senderActor(sender domain.SenderRef) events.Actor {
	if sender.Type == domain.SenderTypeAgent {
		return agentActor(sender.ID)
	}
	return customerActor(sender.ID)
}
