package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/ai"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// Fixed results returned without invoking inference or writing a log entry.
const (
	EmptySummaryResult = "No messages to summarize."
	EmptyReplyResult   = "Unable to generate a suggestion."
)

// EnrichmentService orchestrates the explicit AI actions and records every
// invocation in the audit log for token/cost accounting.
type EnrichmentService struct {
	tickets   repository.TicketRepository
	messages  repository.MessageRepository
	aiLogs    repository.AILogRepository
	inference ai.Client
	logger    *zap.Logger
}

// EnrichmentDependencies bundles collaborators for the enrichment service.
type EnrichmentDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	AILogRepo   repository.AILogRepository
	Inference   ai.Client
	Logger      *zap.Logger
}

// NewEnrichmentService constructs the service.
func NewEnrichmentService(deps EnrichmentDependencies) *EnrichmentService {
	return &EnrichmentService{
		tickets:   deps.TicketRepo,
		messages:  deps.MessageRepo,
		aiLogs:    deps.AILogRepo,
		inference: deps.Inference,
		logger:    deps.Logger,
	}
}

// Summarize generates a fresh conversation summary, stores it on the
// ticket and appends one SUMMARIZE log entry. Repeat calls overwrite the
// stored summary and log again. An empty conversation returns the fixed
// sentinel without touching inference or the log.
func (s *EnrichmentService) Summarize(ctx context.Context, ticketID string) (string, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return "", apperrors.MapError(err)
	}

	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if len(msgs) == 0 {
		return EmptySummaryResult, nil
	}

	summary, tokens, err := s.inference.SummarizeConversation(ctx, transcript(msgs))
	if err != nil {
		return "", apperrors.NewInferenceError(err)
	}

	s.log(ctx, ticket.ID, domain.AIActionSummarize,
		map[string]any{"message_count": len(msgs)},
		map[string]any{"summary": summary}, tokens)

	ticket.AISummary = &summary
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return "", apperrors.MapError(err)
	}
	return summary, nil
}

// GetOrGenerateSummary returns the stored summary when present, otherwise
// delegates to Summarize. Without new messages this makes repeat calls
// cheap: inference runs only the first time.
func (s *EnrichmentService) GetOrGenerateSummary(ctx context.Context, ticketID string) (string, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return "", apperrors.MapError(err)
	}
	if ticket.AISummary != nil && *ticket.AISummary != "" {
		return *ticket.AISummary, nil
	}
	return s.Summarize(ctx, ticketID)
}

// SuggestReply drafts a reply for agent review. The draft is returned, not
// sent; one SUGGEST_REPLY log entry is appended. An empty conversation
// returns the fixed sentinel without logging.
func (s *EnrichmentService) SuggestReply(ctx context.Context, ticketID string) (string, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EmptyReplyResult, nil
		}
		return "", apperrors.MapError(err)
	}

	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if len(msgs) == 0 {
		return EmptyReplyResult, nil
	}

	reply, tokens, err := s.inference.SuggestReply(ctx, ticket.Subject, transcript(msgs))
	if err != nil {
		return "", apperrors.NewInferenceError(err)
	}

	s.log(ctx, ticket.ID, domain.AIActionSuggestReply,
		nil,
		map[string]any{"reply": reply}, tokens)
	return reply, nil
}

// SuggestPriority maps the ticket onto a priority label. A missing ticket
// resolves to MEDIUM without logging; out-of-set inference responses are
// normalized to MEDIUM by the client.
func (s *EnrichmentService) SuggestPriority(ctx context.Context, ticketID string) (domain.TicketPriority, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TicketPriorityMedium, nil
		}
		return "", apperrors.MapError(err)
	}

	description := ""
	if ticket.Description != nil {
		description = *ticket.Description
	}
	sentiment := 0.0
	if ticket.SentimentScore != nil {
		sentiment = *ticket.SentimentScore
	}

	priority, tokens, err := s.inference.SuggestPriority(ctx, ticket.Subject, description, sentiment)
	if err != nil {
		return "", apperrors.NewInferenceError(err)
	}

	s.log(ctx, ticket.ID, domain.AIActionSuggestPriority,
		map[string]any{"subject": ticket.Subject, "sentiment": ticket.SentimentScore},
		map[string]any{"priority": priority}, tokens)
	return priority, nil
}

// ListLogs returns a ticket's audit entries, newest first.
func (s *EnrichmentService) ListLogs(ctx context.Context, ticketID string) ([]domain.AILogEntry, error) {
	entries, err := s.aiLogs.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// GetUsage aggregates all logged invocations into a token total and a
// per-action request breakdown, optionally scoped to one team's tickets.
// Entries without a token count contribute zero tokens but still count as
// requests.
func (s *EnrichmentService) GetUsage(ctx context.Context, teamID *string) (*domain.AIUsage, error) {
	rows, err := s.aiLogs.ListUsage(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	usage := &domain.AIUsage{
		ByAction: make(map[domain.AIActionType]int),
	}
	for _, row := range rows {
		usage.TotalRequests++
		usage.ByAction[row.ActionType]++
		if row.TokensUsed != nil {
			usage.TotalTokens += *row.TokensUsed
		}
	}
	return usage, nil
}

func (s *EnrichmentService) log(ctx context.Context, ticketID string, action domain.AIActionType, input, output map[string]any, tokens int) {
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

func transcript(msgs []domain.Message) []ai.TranscriptMessage {
	result := make([]ai.TranscriptMessage, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ai.TranscriptMessage{
			SenderType: msg.Sender.Type,
			Body:       msg.Body,
		})
	}
	return result
}
