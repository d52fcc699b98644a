package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// UsageRow is the projection the usage aggregation works over.
type UsageRow struct {
	ActionType domain.AIActionType
	TokensUsed *int
}

// AILogRepository stores the append-only inference audit trail.
type AILogRepository interface {
	Create(ctx context.Context, entry *domain.AILogEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AILogEntry, error)
	ListUsage(ctx context.Context, teamID *string) ([]UsageRow, error)
}

type aiLogRepository struct {
	pool *pgxpool.Pool
}

// NewAILogRepository builds repository.
func NewAILogRepository(pool *pgxpool.Pool) AILogRepository {
	return &aiLogRepository{pool: pool}
}

func (r *aiLogRepository) Create(ctx context.Context, entry *domain.AILogEntry) error {
	const query = `
        INSERT INTO ai_logs (ticket_id, action_type, input, output, tokens_used)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.ActionType,
		entry.Input,
		entry.Output,
		entry.TokensUsed,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *aiLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AILogEntry, error) {
	const query = `
        SELECT id, ticket_id, action_type, input, output, tokens_used, created_at
        FROM ai_logs WHERE ticket_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AILogEntry
	for rows.Next() {
		var entry domain.AILogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.ActionType,
			&entry.Input,
			&entry.Output,
			&entry.TokensUsed,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *aiLogRepository) ListUsage(ctx context.Context, teamID *string) ([]UsageRow, error) {
	query := `SELECT l.action_type, l.tokens_used FROM ai_logs l`
	args := []any{}
	if teamID != nil {
		args = append(args, *teamID)
		query += ` JOIN tickets t ON t.id = l.ticket_id WHERE t.team_id=$1`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UsageRow
	for rows.Next() {
		var row UsageRow
		if err := rows.Scan(&row.ActionType, &row.TokensUsed); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
