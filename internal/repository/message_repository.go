package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// MessageRepository manages ticket conversation messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
	Delete(ctx context.Context, id string) error
	AverageFirstResponseSeconds(ctx context.Context, teamID *string) (float64, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (ticket_id, sender_type, sender_id, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.Sender.Type,
		msg.Sender.ID,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	const query = `
        SELECT id, ticket_id, sender_type, sender_id, body, created_at
        FROM messages WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.Sender.Type,
			&msg.Sender.ID,
			&msg.Body,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AverageFirstResponseSeconds computes the mean delay between the first
// customer message and the first agent message across tickets.
func (r *messageRepository) AverageFirstResponseSeconds(ctx context.Context, teamID *string) (float64, error) {
	query := `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (a.first_agent - c.first_customer))), 0)
        FROM (SELECT m.ticket_id, MIN(m.created_at) AS first_customer
              FROM messages m WHERE m.sender_type='CUSTOMER' GROUP BY m.ticket_id) c
        JOIN (SELECT m.ticket_id, MIN(m.created_at) AS first_agent
              FROM messages m WHERE m.sender_type='AGENT' GROUP BY m.ticket_id) a
          ON a.ticket_id = c.ticket_id
        JOIN tickets t ON t.id = c.ticket_id
        WHERE a.first_agent > c.first_customer`
	args := []any{}
	if teamID != nil {
		args = append(args, *teamID)
		query += ` AND t.team_id=$1`
	}

	var avg float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}
