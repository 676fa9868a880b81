package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"
)

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `
	t.id, t.msg, t.equipment_id, t.priority, t.user_id, t.status,
	t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM comments c WHERE c.ticket_id = t.id)
`

func scanTicket(row interface{ Scan(...interface{}) error }) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.Msg,
		&ticket.EquipmentID,
		&ticket.Priority,
		&ticket.UserID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (msg, equipment_id, priority, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		ticket.Msg,
		ticket.EquipmentID,
		ticket.Priority,
		ticket.UserID,
		ticket.Status,
		now,
		now,
	).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %v", err)
	}
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id = $1`

	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %v", err)
	}
	return ticket, nil
}

// GetAll returns open tickets first, priority before the rest
func (r *ticketRepository) GetAll(ctx context.Context) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets t
		ORDER BY t.status, t.priority DESC, t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %v", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (r *ticketRepository) GetByUser(ctx context.Context, userID int64) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets t
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tickets: %v", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (r *ticketRepository) SetStatus(ctx context.Context, id int64, closed bool) error {
	query := `UPDATE tickets SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, closed, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrTicketNotFound
	}
	return nil
}

func (r *ticketRepository) SetPriority(ctx context.Context, id int64, priority bool) error {
	query := `UPDATE tickets SET priority = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, priority, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update ticket priority: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrTicketNotFound
	}
	return nil
}

func (r *ticketRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (ticket_id, msg, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		comment.TicketID,
		comment.Msg,
		comment.UserID,
		now,
		now,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %v", err)
	}
	comment.CreatedAt = now
	comment.UpdatedAt = now
	return nil
}

func (r *ticketRepository) GetComments(ctx context.Context, ticketID int64) ([]*entity.Comment, error) {
	query := `
		SELECT id, ticket_id, msg, user_id, created_at, updated_at
		FROM comments
		WHERE ticket_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %v", err)
	}
	defer rows.Close()

	var comments []*entity.Comment
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.Msg, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %v", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %v", err)
	}
	return comments, nil
}

func collectTickets(rows *sql.Rows) ([]*entity.Ticket, error) {
	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %v", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %v", err)
	}
	return tickets, nil
}
