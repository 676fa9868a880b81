package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	query := `
		INSERT INTO messages (msg, user_id, critical, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		message.Msg,
		message.UserID,
		message.Critical,
		now,
		now,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %v", err)
	}
	message.CreatedAt = now
	message.UpdatedAt = now
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*entity.Message, error) {
	query := `SELECT id, msg, user_id, critical, created_at, updated_at FROM messages WHERE id = $1`

	var m entity.Message
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Msg, &m.UserID, &m.Critical, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %v", err)
	}
	return &m, nil
}

func (r *messageRepository) GetAll(ctx context.Context) ([]*entity.Message, error) {
	query := `SELECT id, msg, user_id, critical, created_at, updated_at FROM messages ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %v", err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.Msg, &m.UserID, &m.Critical, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %v", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %v", err)
	}
	return messages, nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM messages WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrMessageNotFound
	}
	return nil
}
