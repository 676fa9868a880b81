package entity

import (
	"fmt"
	"time"
)

// Message is a board message visible to all users.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	Msg       string    `json:"msg" db:"msg"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Critical  bool      `json:"critical" db:"critical"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (m *Message) BoardURL() string {
	return fmt.Sprintf("/messages/#msg-%d", m.ID)
}
