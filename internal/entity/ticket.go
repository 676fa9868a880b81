package entity

import (
	"fmt"
	"time"
)

// Ticket is a maintenance request filed against a piece of equipment.
// Status is the closed flag.
type Ticket struct {
	ID          int64     `json:"id" db:"id"`
	Msg         string    `json:"msg" db:"msg"`
	EquipmentID int64     `json:"equipment_id" db:"equipment_id"`
	Priority    bool      `json:"priority" db:"priority"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Status      bool      `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	CommentCount int `json:"comment_count" db:"-"`
}

func (t *Ticket) AdminURL() string {
	return fmt.Sprintf("/admin/tickets/%d", t.ID)
}

type Comment struct {
	ID        int64     `json:"id" db:"id"`
	TicketID  int64     `json:"ticket_id" db:"ticket_id"`
	Msg       string    `json:"msg" db:"msg"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
