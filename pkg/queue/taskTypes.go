package queue

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Queue интерфейс очереди уведомлений
type Queue interface {
	Publish(ctx context.Context, task *Task) error
	Subscribe(ctx context.Context, handler func(*Task) error) error
	Close() error
}

type TaskType string

const (
	TaskTypeSendNotification TaskType = "send_notification"
	TaskTypeEventReminder    TaskType = "event_reminder"
)

// Notification categories carried in task data under "category".
const (
	NotifyNewBooking              = "new_booking"
	NotifyMaintenanceScheduled    = "maintenance_scheduled"
	NotifyBookingCanceled         = "booking_canceled"
	NotifyBookingRescheduled      = "booking_rescheduled"
	NotifyMaintenanceCancellation = "maintenance_cancellation"
	NotifyBookingDeleted          = "booking_deleted"
	NotifyEquipmentOffline        = "equipment_offline"
	NotifyAccessGranted           = "access_granted"
	NotifyEventReminder           = "event_reminder"
	NotifyTicketCreated           = "ticket_created"
	NotifyTicketStatus            = "ticket_status"
	NotifyNewMessage              = "new_message"
)

// Recipient selectors carried in task data under "recipients". The handler
// resolves them to concrete users at delivery time, not at publish time.
const (
	RecipientOwner          = "owner"
	RecipientEquipmentUsers = "equipment_users"
	RecipientAdmins         = "admins"
	RecipientAllUsers       = "all_users"
)

// Task represents a unit of work in the queue
type Task struct {
	ID         string                 `json:"id"`
	Type       TaskType               `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	CreatedAt  time.Time              `json:"created_at"`
	Attempts   int                    `json:"attempts"`
	MaxRetries int                    `json:"max_retries"`
}

// Validate checks if the task is valid
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task ID is required")
	}
	if strings.TrimSpace(string(t.Type)) == "" {
		return fmt.Errorf("task type is required")
	}
	if t.Data == nil {
		t.Data = make(map[string]interface{})
	}
	return nil
}

// GetString returns a string value from task data
func (t *Task) GetString(key string) string {
	if val, ok := t.Data[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt64 returns an integer value from task data. JSON round-trips numbers
// as float64, so both forms are accepted.
func (t *Task) GetInt64(key string) int64 {
	if val, ok := t.Data[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// GetTime returns a time value from task data
func (t *Task) GetTime(key string) time.Time {
	if val, ok := t.Data[key]; ok {
		if str, ok := val.(string); ok {
			if ts, err := time.Parse(time.RFC3339, str); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}
