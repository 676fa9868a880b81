package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/bookit/internal/calendar"
	"github.com/ds124wfegd/bookit/internal/entity"
)

// EventService определяет интерфейс для операций с бронированиями
type EventService interface {
	// Основные операции
	CreateEvent(ctx context.Context, actorID int64, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	UpdateEvent(ctx context.Context, actorID, id int64, req *UpdateEventRequest) (*entity.Event, error)
	CancelEvent(ctx context.Context, actorID, id int64) error
	DeleteEvent(ctx context.Context, actorID, id int64) error

	// Календарь и лента
	GetMonthGrid(ctx context.Context, equipmentID int64, year int, month time.Month) (*calendar.MonthGrid, error)
	GetFeed(ctx context.Context, equipmentName string) (*FeedResponse, error)

	// Фоновые операции
	ExpireEvents(ctx context.Context) (int64, error)
	SendMorningReminders(ctx context.Context) (int, error)
}

type EquipmentService interface {
	GetAll(ctx context.Context) ([]*entity.Equipment, error)
	GetByID(ctx context.Context, id int64) (*entity.Equipment, error)
	NextBooking(ctx context.Context, equipmentID int64) (*entity.Event, error)
	RequestAccess(ctx context.Context, actorID, equipmentID int64) error
	GrantAccess(ctx context.Context, actorID, equipmentID, userID int64) error
	SetStatus(ctx context.Context, actorID, equipmentID int64, online bool) error
}

type TicketService interface {
	CreateTicket(ctx context.Context, actorID int64, req *CreateTicketRequest) (*entity.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*TicketDetails, error)
	GetTickets(ctx context.Context, actorID int64) ([]*entity.Ticket, error)
	SetTicketStatus(ctx context.Context, actorID, id int64, closed bool) error
	SetTicketPriority(ctx context.Context, actorID, id int64, priority bool) error
	AddComment(ctx context.Context, actorID, ticketID int64, msg string) (*entity.Comment, error)
}

type MessageService interface {
	PostMessage(ctx context.Context, actorID int64, req *PostMessageRequest) (*entity.Message, error)
	GetAllMessages(ctx context.Context) ([]*entity.Message, error)
	DeleteMessage(ctx context.Context, actorID, id int64) error
}

// MaintenanceService планирует обслуживание: запись о работе плюс
// блокирующая бронь с вытеснением конфликтов.
type MaintenanceService interface {
	ScheduleMaintenance(ctx context.Context, actorID int64, req *ScheduleMaintenanceRequest) (*entity.ServiceRecord, *entity.Event, error)
	GetEquipmentServices(ctx context.Context, equipmentID int64) ([]*entity.ServiceRecord, error)
	CompleteService(ctx context.Context, actorID, serviceID int64, success bool) error
}

type UserService interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
}

// CreateEventRequest представляет данные для создания брони
type CreateEventRequest struct {
	EquipmentID int64     `json:"equipment_id" binding:"required"`
	UserID      int64     `json:"user_id,omitempty"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Status      string    `json:"status,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Disassemble bool      `json:"disassemble,omitempty"`
}

// UpdateEventRequest представляет данные для изменения брони
type UpdateEventRequest struct {
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Disassemble *bool      `json:"disassemble,omitempty"`
}

type CreateTicketRequest struct {
	EquipmentID int64  `json:"equipment_id" binding:"required"`
	Msg         string `json:"msg" binding:"required"`
	Priority    bool   `json:"priority,omitempty"`
}

type PostMessageRequest struct {
	Msg      string `json:"msg" binding:"required"`
	Critical bool   `json:"critical,omitempty"`
}

type ScheduleMaintenanceRequest struct {
	EquipmentID int64     `json:"equipment_id" binding:"required"`
	Job         string    `json:"job" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Disassemble bool      `json:"disassemble,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type RegisterUserRequest struct {
	Username   string `json:"username" binding:"required,min=2,max=150"`
	Email      string `json:"email" binding:"required,email"`
	TelegramID string `json:"telegram_id,omitempty" binding:"max=100"`
	Superuser  bool   `json:"superuser,omitempty"`
}

// TicketDetails представляет тикет вместе с комментариями
type TicketDetails struct {
	Ticket   *entity.Ticket    `json:"ticket"`
	Comments []*entity.Comment `json:"comments"`
}

// FeedEntry повторяет формат fullcalendar: метки времени в миллисекундах
type FeedEntry struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	Expired bool   `json:"expired"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

type FeedResponse struct {
	Success int          `json:"success"`
	Result  []*FeedEntry `json:"result"`
}

// TaskPublisher интерфейс для публикации задач в очередь
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

// Task представляет задачу для очереди
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

// Константы типов задач
const (
	TaskTypeSendNotification = "send_notification"
	TaskTypeEventReminder    = "event_reminder"
)

// Категории уведомлений
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

// Селекторы получателей, разворачиваются обработчиком очереди
const (
	RecipientOwner          = "owner"
	RecipientEquipmentUsers = "equipment_users"
	RecipientAdmins         = "admins"
	RecipientAllUsers       = "all_users"
)
