package repository

import (
	"context"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"
)

type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetByEquipment(ctx context.Context, equipmentID int64) ([]*entity.Event, error)
	GetByEquipmentMonth(ctx context.Context, equipmentID int64, year int, month time.Month) ([]*entity.Event, error)

	// SaveWithConflictCheck runs the booking validator and the write in one
	// transaction with the equipment row locked, so concurrent attempts for
	// the same equipment serialize. It returns the conflicting bookings that
	// were force-canceled (maintenance override only).
	SaveWithConflictCheck(ctx context.Context, event *entity.Event, prior *entity.Event, privileged bool) ([]*entity.Event, error)

	Delete(ctx context.Context, id int64) error

	// Expiration operations
	MarkExpired(ctx context.Context, before time.Time) (int64, error)
	GetStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Event, error)

	GetNextBooking(ctx context.Context, equipmentID int64, after time.Time) (*entity.Event, error)
}

type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Equipment, error)
	GetByName(ctx context.Context, name string) (*entity.Equipment, error)
	GetAll(ctx context.Context) ([]*entity.Equipment, error)
	SetStatus(ctx context.Context, id int64, status bool) error
	AddUser(ctx context.Context, equipmentID, userID int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.User, error)
	GetAll(ctx context.Context) ([]*entity.User, error)
	GetSuperusers(ctx context.Context) ([]*entity.User, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id int64) (*entity.Ticket, error)
	GetAll(ctx context.Context) ([]*entity.Ticket, error)
	GetByUser(ctx context.Context, userID int64) ([]*entity.Ticket, error)
	SetStatus(ctx context.Context, id int64, closed bool) error
	SetPriority(ctx context.Context, id int64, priority bool) error
	AddComment(ctx context.Context, comment *entity.Comment) error
	GetComments(ctx context.Context, ticketID int64) ([]*entity.Comment, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id int64) (*entity.Message, error)
	GetAll(ctx context.Context) ([]*entity.Message, error)
	Delete(ctx context.Context, id int64) error
}

type ServiceRepository interface {
	Create(ctx context.Context, record *entity.ServiceRecord) error
	GetByID(ctx context.Context, id int64) (*entity.ServiceRecord, error)
	GetByEquipment(ctx context.Context, equipmentID int64) ([]*entity.ServiceRecord, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
	SetSuccess(ctx context.Context, id int64, success bool) error
}
