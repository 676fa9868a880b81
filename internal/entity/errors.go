package entity

import (
	"errors"
	"fmt"
)

var (
	// Validation errors — user-correctable input failures
	ErrEquipmentOffline            = errors.New("equipment is offline")
	ErrInvalidInterval             = errors.New("end time must be later than start")
	ErrRetroactiveSchedule         = errors.New("cannot retroactively schedule an event")
	ErrExpiredEdit                 = errors.New("cannot edit an event that has expired")
	ErrInconsistentMaintenanceLink = errors.New("maintenance flag and service record must be set together")

	// Authorization errors — distinct from validation, checked first
	ErrNotAuthorized = errors.New("not authorized for this instrument")
	ErrExpiredDelete = errors.New("cannot delete an event that has already occurred")

	// Not-found errors
	ErrEventNotFound     = errors.New("event not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrServiceNotFound   = errors.New("service record not found")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)

// ConflictError is returned when a proposed non-maintenance booking overlaps
// existing bookings. The conflicting events are carried for diagnostic
// display, never coerced away.
type ConflictError struct {
	Conflicts []*Event
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlaps with %d existing booking(s)", len(e.Conflicts))
}
