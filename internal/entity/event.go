package entity

import (
	"fmt"
	"math"
	"time"
)

type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusHold     EventStatus = "hold"
	EventStatusCanceled EventStatus = "canceled"
)

// Event is a reserved time interval on a piece of equipment. A maintenance
// event must reference a service record and vice versa.
type Event struct {
	ID           int64       `json:"id" db:"id"`
	UserID       int64       `json:"user_id" db:"user_id"`
	EquipmentID  int64       `json:"equipment_id" db:"equipment_id"`
	StartTime    time.Time   `json:"start_time" db:"start_time"`
	EndTime      time.Time   `json:"end_time" db:"end_time"`
	ElapsedHours float64     `json:"elapsed_hours" db:"elapsed_hours"`
	Status       EventStatus `json:"status" db:"status"`
	Notes        string      `json:"notes,omitempty" db:"notes"`
	Disassemble  bool        `json:"disassemble" db:"disassemble"`
	Maintenance  bool        `json:"maintenance" db:"maintenance"`
	Expired      bool        `json:"expired" db:"expired"`
	ServiceID    *int64      `json:"service_id,omitempty" db:"service_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// Overlaps reports whether the two closed intervals intersect. Touching
// endpoints count as overlapping.
func (e *Event) Overlaps(o *Event) bool {
	return !e.EndTime.Before(o.StartTime) && !e.StartTime.After(o.EndTime)
}

// Upcoming reports whether the event still occupies a future slot.
func (e *Event) Upcoming() bool {
	return !e.Expired && e.Status == EventStatusActive
}

// Elapsed returns the booked duration in hours, rounded to two decimals.
func (e *Event) Elapsed() float64 {
	return math.Round(e.EndTime.Sub(e.StartTime).Hours()*100) / 100
}

// StartTimestamp returns the start time in epoch milliseconds for the feed.
func (e *Event) StartTimestamp() int64 {
	return e.StartTime.UnixMilli()
}

// EndTimestamp returns the end time in epoch milliseconds for the feed.
func (e *Event) EndTimestamp() int64 {
	return e.EndTime.UnixMilli()
}

func (e *Event) AdminURL() string {
	return fmt.Sprintf("/admin/events/%d", e.ID)
}
