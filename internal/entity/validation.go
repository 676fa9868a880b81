package entity

import "time"

// SaveEventType classifies a successful booking write for notification
// template selection. Classification is total: every save maps to exactly
// one type, first match wins.
type SaveEventType string

const (
	SaveNewBooking           SaveEventType = "new_booking"
	SaveMaintenanceScheduled SaveEventType = "maintenance_scheduled"
	SaveBookingCanceled      SaveEventType = "booking_canceled"
	SaveBookingRescheduled   SaveEventType = "booking_rescheduled"
	SaveTrivialChange        SaveEventType = "trivial_change"
)

// FindOverlaps returns the events whose closed intervals intersect the
// proposed one. Only active/hold, non-expired events participate; excludeID
// removes the booking's own row on edit (0 for creation).
func FindOverlaps(proposed *Event, existing []*Event, excludeID int64) []*Event {
	var overlaps []*Event
	for _, ev := range existing {
		if excludeID != 0 && ev.ID == excludeID {
			continue
		}
		if ev.Expired {
			continue
		}
		if ev.Status != EventStatusActive && ev.Status != EventStatusHold {
			continue
		}
		if proposed.Overlaps(ev) {
			overlaps = append(overlaps, ev)
		}
	}
	return overlaps
}

// ValidateEvent decides whether the proposed booking is admissible against
// the existing bookings for the same equipment.
//
// prior is the stored state on edit and nil on creation — prior state is an
// explicit parameter, never implicit object state. existing must already be
// restricted to the same equipment.
//
// On success the returned slice holds the conflicting bookings that the
// caller must force-cancel: it is non-empty only for maintenance events,
// whose overlaps are resolved by cancellation instead of rejection.
func ValidateEvent(proposed, prior *Event, equipment *Equipment, existing []*Event, now time.Time, privileged bool) ([]*Event, error) {
	if !equipment.Status {
		return nil, ErrEquipmentOffline
	}
	if !proposed.EndTime.After(proposed.StartTime) {
		return nil, ErrInvalidInterval
	}
	if prior == nil && proposed.StartTime.Before(now) {
		return nil, ErrRetroactiveSchedule
	}
	if prior != nil && prior.EndTime.Before(now) && !privileged {
		return nil, ErrExpiredEdit
	}
	if proposed.Maintenance != (proposed.ServiceID != nil) {
		return nil, ErrInconsistentMaintenanceLink
	}

	var excludeID int64
	if prior != nil {
		excludeID = prior.ID
	}
	overlaps := FindOverlaps(proposed, existing, excludeID)
	if len(overlaps) == 0 {
		return nil, nil
	}
	if !proposed.Maintenance {
		return nil, &ConflictError{Conflicts: overlaps}
	}
	return overlaps, nil
}

// ClassifySave maps a successful save to its notification category.
// Evaluated in fixed priority order; do not reorder the cases.
func ClassifySave(proposed, prior *Event, privileged bool) SaveEventType {
	switch {
	case prior == nil && !proposed.Maintenance:
		return SaveNewBooking
	case proposed.Maintenance && privileged:
		return SaveMaintenanceScheduled
	case prior != nil && prior.Status != EventStatusCanceled && proposed.Status == EventStatusCanceled:
		return SaveBookingCanceled
	case prior != nil && (!prior.StartTime.Equal(proposed.StartTime) || !prior.EndTime.Equal(proposed.EndTime)):
		return SaveBookingRescheduled
	default:
		return SaveTrivialChange
	}
}
