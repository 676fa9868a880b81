package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func mkEvent(id int64, start, end time.Time, status EventStatus) *Event {
	return &Event{
		ID:        id,
		UserID:    1,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func onlineEquipment() *Equipment {
	return &Equipment{ID: 1, Name: "SEM", Status: true}
}

// TestValidateEvent_Conflicts проверяет разрешение пересечений интервалов
func TestValidateEvent_Conflicts(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	existing := []*Event{
		mkEvent(10, day(15, 10), day(15, 14), EventStatusActive),
	}

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantError bool
	}{
		{
			name:      "fully inside existing booking",
			start:     day(15, 11),
			end:       day(15, 13),
			wantError: true,
		},
		{
			name:      "straddles existing booking",
			start:     day(15, 9),
			end:       day(15, 15),
			wantError: true,
		},
		{
			name:      "touching end to start counts as overlap",
			start:     day(15, 14),
			end:       day(15, 16),
			wantError: true,
		},
		{
			name:      "touching start to end counts as overlap",
			start:     day(15, 8),
			end:       day(15, 10),
			wantError: true,
		},
		{
			name:      "disjoint later interval",
			start:     day(15, 15),
			end:       day(15, 17),
			wantError: false,
		},
		{
			name:      "disjoint earlier interval",
			start:     day(15, 7),
			end:       day(15, 9),
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposed := mkEvent(0, tt.start, tt.end, EventStatusActive)

			canceled, err := ValidateEvent(proposed, nil, onlineEquipment(), existing, testNow, false)

			if tt.wantError {
				var conflict *ConflictError
				require.Error(t, err)
				require.True(t, errors.As(err, &conflict))
				assert.Len(t, conflict.Conflicts, 1)
				assert.Nil(t, canceled)
			} else {
				require.NoError(t, err)
				assert.Empty(t, canceled)
			}
		})
	}
}

// TestValidateEvent_MaintenanceOverride: обслуживание вытесняет чужие брони
func TestValidateEvent_MaintenanceOverride(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	existing := []*Event{
		mkEvent(10, day(15, 10), day(15, 14), EventStatusActive),
		mkEvent(11, day(15, 15), day(15, 18), EventStatusHold),
		mkEvent(12, day(15, 19), day(15, 20), EventStatusCanceled),
	}

	serviceID := int64(7)
	proposed := mkEvent(0, day(15, 9), day(15, 21), EventStatusActive)
	proposed.Maintenance = true
	proposed.ServiceID = &serviceID

	canceled, err := ValidateEvent(proposed, nil, onlineEquipment(), existing, testNow, true)

	require.NoError(t, err)
	// Отмененная бронь не конфликтует и не вытесняется повторно
	require.Len(t, canceled, 2)
	assert.Equal(t, int64(10), canceled[0].ID)
	assert.Equal(t, int64(11), canceled[1].ID)
}

func TestValidateEvent_Rejections(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	offline := &Equipment{ID: 1, Name: "SEM", Status: false}

	serviceID := int64(3)

	tests := []struct {
		name       string
		proposed   *Event
		prior      *Event
		equipment  *Equipment
		privileged bool
		wantErr    error
	}{
		{
			name:      "offline equipment rejected before anything else",
			proposed:  mkEvent(0, day(1, 9), day(1, 8), EventStatusActive), // interval is also invalid
			equipment: offline,
			wantErr:   ErrEquipmentOffline,
		},
		{
			name:      "end not after start",
			proposed:  mkEvent(0, day(15, 10), day(15, 10), EventStatusActive),
			equipment: onlineEquipment(),
			wantErr:   ErrInvalidInterval,
		},
		{
			name:      "new booking in the past",
			proposed:  mkEvent(0, day(1, 9), day(1, 10), EventStatusActive),
			equipment: onlineEquipment(),
			wantErr:   ErrRetroactiveSchedule,
		},
		{
			name:      "editing expired booking without privilege",
			proposed:  mkEvent(5, day(20, 9), day(20, 10), EventStatusActive),
			prior:     mkEvent(5, day(1, 9), day(1, 10), EventStatusActive),
			equipment: onlineEquipment(),
			wantErr:   ErrExpiredEdit,
		},
		{
			name: "maintenance flag without service record",
			proposed: func() *Event {
				ev := mkEvent(0, day(20, 9), day(20, 10), EventStatusActive)
				ev.Maintenance = true
				return ev
			}(),
			equipment: onlineEquipment(),
			wantErr:   ErrInconsistentMaintenanceLink,
		},
		{
			name: "service record without maintenance flag",
			proposed: func() *Event {
				ev := mkEvent(0, day(20, 9), day(20, 10), EventStatusActive)
				ev.ServiceID = &serviceID
				return ev
			}(),
			equipment: onlineEquipment(),
			wantErr:   ErrInconsistentMaintenanceLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateEvent(tt.proposed, tt.prior, tt.equipment, nil, testNow, tt.privileged)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Суперпользователь может править истекшую бронь
func TestValidateEvent_PrivilegedExpiredEdit(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	prior := mkEvent(5, day(1, 9), day(1, 10), EventStatusActive)
	proposed := mkEvent(5, day(20, 9), day(20, 10), EventStatusActive)

	_, err := ValidateEvent(proposed, prior, onlineEquipment(), nil, testNow, true)
	require.NoError(t, err)
}

// Перенос брони не должен конфликтовать с самой собой
func TestValidateEvent_SelfExclusionOnEdit(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	prior := mkEvent(5, day(15, 10), day(15, 14), EventStatusActive)
	existing := []*Event{prior}

	proposed := mkEvent(5, day(15, 11), day(15, 15), EventStatusActive)

	canceled, err := ValidateEvent(proposed, prior, onlineEquipment(), existing, testNow, false)
	require.NoError(t, err)
	assert.Empty(t, canceled)
}

func TestFindOverlaps_SkipsDeadBookings(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	expired := mkEvent(2, day(15, 10), day(15, 12), EventStatusActive)
	expired.Expired = true
	existing := []*Event{
		mkEvent(1, day(15, 10), day(15, 12), EventStatusCanceled),
		expired,
	}

	proposed := mkEvent(0, day(15, 11), day(15, 13), EventStatusActive)
	assert.Empty(t, FindOverlaps(proposed, existing, 0))
}

// TestClassifySave проверяет порядок приоритетов классификации
func TestClassifySave(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
	}
	serviceID := int64(9)

	base := func() *Event {
		return mkEvent(5, day(20, 9), day(20, 12), EventStatusActive)
	}

	tests := []struct {
		name       string
		proposed   *Event
		prior      *Event
		privileged bool
		want       SaveEventType
	}{
		{
			name:     "creation is a new booking",
			proposed: base(),
			want:     SaveNewBooking,
		},
		{
			name: "maintenance creation by superuser",
			proposed: func() *Event {
				ev := base()
				ev.Maintenance = true
				ev.ServiceID = &serviceID
				return ev
			}(),
			privileged: true,
			want:       SaveMaintenanceScheduled,
		},
		{
			name: "cancellation beats reschedule",
			proposed: func() *Event {
				ev := mkEvent(5, day(21, 9), day(21, 12), EventStatusCanceled)
				return ev
			}(),
			prior: base(),
			want:  SaveBookingCanceled,
		},
		{
			name:     "moved times are a reschedule",
			proposed: mkEvent(5, day(21, 9), day(21, 12), EventStatusActive),
			prior:    base(),
			want:     SaveBookingRescheduled,
		},
		{
			name: "notes change only is trivial",
			proposed: func() *Event {
				ev := base()
				ev.Notes = "new notes"
				return ev
			}(),
			prior: base(),
			want:  SaveTrivialChange,
		},
		{
			name:     "unchanged booking is trivial",
			proposed: base(),
			prior:    base(),
			want:     SaveTrivialChange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySave(tt.proposed, tt.prior, tt.privileged))
		})
	}
}
