package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps_Symmetry(t *testing.T) {
	day := func(h int) time.Time {
		return time.Date(2025, time.March, 15, h, 0, 0, 0, time.UTC)
	}

	a := &Event{StartTime: day(10), EndTime: day(14)}
	b := &Event{StartTime: day(13), EndTime: day(16)}
	c := &Event{StartTime: day(15), EndTime: day(18)}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))

	// Граничный случай: конец одного равен началу другого
	touching := &Event{StartTime: day(14), EndTime: day(15)}
	assert.True(t, a.Overlaps(touching))
	assert.True(t, touching.Overlaps(a))
}

func TestElapsed_Rounding(t *testing.T) {
	start := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		duration time.Duration
		want     float64
	}{
		{"whole hours", 3 * time.Hour, 3.0},
		{"half hour", 90 * time.Minute, 1.5},
		{"rounded to two decimals", 100 * time.Minute, 1.67},
		{"ten minutes", 10 * time.Minute, 0.17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &Event{StartTime: start, EndTime: start.Add(tt.duration)}
			assert.InDelta(t, tt.want, ev.Elapsed(), 0.0001)
		})
	}
}

func TestTimestamps_EpochMillis(t *testing.T) {
	start := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	ev := &Event{StartTime: start, EndTime: start.Add(2 * time.Hour)}

	assert.Equal(t, start.UnixMilli(), ev.StartTimestamp())
	assert.Equal(t, start.Add(2*time.Hour).UnixMilli(), ev.EndTimestamp())
	assert.Equal(t, int64(2*60*60*1000), ev.EndTimestamp()-ev.StartTimestamp())
}

func TestUpcoming(t *testing.T) {
	ev := &Event{Status: EventStatusActive}
	assert.True(t, ev.Upcoming())

	ev.Expired = true
	assert.False(t, ev.Upcoming())

	ev = &Event{Status: EventStatusCanceled}
	assert.False(t, ev.Upcoming())
}

func TestUserIsPrivileged(t *testing.T) {
	assert.False(t, (&User{}).IsPrivileged())
	assert.True(t, (&User{Superuser: true}).IsPrivileged())

	var nobody *User
	assert.False(t, nobody.IsPrivileged())
}

func TestEquipmentIsAuthorized(t *testing.T) {
	eq := &Equipment{UserIDs: []int64{3, 5}}

	assert.True(t, eq.IsAuthorized(3))
	assert.False(t, eq.IsAuthorized(4))
}
