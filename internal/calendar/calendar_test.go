package calendar

import (
	"testing"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// now = 10 марта 2025, понедельник
var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func ev(id, userID int64, day, hour int, status entity.EventStatus) *entity.Event {
	return &entity.Event{
		ID:        id,
		UserID:    userID,
		StartTime: time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.March, day, hour+2, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func TestBuildMonth_GroupsByDay(t *testing.T) {
	owners := map[int64]string{1: "alice", 2: "bob"}
	events := []*entity.Event{
		ev(1, 1, 15, 10, entity.EventStatusActive),
		ev(2, 2, 15, 14, entity.EventStatusActive),
		ev(3, 1, 20, 9, entity.EventStatusHold),
	}

	grid := BuildMonth(events, owners, 2025, time.March, true, testNow)

	require.Len(t, grid.Days, 31)
	assert.Len(t, grid.Days[14].Entries, 2) // 15 марта
	assert.Len(t, grid.Days[19].Entries, 1) // 20 марта
	assert.Empty(t, grid.Days[0].Entries)

	assert.Equal(t, "alice - 10:00", grid.Days[14].Entries[0].Label)
	assert.Equal(t, 2025, grid.Year)
	assert.Equal(t, time.March, grid.Month)
}

// TestBuildMonth_Classes: приоритет expired > maintenance > hold > active
func TestBuildMonth_Classes(t *testing.T) {
	owners := map[int64]string{1: "alice"}

	canceled := ev(4, 1, 18, 9, entity.EventStatusCanceled)
	expired := ev(5, 1, 18, 12, entity.EventStatusActive)
	expired.Expired = true
	maintenance := ev(6, 1, 18, 15, entity.EventStatusActive)
	maintenance.Maintenance = true
	pastMaintenance := ev(7, 1, 3, 10, entity.EventStatusActive)
	pastMaintenance.Maintenance = true

	events := []*entity.Event{
		canceled,
		expired,
		maintenance,
		pastMaintenance,
		ev(8, 1, 18, 18, entity.EventStatusHold),
		ev(9, 1, 18, 21, entity.EventStatusActive),
	}

	grid := BuildMonth(events, owners, 2025, time.March, true, testNow)

	day18 := grid.Days[17]
	require.Len(t, day18.Entries, 5)
	assert.Equal(t, ClassExpired, day18.Entries[0].Class)     // canceled
	assert.Equal(t, ClassExpired, day18.Entries[1].Class)     // expired flag
	assert.Equal(t, ClassMaintenance, day18.Entries[2].Class) // maintenance
	assert.Equal(t, ClassHold, day18.Entries[3].Class)
	assert.Equal(t, ClassActive, day18.Entries[4].Class)

	// Прошедший день перекрывает даже обслуживание
	day3 := grid.Days[2]
	require.Len(t, day3.Entries, 1)
	assert.Equal(t, ClassExpired, day3.Entries[0].Class)
}

func TestBuildMonth_ExpiredEntriesNotClickable(t *testing.T) {
	owners := map[int64]string{1: "alice"}
	events := []*entity.Event{
		ev(1, 1, 3, 10, entity.EventStatusActive),  // прошедший день
		ev(2, 1, 20, 10, entity.EventStatusActive), // будущий
	}

	grid := BuildMonth(events, owners, 2025, time.March, true, testNow)

	assert.Equal(t, "#", grid.Days[2].Entries[0].URL)
	assert.Equal(t, "/admin/events/2", grid.Days[19].Entries[0].URL)
}

func TestBuildMonth_AddAffordance(t *testing.T) {
	grid := BuildMonth(nil, nil, 2025, time.March, true, testNow)

	assert.False(t, grid.Days[8].CanAdd) // 9 марта, прошедший день
	assert.True(t, grid.Days[9].CanAdd)  // сегодня можно
	assert.True(t, grid.Days[9].Today)
	assert.True(t, grid.Days[30].CanAdd)

	// Выключенное оборудование не бронируется ни в один день
	offline := BuildMonth(nil, nil, 2025, time.March, false, testNow)
	for _, day := range offline.Days {
		assert.False(t, day.CanAdd)
	}
}

func TestWeeks_Padding(t *testing.T) {
	// Март 2025 начинается с субботы: 5 пустых ячеек при неделе с понедельника
	grid := BuildMonth(nil, nil, 2025, time.March, true, testNow)
	weeks := grid.Weeks()

	require.Len(t, weeks, 6)
	for _, week := range weeks {
		assert.Len(t, week, 7)
	}

	for i := 0; i < 5; i++ {
		assert.Zero(t, weeks[0][i].Day)
	}
	assert.Equal(t, 1, weeks[0][5].Day)
	assert.Equal(t, 31, weeks[5][0].Day)
	for i := 1; i < 7; i++ {
		assert.Zero(t, weeks[5][i].Day)
	}
}

func TestWeeks_Recomputed(t *testing.T) {
	// Повторный вызов не накапливает состояние
	grid := BuildMonth(nil, nil, 2025, time.March, true, testNow)
	first := grid.Weeks()
	second := grid.Weeks()
	assert.Equal(t, first, second)
}
