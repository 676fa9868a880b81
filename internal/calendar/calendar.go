// Package calendar projects bookings onto a month grid for rendering.
// The grid is a plain data structure; HTML/JSON serialization is a
// collaborator concern.
package calendar

import (
	"fmt"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"
)

// Display classes in precedence order: expired > maintenance > hold > active.
const (
	ClassExpired     = "expired"
	ClassMaintenance = "maintenance"
	ClassHold        = "hold"
	ClassActive      = "active"
)

// Entry is one booking cell inside a day.
type Entry struct {
	EventID int64  `json:"event_id"`
	Label   string `json:"label"`
	URL     string `json:"url"`
	Class   string `json:"class"`
	Hover   string `json:"hover"`
}

// Day is one calendar cell. Day == 0 marks a blank placeholder from an
// adjacent month.
type Day struct {
	Day     int     `json:"day"`
	Today   bool    `json:"today"`
	CanAdd  bool    `json:"can_add"`
	Entries []Entry `json:"entries,omitempty"`
}

// MonthGrid is the projection of one equipment's bookings onto one month.
type MonthGrid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Days  []Day      `json:"days"`

	leadingBlanks int
}

// BuildMonth groups events by calendar day of their start time and annotates
// each with a display class. Events must already be restricted to the target
// equipment and month by the caller. owners maps user ids to display labels.
func BuildMonth(events []*entity.Event, owners map[int64]string, year int, month time.Month, equipmentOnline bool, now time.Time) *MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	byDay := make(map[int][]*entity.Event)
	for _, ev := range events {
		d := ev.StartTime.Day()
		byDay[d] = append(byDay[d], ev)
	}

	grid := &MonthGrid{
		Year:  year,
		Month: month,
		Days:  make([]Day, 0, daysInMonth),
		// Monday-first layout, like the original scheduling calendar
		leadingBlanks: (int(first.Weekday()) + 6) % 7,
	}

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, now.Location())
		dayPast := date.Before(today)

		day := Day{
			Day:    d,
			Today:  date.Equal(today),
			CanAdd: equipmentOnline && !dayPast,
		}
		for _, ev := range byDay[d] {
			day.Entries = append(day.Entries, buildEntry(ev, owners[ev.UserID], dayPast))
		}
		grid.Days = append(grid.Days, day)
	}
	return grid
}

func buildEntry(ev *entity.Event, owner string, dayPast bool) Entry {
	class := classify(ev, dayPast)
	url := ev.AdminURL()
	if class == ClassExpired {
		// expired slots are not clickable
		url = "#"
	}
	return Entry{
		EventID: ev.ID,
		Label:   fmt.Sprintf("%s - %s", owner, ev.StartTime.Format("15:04")),
		URL:     url,
		Class:   class,
		Hover: fmt.Sprintf("Start: %s End: %s User: %s Status: %s",
			ev.StartTime.Format("15:04"), ev.EndTime.Format("15:04"), owner, ev.Status),
	}
}

// classify picks the display class by fixed precedence.
func classify(ev *entity.Event, dayPast bool) string {
	switch {
	case dayPast || ev.Expired || ev.Status == entity.EventStatusCanceled:
		return ClassExpired
	case ev.Maintenance:
		return ClassMaintenance
	case ev.Status == entity.EventStatusHold:
		return ClassHold
	default:
		return ClassActive
	}
}

// Weeks lays the month out as 7-column rows. Leading and trailing cells from
// adjacent months are blank placeholders (Day == 0). The layout is
// recomputed per call and retains no cross-month state.
func (g *MonthGrid) Weeks() [][]Day {
	var weeks [][]Day
	row := make([]Day, 0, 7)
	for i := 0; i < g.leadingBlanks; i++ {
		row = append(row, Day{})
	}
	for _, day := range g.Days {
		row = append(row, day)
		if len(row) == 7 {
			weeks = append(weeks, row)
			row = make([]Day, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, Day{})
		}
		weeks = append(weeks, row)
	}
	return weeks
}
