package worker

import (
	"context"
	"time"

	"github.com/ds124wfegd/bookit/internal/service"

	"github.com/sirupsen/logrus"
)

// ReminderWorker отправляет утренние напоминания о бронях на завтра.
// Срабатывает раз в сутки в настроенный час.
type ReminderWorker struct {
	eventService service.EventService
	hour         int
}

func NewReminderWorker(eventService service.EventService, hour int) *ReminderWorker {
	if hour < 0 || hour > 23 {
		hour = 7
	}
	return &ReminderWorker{
		eventService: eventService,
		hour:         hour,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	logrus.Infof("Reminder worker started, daily run at %02d:00", w.hour)

	for {
		timer := time.NewTimer(w.untilNextRun(time.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			logrus.Info("Reminder worker stopped")
			return
		case <-timer.C:
			w.sendReminders(ctx)
		}
	}
}

func (w *ReminderWorker) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func (w *ReminderWorker) sendReminders(ctx context.Context) {
	logrus.Info("Sending morning reminders")

	count, err := w.eventService.SendMorningReminders(ctx)
	if err != nil {
		logrus.Errorf("Failed to send morning reminders: %v", err)
		return
	}

	logrus.Infof("Morning reminders queued: %d", count)
}
