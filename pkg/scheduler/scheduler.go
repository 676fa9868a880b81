package scheduler

import (
	"context"
	"time"

	"github.com/ds124wfegd/bookit/internal/service"

	"github.com/sirupsen/logrus"
)

// Scheduler периодически помечает завершившиеся брони как истекшие
type Scheduler struct {
	eventService service.EventService
	interval     time.Duration
}

func NewScheduler(eventService service.EventService, interval time.Duration) *Scheduler {
	return &Scheduler{
		eventService: eventService,
		interval:     interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logrus.Info("Expiry scheduler started")

	for {
		select {
		case <-ticker.C:
			count, err := s.eventService.ExpireEvents(ctx)
			if err != nil {
				logrus.Errorf("Failed to expire events: %v", err)
				continue
			}
			if count > 0 {
				logrus.Infof("Marked %d events as expired", count)
			}
		case <-ctx.Done():
			logrus.Info("Expiry scheduler stopped")
			return
		}
	}
}
