package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/pool-league/internal/platform/logging"
)

// ReminderScheduler runs SendDue once a day at a fixed local hour.
type ReminderScheduler struct {
	reminders *ReminderService
	hour      int
	logger    *logging.Logger
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time
}

func NewReminderScheduler(reminders *ReminderService, hour int, logger *logging.Logger) *ReminderScheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if hour < 0 || hour > 23 {
		hour = 8
	}
	return &ReminderScheduler{
		reminders: reminders,
		hour:      hour,
		logger:    logger,
		now:       time.Now,
		after:     time.After,
	}
}

// Run blocks until ctx is done.
func (s *ReminderScheduler) Run(ctx context.Context) {
	for {
		now := s.now()
		next := nextReminderRun(now, s.hour)
		s.logger.DebugContext(ctx, "next reminder run scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return
		case <-s.after(next.Sub(now)):
		}

		if _, err := s.reminders.SendDue(ctx, s.now()); err != nil {
			s.logger.ErrorContext(ctx, "daily reminder run failed", "error", err)
		}
	}
}

// nextReminderRun returns the first time strictly after now at hour:00 in now's location.
func nextReminderRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
