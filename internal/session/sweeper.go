package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts idle sessions on a cron schedule.
type Sweeper struct {
	manager  *Manager
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewSweeper parses spec as a standard cron expression or descriptor
// ("@every 5m", "*/10 * * * *").
func NewSweeper(manager *Manager, spec string, logger *slog.Logger) (*Sweeper, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", spec, err)
	}
	return &Sweeper{
		manager:  manager,
		schedule: sched,
		logger:   logger.With("component", "session_sweeper"),
	}, nil
}

// Start blocks until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started", "next", s.schedule.Next(time.Now()))

	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case now := <-timer.C:
			if n := s.manager.Sweep(now); n > 0 {
				s.logger.Info("swept idle sessions", "count", n, "active", s.manager.Len())
			}
		}
	}
}
