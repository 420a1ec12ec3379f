package scheduler

import (
	"context"
	"time"

	"booknest/pkg/logger"

	"go.uber.org/zap"
)

type eventCompleter interface {
	CompletePastEvents(ctx context.Context) (int, error)
}

// Scheduler 定期將已結束的 PUBLISHED 活動標記為 COMPLETED
type Scheduler struct {
	events   eventCompleter
	interval time.Duration
	log      *zap.Logger
}

func New(events eventCompleter, interval time.Duration) *Scheduler {
	return &Scheduler{
		events:   events,
		interval: interval,
		log:      logger.WithComponent("scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.events.CompletePastEvents(ctx)
	if err != nil {
		s.log.Error("failed to complete past events", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("events completed", zap.Int("count", n))
	}
}
