package usecase

import (
	"context"
	"log/slog"
	"time"

	"factsift/internal/ports"
)

// Scheduler wires the cron-like driver with the topic workflow so a
// fixed set of topics is re-analyzed on a schedule.
type Scheduler struct {
	driver   ports.Scheduler
	workflow *Workflow
	topics   []string
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring topic runs.
func NewScheduler(driver ports.Scheduler, workflow *Workflow, topics []string, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, workflow: workflow, topics: topics, logger: logger}
}

// Start registers the topic runs with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.workflow == nil {
		return nil
	}

	job := func(trigger time.Time) {
		for _, topic := range s.topics {
			if _, err := s.workflow.RunTopic(ctx, topic, 0); err != nil {
				if s.logger != nil {
					s.logger.Error("scheduled analysis failed", "topic", topic, "err", err)
				}
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
