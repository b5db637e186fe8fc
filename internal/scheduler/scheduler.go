// Package scheduler runs the periodic crawl trigger.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/gotrends/internal/events"
	"github.com/jonesrussell/gotrends/internal/logger"
)

// Trigger publishes crawl requests. *events.Publisher satisfies it.
type Trigger interface {
	Publish(ctx context.Context, req events.CrawlRequest) (string, error)
}

// Scheduler fires crawl requests on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	trigger Trigger
	log     logger.Logger
	spec    string
}

// New builds a scheduler for the given cron spec. The spec uses the
// standard five-field format, e.g. "*/30 * * * *".
func New(spec string, trigger Trigger, log logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		trigger: trigger,
		log:     log,
		spec:    spec,
	}
	if _, err := s.cron.AddFunc(spec, s.fire); err != nil {
		return nil, fmt.Errorf("invalid crawl schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting crawl scheduler", logger.String("spec", s.spec))
	s.cron.Start()
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Crawl scheduler stopped")
}

func (s *Scheduler) fire() {
	id, err := s.trigger.Publish(context.Background(), events.CrawlRequest{
		TriggeredBy: events.TriggerScheduled,
	})
	if err != nil {
		s.log.Error("Scheduled crawl trigger failed", logger.Error(err))
		return
	}
	s.log.Info("Scheduled crawl triggered", logger.String("event_id", id))
}
