package room

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper runs the registry's periodic hygiene: expired laser strokes are
// dropped every second, and dirty active boards are flushed to the store
// every few seconds.
type Sweeper struct {
	registry *Registry
	cron     *cron.Cron
}

// NewSweeper creates a sweeper over the registry.
func NewSweeper(registry *Registry) *Sweeper {
	return &Sweeper{
		registry: registry,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start schedules the sweep jobs.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("* * * * * *", func() {
		s.registry.SweepExpiredLasers(time.Now())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("*/5 * * * * *", func() {
		s.registry.Flush(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[sweeper] started (laser sweep 1s, board flush 5s)")
	return nil
}

// Stop halts the scheduled jobs and flushes one last time.
func (s *Sweeper) Stop(ctx context.Context) {
	<-s.cron.Stop().Done()
	s.registry.Flush(ctx)
}
