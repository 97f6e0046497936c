package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Scheduler periodically drops expired dashboard sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     weather.SessionStore
	interval  time.Duration
}

// New creates a new Scheduler.
func New(store weather.SessionStore, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.prune)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.store.Prune(ctx, time.Now())
	if err != nil {
		log.Printf("scheduler: session prune failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("scheduler: pruned %d expired sessions", removed)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
