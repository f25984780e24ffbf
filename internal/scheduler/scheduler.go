// Package scheduler drives the periodic fetch-compute-store cycle.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/agroclim/etref/internal/et"
)

// Scheduler periodically recomputes ET for the configured stations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *et.Service
	interval  time.Duration
	window    time.Duration
}

// New creates a new Scheduler. window is the trailing time span recomputed
// on each run, so late-arriving upstream corrections are picked up.
func New(interval, window time.Duration, service *et.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		window:    window,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.service.Stations()) == 0 {
		log.Println("scheduler: no stations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running ET computation job")

		to := time.Now().UTC().Truncate(time.Hour)
		from := to.Add(-s.window)

		var wg sync.WaitGroup
		for _, st := range s.service.Stations() {
			st := st
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()

				if err := s.service.ComputeAndStore(ctx, st, from, to); err != nil {
					log.Printf("scheduler: computation failed for %s: %v", st.Key(), err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed ET computation job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
