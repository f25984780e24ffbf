package et

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service orchestrates fetching met data from providers, computing hourly
// and daily reference ET, and persisting the results.
type Service struct {
	store     Store
	providers []Provider
	stations  []Station
	penman    PenmanOptions
	agg       AggregateOptions
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider, stations []Station, penman PenmanOptions, agg AggregateOptions) *Service {
	return &Service{
		store:     store,
		providers: providers,
		stations:  stations,
		penman:    penman,
		agg:       agg,
	}
}

// Stations returns the configured stations.
func (s *Service) Stations() []Station {
	return s.stations
}

// StationByID looks up a configured station.
func (s *Service) StationByID(id string) (Station, bool) {
	for _, st := range s.stations {
		if st.ID == id {
			return st, true
		}
	}
	return Station{}, false
}

// ComputeAndStore fetches hourly met data from all providers concurrently
// for the given station and window, merges per-hour, computes hourly and
// daily ETo, and persists both. Partial provider success is tolerated; zero
// successes leaves previously stored data untouched.
func (s *Service) ComputeAndStore(ctx context.Context, st Station, from, to time.Time) error {
	if len(s.providers) == 0 {
		return fmt.Errorf("no met data providers configured")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		records []HourlyRecord
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			recs, err := p.FetchHourly(ctx, st, from, to)
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), st.Key(), err)
				return
			}

			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(records) == 0 {
		log.Printf("no successful provider records for %s; keeping stored data", st.Key())
		return nil
	}

	merged := MergeHourly(records)
	estimates := ComputeHourly(merged, st.Site, s.penman)

	if err := s.store.SaveHourly(st, estimates); err != nil {
		return fmt.Errorf("save hourly estimates for %s: %w", st.Key(), err)
	}
	for _, day := range DailyTotals(estimates, st.Site, s.agg) {
		if err := s.store.SaveDaily(st, day); err != nil {
			return fmt.Errorf("save daily ETo for %s: %w", st.Key(), err)
		}
	}
	return nil
}

// Compute evaluates both hourly methods and the daily totals for ad-hoc
// input without touching the store.
func (s *Service) Compute(records []HourlyRecord, site Site, ref Reference) ([]HourlyEstimate, []DailyETo) {
	opts := s.penman
	if ref != "" {
		opts.Reference = ref
	}
	merged := MergeHourly(records)
	estimates := ComputeHourly(merged, site, opts)
	return estimates, DailyTotals(estimates, site, s.agg)
}

// LatestDaily delegates to the underlying store.
func (s *Service) LatestDaily(st Station) (DailyETo, error) {
	return s.store.LatestDaily(st)
}

// HourlyRange delegates to the underlying store.
func (s *Service) HourlyRange(st Station, from, to time.Time) ([]HourlyEstimate, error) {
	return s.store.HourlyRange(st, from, to)
}

// DailyRange delegates to the underlying store.
func (s *Service) DailyRange(st Station, from, to time.Time) ([]DailyETo, error) {
	return s.store.DailyRange(st, from, to)
}
