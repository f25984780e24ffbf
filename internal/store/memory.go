// Package store provides the persistence backends for computed ET series:
// a concurrency-safe in-memory store and an InfluxDB 2.x store.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/agroclim/etref/internal/et"
)

var (
	// ErrNotFound is returned when no data is available for a station.
	ErrNotFound = errors.New("no ET data for station")
)

// stationSeries holds the time-ordered hourly and daily series of one station.
type stationSeries struct {
	Hourly []et.HourlyEstimate
	Daily  []et.DailyETo
}

// MemoryStore is a concurrency-safe in-memory implementation of et.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: station key, value: series
	data map[string]*stationSeries

	// retention configuration
	maxHourly int           // max number of hourly estimates per station
	maxAge    time.Duration // optional max age for hourly estimates
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHourly is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHourly int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:      make(map[string]*stationSeries),
		maxHourly: maxHourly,
		maxAge:    maxAge,
	}
}

func (s *MemoryStore) series(st et.Station) *stationSeries {
	key := st.Key()
	series, ok := s.data[key]
	if !ok {
		series = &stationSeries{}
		s.data[key] = series
	}
	return series
}

// SaveHourly appends hourly estimates for a station, replacing any existing
// estimate for the same hour, and enforces retention.
func (s *MemoryStore) SaveHourly(st et.Station, estimates []et.HourlyEstimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := s.series(st)

	for _, e := range estimates {
		replaced := false
		for i := range series.Hourly {
			if series.Hourly[i].Record.Timestamp.Equal(e.Record.Timestamp) {
				series.Hourly[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			series.Hourly = append(series.Hourly, e)
		}
	}
	sort.Slice(series.Hourly, func(i, j int) bool {
		return series.Hourly[i].Record.Timestamp.Before(series.Hourly[j].Record.Timestamp)
	})

	// Enforce retention by count.
	if s.maxHourly > 0 && len(series.Hourly) > s.maxHourly {
		over := len(series.Hourly) - s.maxHourly
		series.Hourly = series.Hourly[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(series.Hourly); i++ {
			if !series.Hourly[i].Record.Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			series.Hourly = series.Hourly[i:]
		}
	}
	return nil
}

// SaveDaily upserts one daily total for a station, keyed by date.
func (s *MemoryStore) SaveDaily(st et.Station, day et.DailyETo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := s.series(st)

	for i := range series.Daily {
		if series.Daily[i].Date.Equal(day.Date) {
			series.Daily[i] = day
			return nil
		}
	}
	series.Daily = append(series.Daily, day)
	sort.Slice(series.Daily, func(i, j int) bool {
		return series.Daily[i].Date.Before(series.Daily[j].Date)
	})
	return nil
}

// LatestDaily returns the most recent daily total for a station.
func (s *MemoryStore) LatestDaily(st et.Station) (et.DailyETo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.data[st.Key()]
	if !ok || len(series.Daily) == 0 {
		return et.DailyETo{}, ErrNotFound
	}
	return series.Daily[len(series.Daily)-1], nil
}

// HourlyRange returns hourly estimates between from and to (inclusive).
func (s *MemoryStore) HourlyRange(st et.Station, from, to time.Time) ([]et.HourlyEstimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.data[st.Key()]
	if !ok || len(series.Hourly) == 0 {
		return nil, ErrNotFound
	}

	var result []et.HourlyEstimate
	for _, e := range series.Hourly {
		ts := e.Record.Timestamp
		if !ts.Before(from) && !ts.After(to) {
			result = append(result, e)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// DailyRange returns daily totals between from and to (inclusive).
func (s *MemoryStore) DailyRange(st et.Station, from, to time.Time) ([]et.DailyETo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.data[st.Key()]
	if !ok || len(series.Daily) == 0 {
		return nil, ErrNotFound
	}

	var result []et.DailyETo
	for _, d := range series.Daily {
		if !d.Date.Before(from) && !d.Date.After(to) {
			result = append(result, d)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
