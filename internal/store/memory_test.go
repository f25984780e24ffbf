package store

import (
	"errors"
	"testing"
	"time"

	"github.com/agroclim/etref/internal/et"
)

var testStation = et.Station{ID: "davis", Site: et.Site{LatitudeDeg: 38.5, LongitudeDeg: -121.8, ElevationM: 18, TZOffsetHours: -8}}

func estimateAt(ts time.Time, cimis float64) et.HourlyEstimate {
	return et.HourlyEstimate{
		Record:    et.HourlyRecord{Timestamp: ts, AirTempC: 20},
		CimisMmHr: cimis,
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore(0, 0)

	if _, err := s.LatestDaily(testStation); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.HourlyRange(testStation, time.Time{}, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreHourlyUpsertAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	if err := s.SaveHourly(testStation, []et.HourlyEstimate{
		estimateAt(base, 0.1),
		estimateAt(base.Add(time.Hour), 0.2),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-saving the same hour replaces, not duplicates.
	if err := s.SaveHourly(testStation, []et.HourlyEstimate{estimateAt(base, 0.3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.HourlyRange(testStation, base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 estimates, got %d", len(got))
	}
	if got[0].CimisMmHr != 0.3 {
		t.Fatalf("expected upserted value 0.3, got %v", got[0].CimisMmHr)
	}

	// A range outside the data reports not found.
	if _, err := s.HourlyRange(testStation, base.Add(48*time.Hour), base.Add(72*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreHourlyRetentionByCount(t *testing.T) {
	s := NewMemoryStore(3, 0)
	base := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	var estimates []et.HourlyEstimate
	for i := 0; i < 5; i++ {
		estimates = append(estimates, estimateAt(base.Add(time.Duration(i)*time.Hour), float64(i)))
	}
	if err := s.SaveHourly(testStation, estimates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.HourlyRange(testStation, base, base.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected retention to keep 3 estimates, got %d", len(got))
	}
	// The oldest entries were dropped.
	if !got[0].Record.Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("expected oldest kept at +2h, got %v", got[0].Record.Timestamp)
	}
}

func TestMemoryStoreDailyUpsertAndLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)
	day1 := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	if err := s.SaveDaily(testStation, et.DailyETo{Date: day2, CimisMm: 5.0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveDaily(testStation, et.DailyETo{Date: day1, CimisMm: 4.0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Upsert day2.
	if err := s.SaveDaily(testStation, et.DailyETo{Date: day2, CimisMm: 5.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest, err := s.LatestDaily(testStation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !latest.Date.Equal(day2) || latest.CimisMm != 5.5 {
		t.Fatalf("unexpected latest daily: %+v", latest)
	}

	days, err := s.DailyRange(testStation, day1, day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 || !days[0].Date.Equal(day1) {
		t.Fatalf("unexpected daily range: %+v", days)
	}
}
