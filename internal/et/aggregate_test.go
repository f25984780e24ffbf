package et

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeHourlyAveragesProviders(t *testing.T) {
	ts := time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC)
	records := []HourlyRecord{
		{Timestamp: ts, AirTempC: 20, VaporKPa: 1.0, NetRadWm2: 400, WindSpeedMS: 2},
		{Timestamp: ts.Add(10 * time.Minute), AirTempC: 22, VaporKPa: 1.2, NetRadWm2: 500, WindSpeedMS: 4},
		{Timestamp: ts.Add(time.Hour), AirTempC: 25, VaporKPa: 1.4, NetRadWm2: 550, WindSpeedMS: 3},
	}

	merged := MergeHourly(records)
	require.Len(t, merged, 2)

	// Same hour: field-wise average, timestamp truncated.
	assert.Equal(t, ts, merged[0].Timestamp)
	assert.InDelta(t, 21.0, merged[0].AirTempC, 1e-9)
	assert.InDelta(t, 1.1, merged[0].VaporKPa, 1e-9)
	assert.InDelta(t, 450.0, merged[0].NetRadWm2, 1e-9)
	assert.InDelta(t, 3.0, merged[0].WindSpeedMS, 1e-9)

	// Ordered by time.
	assert.True(t, merged[0].Timestamp.Before(merged[1].Timestamp))
}

// dayOfEstimates builds one site-local day of synthetic hourly estimates with
// constant method values, skipping the given local hours.
func dayOfEstimates(site Site, cimis, penman float64, skip ...int) []HourlyEstimate {
	skipSet := make(map[int]bool, len(skip))
	for _, h := range skip {
		skipSet[h] = true
	}

	loc := site.Location()
	base := time.Date(2024, 7, 15, 0, 0, 0, 0, loc)

	var estimates []HourlyEstimate
	for h := 0; h < 24; h++ {
		if skipSet[h] {
			continue
		}
		estimates = append(estimates, HourlyEstimate{
			Record: HourlyRecord{
				Timestamp: base.Add(time.Duration(h) * time.Hour).UTC(),
				AirTempC:  10 + float64(h)/2, // 10..21.5, so TMax/TMin are known
			},
			CimisMmHr:  cimis,
			PenmanMmHr: penman,
		})
	}
	return estimates
}

func TestDailyTotalsSumsFullDay(t *testing.T) {
	days := DailyTotals(dayOfEstimates(testSite, 0.1, 0.2), testSite, AggregateOptions{})
	require.Len(t, days, 1)

	d := days[0]
	assert.InDelta(t, 2.4, d.CimisMm, 1e-9)
	assert.InDelta(t, 4.8, d.PenmanMm, 1e-9)
	assert.Equal(t, 24, d.Hours)
	assert.InDelta(t, 21.5, d.TMaxC, 1e-9)
	assert.InDelta(t, 10.0, d.TMinC, 1e-9)

	// The Hargreaves estimate piggybacks on the daily extremes.
	assert.Greater(t, d.HargreavesMm, 0.0)

	// Site-local midnight.
	assert.Equal(t, 0, d.Date.Hour())
	assert.Equal(t, 15, d.Date.Day())
}

func TestDailyTotalsClipsNegative(t *testing.T) {
	estimates := dayOfEstimates(testSite, -0.05, -0.01)

	clipped := DailyTotals(estimates, testSite, AggregateOptions{ClipNegativeDaily: true})
	require.Len(t, clipped, 1)
	assert.Zero(t, clipped[0].CimisMm)
	assert.Zero(t, clipped[0].PenmanMm)

	raw := DailyTotals(estimates, testSite, AggregateOptions{})
	require.Len(t, raw, 1)
	assert.InDelta(t, -1.2, raw[0].CimisMm, 1e-9)
}

func TestDailyTotalsFillsShortGaps(t *testing.T) {
	// Hour 12 missing; with a 2-hour tolerance the gap is interpolated and
	// the total matches a complete day, while Hours reports observations.
	estimates := dayOfEstimates(testSite, 0.1, 0.2, 12)

	days := DailyTotals(estimates, testSite, AggregateOptions{MaxGapHours: 2})
	require.Len(t, days, 1)
	assert.InDelta(t, 2.4, days[0].CimisMm, 1e-9)
	assert.Equal(t, 23, days[0].Hours)

	// Without gap filling the missing hour is simply absent.
	noFill := DailyTotals(estimates, testSite, AggregateOptions{})
	assert.InDelta(t, 2.3, noFill[0].CimisMm, 1e-9)
}

func TestDailyTotalsSkipsLongGaps(t *testing.T) {
	// Hours 10-14 missing: longer than the tolerance, left unfilled.
	estimates := dayOfEstimates(testSite, 0.1, 0.2, 10, 11, 12, 13, 14)

	days := DailyTotals(estimates, testSite, AggregateOptions{MaxGapHours: 2})
	require.Len(t, days, 1)
	assert.InDelta(t, 1.9, days[0].CimisMm, 1e-9)
	assert.Equal(t, 19, days[0].Hours)
}

func TestDailyTotalsBucketsBySiteLocalDay(t *testing.T) {
	// 07:00 UTC at UTC-8 is 23:00 the previous local day.
	ts := time.Date(2024, 7, 15, 7, 0, 0, 0, time.UTC)
	estimates := []HourlyEstimate{{
		Record:    HourlyRecord{Timestamp: ts, AirTempC: 18},
		CimisMmHr: 0.05,
	}}

	days := DailyTotals(estimates, testSite, AggregateOptions{})
	require.Len(t, days, 1)
	assert.Equal(t, 14, days[0].Date.Day())
}
