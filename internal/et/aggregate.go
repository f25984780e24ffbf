package et

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/agroclim/etref/internal/solar"
)

// MergeHourly combines records from multiple providers into one record per
// hour by field-wise averaging. Timestamps are truncated to the hour in UTC;
// the result is ordered by time.
func MergeHourly(records []HourlyRecord) []HourlyRecord {
	if len(records) == 0 {
		return nil
	}

	type acc struct {
		sum HourlyRecord
		n   float64
	}
	buckets := make(map[time.Time]*acc)

	for _, r := range records {
		ts := r.Timestamp.UTC().Truncate(time.Hour)
		a, ok := buckets[ts]
		if !ok {
			a = &acc{sum: HourlyRecord{Timestamp: ts}}
			buckets[ts] = a
		}
		a.sum.AirTempC += r.AirTempC
		a.sum.VaporKPa += r.VaporKPa
		a.sum.NetRadWm2 += r.NetRadWm2
		a.sum.WindSpeedMS += r.WindSpeedMS
		a.n++
	}

	merged := make([]HourlyRecord, 0, len(buckets))
	for ts, a := range buckets {
		merged = append(merged, HourlyRecord{
			Timestamp:   ts,
			AirTempC:    a.sum.AirTempC / a.n,
			VaporKPa:    a.sum.VaporKPa / a.n,
			NetRadWm2:   a.sum.NetRadWm2 / a.n,
			WindSpeedMS: a.sum.WindSpeedMS / a.n,
		})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged
}

// AggregateOptions controls hourly-to-daily aggregation.
type AggregateOptions struct {
	// ClipNegativeDaily clips rare negative daily totals to zero.
	ClipNegativeDaily bool

	// MaxGapHours is the longest run of missing hours filled by linear
	// interpolation before summing. Zero disables gap filling.
	MaxGapHours int
}

// dayBucket collects the estimates of one site-local civil day, indexed by
// local hour of day.
type dayBucket struct {
	date    time.Time
	byHour  map[int]HourlyEstimate
	tMax    float64
	tMin    float64
	hasTemp bool
}

// DailyTotals groups hourly estimates into site-local civil days and sums
// them into daily ETo, attaching a Hargreaves-Samani estimate derived from
// the daily temperature extremes and extraterrestrial radiation. Days are
// returned in ascending date order.
func DailyTotals(estimates []HourlyEstimate, site Site, opts AggregateOptions) []DailyETo {
	if len(estimates) == 0 {
		return nil
	}
	loc := site.Location()

	buckets := make(map[string]*dayBucket)
	for _, e := range estimates {
		lt := e.Record.Timestamp.In(loc)
		key := lt.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{
				date:   time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc),
				byHour: make(map[int]HourlyEstimate),
			}
			buckets[key] = b
		}
		b.byHour[lt.Hour()] = e

		t := e.Record.AirTempC
		if !b.hasTemp || t > b.tMax {
			b.tMax = t
		}
		if !b.hasTemp || t < b.tMin {
			b.tMin = t
		}
		b.hasTemp = true
	}

	days := make([]DailyETo, 0, len(buckets))
	for _, b := range buckets {
		cimis, penman := sumWithGapFill(b.byHour, opts.MaxGapHours)

		if opts.ClipNegativeDaily {
			cimis = math.Max(cimis, 0)
			penman = math.Max(penman, 0)
		}

		ra := solar.DailyExtraterrestrial(site.LatitudeDeg, b.date)

		days = append(days, DailyETo{
			Date:         b.date,
			CimisMm:      cimis,
			PenmanMm:     penman,
			HargreavesMm: HargreavesSamani(b.tMax, b.tMin, ra),
			Hours:        len(b.byHour),
			TMaxC:        b.tMax,
			TMinC:        b.tMin,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// sumWithGapFill sums the hourly CIMIS and Penman-Monteith series of one
// day. Interior gaps no longer than maxGap hours are filled by piecewise
// linear interpolation over the hour of day.
func sumWithGapFill(byHour map[int]HourlyEstimate, maxGap int) (cimis, penman float64) {
	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	for _, h := range hours {
		cimis += byHour[h].CimisMmHr
		penman += byHour[h].PenmanMmHr
	}

	if maxGap <= 0 || len(hours) < 2 {
		return cimis, penman
	}

	xs := make([]float64, len(hours))
	ysCimis := make([]float64, len(hours))
	ysPenman := make([]float64, len(hours))
	for i, h := range hours {
		xs[i] = float64(h)
		ysCimis[i] = byHour[h].CimisMmHr
		ysPenman[i] = byHour[h].PenmanMmHr
	}

	var plCimis, plPenman interp.PiecewiseLinear
	if err := plCimis.Fit(xs, ysCimis); err != nil {
		return cimis, penman
	}
	if err := plPenman.Fit(xs, ysPenman); err != nil {
		return cimis, penman
	}

	for i := 1; i < len(hours); i++ {
		gap := hours[i] - hours[i-1] - 1
		if gap == 0 || gap > maxGap {
			continue
		}
		for h := hours[i-1] + 1; h < hours[i]; h++ {
			cimis += plCimis.Predict(float64(h))
			penman += plPenman.Predict(float64(h))
		}
	}
	return cimis, penman
}
