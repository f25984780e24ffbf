package store

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/agroclim/etref/internal/et"
)

const (
	measurementHourly = "eto_hourly"
	measurementDaily  = "eto_daily"

	influxTimeout = 15 * time.Second
)

// InfluxStore persists ET series to InfluxDB 2.x. Hourly rows carry the met
// inputs and both method results; daily rows carry the totals. Intermediate
// components are not persisted.
type InfluxStore struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
	query  api.QueryAPI
	bucket string
}

// NewInfluxStore connects to an InfluxDB 2.x instance.
func NewInfluxStore(url, token, org, bucket string) *InfluxStore {
	client := influxdb2.NewClient(url, token)
	return &InfluxStore{
		client: client,
		write:  client.WriteAPIBlocking(org, bucket),
		query:  client.QueryAPI(org),
		bucket: bucket,
	}
}

// Close releases the underlying client.
func (s *InfluxStore) Close() {
	s.client.Close()
}

// SaveHourly writes one point per hourly estimate.
func (s *InfluxStore) SaveHourly(st et.Station, estimates []et.HourlyEstimate) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()

	points := make([]*write.Point, 0, len(estimates))
	for _, e := range estimates {
		points = append(points, influxdb2.NewPoint(
			measurementHourly,
			map[string]string{"station": st.Key()},
			map[string]interface{}{
				"air_temp_c":   e.Record.AirTempC,
				"vapor_kpa":    e.Record.VaporKPa,
				"net_rad_wm2":  e.Record.NetRadWm2,
				"wind_ms":      e.Record.WindSpeedMS,
				"cimis_mm_hr":  e.CimisMmHr,
				"penman_mm_hr": e.PenmanMmHr,
			},
			e.Record.Timestamp,
		))
	}
	if err := s.write.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("influx write hourly: %w", err)
	}
	return nil
}

// SaveDaily writes one point per daily total.
func (s *InfluxStore) SaveDaily(st et.Station, day et.DailyETo) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()

	point := influxdb2.NewPoint(
		measurementDaily,
		map[string]string{"station": st.Key()},
		map[string]interface{}{
			"cimis_mm":      day.CimisMm,
			"penman_mm":     day.PenmanMm,
			"hargreaves_mm": day.HargreavesMm,
			"hours":         day.Hours,
			"tmax_c":        day.TMaxC,
			"tmin_c":        day.TMinC,
		},
		day.Date,
	)
	if err := s.write.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("influx write daily: %w", err)
	}
	return nil
}

// LatestDaily returns the newest daily total within the trailing 90 days.
func (s *InfluxStore) LatestDaily(st et.Station) (et.DailyETo, error) {
	days, err := s.DailyRange(st, time.Now().AddDate(0, 0, -90), time.Now().AddDate(0, 0, 1))
	if err != nil {
		return et.DailyETo{}, err
	}
	return days[len(days)-1], nil
}

// DailyRange queries daily totals between from and to (inclusive).
func (s *InfluxStore) DailyRange(st et.Station, from, to time.Time) ([]et.DailyETo, error) {
	rows, err := s.queryPivot(measurementDaily, st, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]et.DailyETo, 0, len(rows))
	for _, r := range rows {
		days = append(days, et.DailyETo{
			Date:         r.ts,
			CimisMm:      fieldFloat(r.values, "cimis_mm"),
			PenmanMm:     fieldFloat(r.values, "penman_mm"),
			HargreavesMm: fieldFloat(r.values, "hargreaves_mm"),
			Hours:        int(fieldFloat(r.values, "hours")),
			TMaxC:        fieldFloat(r.values, "tmax_c"),
			TMinC:        fieldFloat(r.values, "tmin_c"),
		})
	}
	if len(days) == 0 {
		return nil, ErrNotFound
	}
	return days, nil
}

// HourlyRange queries hourly estimates between from and to (inclusive).
func (s *InfluxStore) HourlyRange(st et.Station, from, to time.Time) ([]et.HourlyEstimate, error) {
	rows, err := s.queryPivot(measurementHourly, st, from, to)
	if err != nil {
		return nil, err
	}

	estimates := make([]et.HourlyEstimate, 0, len(rows))
	for _, r := range rows {
		estimates = append(estimates, et.HourlyEstimate{
			Record: et.HourlyRecord{
				Timestamp:   r.ts,
				AirTempC:    fieldFloat(r.values, "air_temp_c"),
				VaporKPa:    fieldFloat(r.values, "vapor_kpa"),
				NetRadWm2:   fieldFloat(r.values, "net_rad_wm2"),
				WindSpeedMS: fieldFloat(r.values, "wind_ms"),
			},
			CimisMmHr:  fieldFloat(r.values, "cimis_mm_hr"),
			PenmanMmHr: fieldFloat(r.values, "penman_mm_hr"),
		})
	}
	if len(estimates) == 0 {
		return nil, ErrNotFound
	}
	return estimates, nil
}

type pivotRow struct {
	ts     time.Time
	values map[string]interface{}
}

// queryPivot runs a pivoted Flux range query for one station and
// measurement, returning rows ordered by time.
func (s *InfluxStore) queryPivot(measurement string, st et.Station, from, to time.Time) ([]pivotRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()

	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %q and r.station == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> sort(columns: ["_time"])`,
		s.bucket,
		from.UTC().Format(time.RFC3339),
		to.UTC().Add(time.Second).Format(time.RFC3339),
		measurement,
		st.Key(),
	)

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}

	var rows []pivotRow
	for result.Next() {
		rec := result.Record()
		rows = append(rows, pivotRow{ts: rec.Time(), values: rec.Values()})
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("influx query: %w", result.Err())
	}
	return rows, nil
}

func fieldFloat(values map[string]interface{}, key string) float64 {
	switch v := values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}
