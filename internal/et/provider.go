package et

import (
	"context"
	"time"
)

// Provider abstracts an upstream source of hourly meteorological data
// (e.g. the CIMIS WSN API, Open-Meteo). Implementations normalize their
// payloads into HourlyRecord units: degC, kPa, W m-2, m/s at 2 m.
type Provider interface {
	Name() string
	FetchHourly(ctx context.Context, st Station, from, to time.Time) ([]HourlyRecord, error)
}

// Store is the contract the in-memory store and the InfluxDB store satisfy.
type Store interface {
	SaveHourly(st Station, estimates []HourlyEstimate) error
	SaveDaily(st Station, day DailyETo) error
	LatestDaily(st Station) (DailyETo, error)
	HourlyRange(st Station, from, to time.Time) ([]HourlyEstimate, error)
	DailyRange(st Station, from, to time.Time) ([]DailyETo, error)
}
