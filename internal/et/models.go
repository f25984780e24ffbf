// Package et implements hourly and daily reference evapotranspiration (ETo)
// estimation: the CIMIS hourly method, the FAO-56/ASCE standardized
// Penman-Monteith equation, and the Hargreaves-Samani temperature method.
package et

import (
	"time"
)

// Reference selects the ASCE standardized reference surface for the
// Penman-Monteith coefficients.
type Reference string

const (
	// ReferenceShort is clipped, well-watered grass (0.12 m).
	ReferenceShort Reference = "short"
	// ReferenceTall is full-cover alfalfa (0.50 m).
	ReferenceTall Reference = "tall"
)

// Method identifies an ETo estimation method for selection in the CLI and API.
type Method string

const (
	MethodCIMIS  Method = "cimis"
	MethodPenman Method = "penman"
	MethodBoth   Method = "both"
)

// Site describes the fixed properties of a measurement site.
type Site struct {
	LatitudeDeg   float64 `json:"latitudeDeg" validate:"gte=-90,lte=90"`
	LongitudeDeg  float64 `json:"longitudeDeg" validate:"gte=-180,lte=180"`
	ElevationM    float64 `json:"elevationM" validate:"gte=-430,lte=9000"`
	TZOffsetHours float64 `json:"tzOffsetHours" validate:"gte=-14,lte=14"`
}

// Location returns the site-local fixed-offset zone used for civil-day
// bucketing and solar-time calculations.
func (s Site) Location() *time.Location {
	return time.FixedZone("site", int(s.TZOffsetHours*3600))
}

// HourlyRecord is one hour of meteorological inputs for a site. Timestamp
// marks the end of the averaging hour and is stored in UTC.
type HourlyRecord struct {
	Timestamp   time.Time `json:"timestamp" validate:"required"`
	AirTempC    float64   `json:"airTempC" validate:"gte=-60,lte=60"`
	VaporKPa    float64   `json:"vaporPressureKpa" validate:"gte=0,lte=15"`
	NetRadWm2   float64   `json:"netRadiationWm2"`
	WindSpeedMS float64   `json:"windSpeed2mMs" validate:"gte=0"`
}

// Components holds the intermediate terms of the CIMIS hourly calculation,
// exposed so downstream consumers can audit an estimate.
type Components struct {
	EsKPa       float64 `json:"esKpa"`       // saturation vapor pressure
	VPDKPa      float64 `json:"vpdKpa"`      // vapor pressure deficit
	DeltaKPaC   float64 `json:"deltaKpaC"`   // slope of the saturation curve
	PressureKPa float64 `json:"pressureKpa"` // barometric pressure
	GammaKPaC   float64 `json:"gammaKpaC"`   // psychrometric constant
	Weighting   float64 `json:"weighting"`   // W = delta / (delta + gamma)
	NetRadMMHr  float64 `json:"netRadMmHr"`  // Rn converted to mm/hr
	WindFn      float64 `json:"windFn"`      // day/night wind function FU2
}

// HourlyEstimate pairs an input record with the per-method hourly reference
// ET in mm/hr.
type HourlyEstimate struct {
	Record     HourlyRecord `json:"record"`
	CimisMmHr  float64      `json:"cimisMmHr"`
	PenmanMmHr float64      `json:"penmanMmHr"`
	Components Components   `json:"components"`
}

// DailyETo is the reference ET summary for one site-local civil day.
type DailyETo struct {
	Date         time.Time `json:"date"` // site-local midnight
	CimisMm      float64   `json:"cimisMm"`
	PenmanMm     float64   `json:"penmanMm"`
	HargreavesMm float64   `json:"hargreavesMm"`
	Hours        int       `json:"hours"` // observed hours contributing
	TMaxC        float64   `json:"tMaxC"`
	TMinC        float64   `json:"tMinC"`
}

// Station is a met station or logical site tracked by the service.
type Station struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Site    Site   `json:"site"`

	// CIMISStation is the CIMIS WSN station number, for stations served by
	// the CIMIS provider.
	CIMISStation string `json:"cimisStation,omitempty"`
}

// Key returns a canonical string key for indexing this station in stores.
func (s Station) Key() string {
	return s.ID
}
