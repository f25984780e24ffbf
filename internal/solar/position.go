// Package solar provides the solar geometry needed by the ET methods:
// approximate solar position for day/night classification and
// extraterrestrial radiation for temperature-based ETo estimates.
package solar

import (
	"math"
	"time"
)

// Position identifies a point on the globe together with the UTC offset of
// its local clock, which the NOAA solar-time correction needs.
type Position struct {
	LatitudeDeg   float64
	LongitudeDeg  float64
	TZOffsetHours float64
}

// Window is a local-hour interval [Start, End) treated as daytime when no
// better information is available.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow is the fallback daytime window.
var DefaultWindow = Window{StartHour: 6, EndHour: 20}

// ElevationDeg returns the solar elevation angle in degrees at the local
// wall-clock time ts for the given position. A positive value means the sun
// is above the horizon. This is the NOAA approximate algorithm: fractional
// year, equation of time, declination series, true solar time, hour angle.
func ElevationDeg(ts time.Time, pos Position) float64 {
	yday := float64(ts.YearDay())
	fractionalHour := float64(ts.Hour()) + float64(ts.Minute())/60.0 + float64(ts.Second())/3600.0

	// Fractional year (radians).
	g := 2.0 * math.Pi / 365.0 * (yday - 1 + (fractionalHour-12.0)/24.0)

	// Equation of time (minutes).
	eqtime := 229.18 * (0.000075 +
		0.001868*math.Cos(g) -
		0.032077*math.Sin(g) -
		0.014615*math.Cos(2*g) -
		0.040849*math.Sin(2*g))

	// Solar declination (radians).
	decl := 0.006918 -
		0.399912*math.Cos(g) +
		0.070257*math.Sin(g) -
		0.006758*math.Cos(2*g) +
		0.000907*math.Sin(2*g) -
		0.002697*math.Cos(3*g) +
		0.00148*math.Sin(3*g)

	// True solar time (minutes) and hour angle (degrees).
	timeOffset := eqtime + 4.0*pos.LongitudeDeg - 60.0*pos.TZOffsetHours
	trueSolar := fractionalHour*60.0 + timeOffset
	haRad := degToRad(trueSolar/4.0 - 180.0)
	latRad := degToRad(pos.LatitudeDeg)

	cosZenith := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(haRad)
	// Clamp numeric noise.
	cosZenith = math.Max(-1.0, math.Min(1.0, cosZenith))

	return 90.0 - radToDeg(math.Acos(cosZenith))
}

// IsDaytime classifies an hour as day or night for the Penman-Monteith
// coefficient tables. Tiered logic: positive net radiation always wins; with
// a known position the solar elevation decides; otherwise a plain local-hour
// window is used.
func IsDaytime(rnMJ float64, ts time.Time, pos *Position, w Window) bool {
	if rnMJ > 0 {
		return true
	}
	if pos != nil {
		return ElevationDeg(ts, *pos) > 0
	}
	if w.StartHour == 0 && w.EndHour == 0 {
		w = DefaultWindow
	}
	h := ts.Hour()
	return h >= w.StartHour && h < w.EndHour
}

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }

func radToDeg(r float64) float64 { return r * 180.0 / math.Pi }
