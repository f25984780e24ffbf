package solar

import (
	"math"
	"time"
)

const (
	// SolarConstant is Gsc in MJ m-2 min-1 (FAO-56).
	SolarConstant = 0.0820

	// stefanBoltzmannHourly is sigma expressed per hour, MJ K-4 m-2 h-1.
	stefanBoltzmannHourly = 2.043e-10

	// grassAlbedo is the reflectance of the reference grass surface.
	grassAlbedo = 0.23
)

// Declination returns the solar declination in radians for a day of year
// (FAO-56 eq. 24).
func Declination(yday int) float64 {
	return 0.409 * math.Sin(2.0*math.Pi/365.0*float64(yday)-1.39)
}

// inverseRelativeDistance is dr, the inverse relative Earth-Sun distance
// (FAO-56 eq. 23).
func inverseRelativeDistance(yday int) float64 {
	return 1.0 + 0.033*math.Cos(2.0*math.Pi/365.0*float64(yday))
}

// sunsetHourAngle returns ws in radians (FAO-56 eq. 25). The argument of
// arccos is clamped so polar day/night do not produce NaN.
func sunsetHourAngle(latRad, decl float64) float64 {
	x := -math.Tan(latRad) * math.Tan(decl)
	x = math.Max(-1.0, math.Min(1.0, x))
	return math.Acos(x)
}

// DailyExtraterrestrial returns Ra, the daily extraterrestrial radiation in
// MJ m-2 day-1 for a latitude and date (FAO-56 eq. 21).
func DailyExtraterrestrial(latDeg float64, date time.Time) float64 {
	j := date.YearDay()
	latRad := degToRad(latDeg)
	dr := inverseRelativeDistance(j)
	decl := Declination(j)
	ws := sunsetHourAngle(latRad, decl)

	ra := 24.0 * 60.0 / math.Pi * SolarConstant * dr *
		(ws*math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Sin(ws))
	return math.Max(ra, 0)
}

// HourlyExtraterrestrial returns Ra in MJ m-2 h-1 for the hour ending at the
// local wall-clock time ts (FAO-56 eq. 28-33). The hour angles at the period
// boundaries are clipped to the sunset hour angle, so night hours return 0.
func HourlyExtraterrestrial(ts time.Time, pos Position) float64 {
	j := ts.YearDay()
	latRad := degToRad(pos.LatitudeDeg)
	dr := inverseRelativeDistance(j)
	decl := Declination(j)
	ws := sunsetHourAngle(latRad, decl)

	// Seasonal correction for solar time, hours (FAO-56 eq. 32-33).
	b := 2.0 * math.Pi * (float64(j) - 81.0) / 364.0
	sc := 0.1645*math.Sin(2*b) - 0.1255*math.Cos(b) - 0.025*math.Sin(b)

	// Clock time at the midpoint of the hour, corrected to solar time.
	clockMid := float64(ts.Hour()) + float64(ts.Minute())/60.0 - 0.5
	solarMid := clockMid + (pos.LongitudeDeg/15.0 - pos.TZOffsetHours) + sc

	wMid := math.Pi / 12.0 * (solarMid - 12.0)
	w1 := wMid - math.Pi/24.0
	w2 := wMid + math.Pi/24.0

	if w1 < -ws {
		w1 = -ws
	}
	if w2 > ws {
		w2 = ws
	}
	if w1 >= w2 {
		return 0
	}

	ra := 12.0 * 60.0 / math.Pi * SolarConstant * dr *
		((w2-w1)*math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*(math.Sin(w2)-math.Sin(w1)))
	return math.Max(ra, 0)
}

// ClearSky returns Rso, the clear-sky shortwave radiation, from
// extraterrestrial radiation and station elevation (FAO-56 eq. 37). Units
// follow ra.
func ClearSky(ra, elevationM float64) float64 {
	return (0.75 + 2e-5*elevationM) * ra
}

// NetRadiationEstimate derives net radiation in W m-2 from measured
// shortwave radiation, for sources that do not report Rn directly
// (FAO-56 eq. 38-40 on an hourly basis).
//
// rsWm2 is incoming shortwave [W m-2], tC air temperature [degC], eaKPa
// actual vapor pressure [kPa]; ts is local wall-clock time for the hour.
func NetRadiationEstimate(rsWm2, tC, eaKPa, elevationM float64, ts time.Time, pos Position) float64 {
	rs := rsWm2 * 0.0036 // W m-2 -> MJ m-2 h-1

	ra := HourlyExtraterrestrial(ts, pos)
	rso := ClearSky(ra, elevationM)

	// Relative shortwave: cloudiness signal for the longwave term. At night
	// Rso is zero; a mid-range ratio stands in for the unknown cloud cover.
	ratio := 0.5
	if rso > 0 {
		ratio = math.Max(0.3, math.Min(1.0, rs/rso))
	}

	tK := tC + 273.16
	ea := math.Max(eaKPa, 0)
	rnl := stefanBoltzmannHourly * math.Pow(tK, 4) * (0.34 - 0.14*math.Sqrt(ea)) * (1.35*ratio - 0.35)
	rns := (1.0 - grassAlbedo) * rs

	return (rns - rnl) / 0.0036 // back to W m-2
}
