package et

import "math"

// Meteorological primitives shared by the ETo methods. Temperatures are degC,
// pressures kPa, elevations m, wind speeds m/s.

// SaturationVaporPressure returns es(T) in kPa (Tetens form, FAO-56 eq. 11).
func SaturationVaporPressure(tC float64) float64 {
	return 0.6108 * math.Exp(17.27*tC/(237.3+tC))
}

// VaporPressureSlope returns the slope of the saturation vapor pressure
// curve at tC, in kPa/degC (FAO-56 eq. 13).
func VaporPressureSlope(tC float64) float64 {
	es := SaturationVaporPressure(tC)
	d := tC + 237.3
	return 4098.0 * es / (d * d)
}

// ActualVaporPressure derives ea from temperature and relative humidity (%).
func ActualVaporPressure(tC, rhPct float64) float64 {
	return SaturationVaporPressure(tC) * rhPct / 100.0
}

// PressureCIMIS is the barometric pressure polynomial used by the CIMIS
// hourly method, kPa from station elevation.
func PressureCIMIS(elevationM float64) float64 {
	return 101.3 - 0.0115*elevationM + 5.44e-7*elevationM*elevationM
}

// PressureFAO56 is the FAO-56 barometric pressure (eq. 7), kPa from station
// elevation.
func PressureFAO56(elevationM float64) float64 {
	return 101.3 * math.Pow((293.0-0.0065*elevationM)/293.0, 5.26)
}

// PsychrometricCIMIS is the temperature-dependent psychrometric constant of
// the CIMIS hourly method, kPa/degC.
func PsychrometricCIMIS(tC, pressureKPa float64) float64 {
	return 0.000646 * (1.0 + 0.000946*tC) * pressureKPa
}

// PsychrometricFAO56 is the FAO-56 psychrometric constant (eq. 8), kPa/degC.
func PsychrometricFAO56(pressureKPa float64) float64 {
	return 0.000665 * pressureKPa
}

// WindSpeedAt2m adjusts a wind speed measured at heightM down to the
// standard 2 m using the FAO-56 logarithmic profile (eq. 47). Measurements
// already at 2 m pass through unchanged.
func WindSpeedAt2m(uz, heightM float64) float64 {
	if heightM == 2.0 || heightM <= 0 {
		return uz
	}
	return uz * 4.87 / math.Log(67.8*heightM-5.42)
}
