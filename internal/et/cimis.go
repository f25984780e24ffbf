package et

import "math"

// cimisRadiationDenom is the published CIMIS conversion constant for net
// radiation, applied as Rn / (694.5 * (1 - 0.000946) * T).
const cimisRadiationDenom = 694.5 * (1.0 - 0.000946)

// CIMISHourly computes the hourly reference ET (RET, mm/hr) for one record
// using the CIMIS hourly method, along with all intermediate components.
//
// The wind function branches on the sign of net radiation: night hours
// (Rn <= 0) use FU2 = 0.125 + 0.0439 u2, day hours FU2 = 0.030 + 0.0576 u2.
func CIMISHourly(rec HourlyRecord, elevationM float64) (float64, Components) {
	es := SaturationVaporPressure(rec.AirTempC)
	vpd := es - rec.VaporKPa
	delta := VaporPressureSlope(rec.AirTempC)
	p := PressureCIMIS(elevationM)
	gamma := PsychrometricCIMIS(rec.AirTempC, p)
	w := delta / (delta + gamma)

	// Net radiation conversion from W m-2 to mm/hr. The published constant
	// divides by air temperature; at exactly 0 degC the term is defined as
	// zero rather than dividing by zero.
	var nr float64
	if denom := cimisRadiationDenom * rec.AirTempC; math.Abs(denom) > 1e-9 {
		nr = rec.NetRadWm2 / denom
	}

	var fu2 float64
	if rec.NetRadWm2 <= 0 {
		fu2 = 0.125 + 0.0439*rec.WindSpeedMS
	} else {
		fu2 = 0.030 + 0.0576*rec.WindSpeedMS
	}

	ret := w*nr + (1.0-w)*vpd*fu2

	return ret, Components{
		EsKPa:       es,
		VPDKPa:      vpd,
		DeltaKPaC:   delta,
		PressureKPa: p,
		GammaKPaC:   gamma,
		Weighting:   w,
		NetRadMMHr:  nr,
		WindFn:      fu2,
	}
}
