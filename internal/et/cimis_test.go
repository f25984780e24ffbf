package et

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyRecord(tC, eaKPa, rnWm2, u2 float64) HourlyRecord {
	return HourlyRecord{
		Timestamp:   time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC),
		AirTempC:    tC,
		VaporKPa:    eaKPa,
		NetRadWm2:   rnWm2,
		WindSpeedMS: u2,
	}
}

func TestCIMISHourlyDaytime(t *testing.T) {
	// Hand-computed from the published equations: T=25 C, ea=1.8 kPa,
	// Rn=500 W/m2, u2=2 m/s, z=100 m.
	ret, comps := CIMISHourly(hourlyRecord(25, 1.8, 500, 2), 100)

	assert.InDelta(t, 3.1678, comps.EsKPa, 1e-3)
	assert.InDelta(t, 1.3678, comps.VPDKPa, 1e-3)
	assert.InDelta(t, 0.18868, comps.DeltaKPaC, 1e-4)
	assert.InDelta(t, 100.155, comps.PressureKPa, 1e-2)
	assert.InDelta(t, 0.06623, comps.GammaKPaC, 1e-4)
	assert.InDelta(t, 0.74018, comps.Weighting, 1e-3)
	assert.InDelta(t, 0.028825, comps.NetRadMMHr, 1e-4)
	assert.InDelta(t, 0.1452, comps.WindFn, 1e-9)
	assert.InDelta(t, 0.07294, ret, 5e-4)
}

func TestCIMISWindFunctionBranch(t *testing.T) {
	u := 3.0

	// Day branch: Rn > 0.
	_, day := CIMISHourly(hourlyRecord(20, 1.5, 250, u), 50)
	assert.InDelta(t, 0.030+0.0576*u, day.WindFn, 1e-9)

	// Night branch: Rn <= 0, including exactly zero.
	_, night := CIMISHourly(hourlyRecord(20, 1.5, -40, u), 50)
	assert.InDelta(t, 0.125+0.0439*u, night.WindFn, 1e-9)

	_, zero := CIMISHourly(hourlyRecord(20, 1.5, 0, u), 50)
	assert.InDelta(t, 0.125+0.0439*u, zero.WindFn, 1e-9)
}

func TestCIMISZeroTemperatureGuard(t *testing.T) {
	// At exactly 0 C the radiation conversion denominator vanishes; the
	// term is defined as zero instead of dividing by zero.
	ret, comps := CIMISHourly(hourlyRecord(0, 0.4, 300, 2), 100)

	require.False(t, isNaN(ret))
	assert.Zero(t, comps.NetRadMMHr)

	// The aerodynamic term still contributes.
	assert.Greater(t, ret, 0.0)
}

func TestCIMISWeightingInUnitRange(t *testing.T) {
	for _, tC := range []float64{-10, 0, 15, 30, 45} {
		_, comps := CIMISHourly(hourlyRecord(tC, 1.0, 100, 1), 200)
		assert.Greater(t, comps.Weighting, 0.0, "T=%v", tC)
		assert.Less(t, comps.Weighting, 1.0, "T=%v", tC)
	}
}

func isNaN(f float64) bool { return f != f }
