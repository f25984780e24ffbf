package et

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference values from the FAO-56 tables (Annex 2).
func TestSaturationVaporPressure(t *testing.T) {
	assert.InDelta(t, 2.338, SaturationVaporPressure(20.0), 1e-3)
	assert.InDelta(t, 1.228, SaturationVaporPressure(10.0), 1e-3)
	assert.InDelta(t, 4.243, SaturationVaporPressure(30.0), 1e-3)
}

func TestVaporPressureSlope(t *testing.T) {
	assert.InDelta(t, 0.145, VaporPressureSlope(20.0), 1e-3)
	assert.InDelta(t, 0.082, VaporPressureSlope(10.0), 1e-3)
}

func TestActualVaporPressure(t *testing.T) {
	// Saturated air carries es itself.
	assert.InDelta(t, SaturationVaporPressure(20.0), ActualVaporPressure(20.0, 100.0), 1e-9)
	assert.InDelta(t, SaturationVaporPressure(20.0)/2, ActualVaporPressure(20.0, 50.0), 1e-9)
}

func TestPressure(t *testing.T) {
	// Both formulations agree at sea level and decrease with elevation.
	assert.InDelta(t, 101.3, PressureCIMIS(0), 1e-9)
	assert.InDelta(t, 101.3, PressureFAO56(0), 1e-9)
	assert.Less(t, PressureCIMIS(1500), PressureCIMIS(0))
	assert.Less(t, PressureFAO56(1500), PressureFAO56(0))
}

func TestPsychrometric(t *testing.T) {
	p := PressureFAO56(0)
	assert.InDelta(t, 0.000665*p, PsychrometricFAO56(p), 1e-9)

	// The CIMIS constant grows slightly with temperature.
	assert.Greater(t, PsychrometricCIMIS(30, p), PsychrometricCIMIS(10, p))
}

func TestWindSpeedAt2m(t *testing.T) {
	// FAO-56 example: 3.2 m/s measured at 10 m is about 2.4 m/s at 2 m.
	assert.InDelta(t, 2.39, WindSpeedAt2m(3.2, 10.0), 0.01)

	// Already at 2 m: unchanged.
	assert.Equal(t, 3.2, WindSpeedAt2m(3.2, 2.0))

	// Unknown height: unchanged rather than guessed.
	assert.Equal(t, 3.2, WindSpeedAt2m(3.2, 0))
}
