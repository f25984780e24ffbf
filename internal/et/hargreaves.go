package et

import "math"

// HargreavesSamani estimates daily reference ET in mm/day from temperature
// extremes and daily extraterrestrial radiation ra (MJ m-2 day-1). The mean
// temperature defaults to the midpoint of the extremes.
func HargreavesSamani(tMaxC, tMinC, raMJ float64) float64 {
	return HargreavesSamaniWithMean(tMaxC, tMinC, (tMaxC+tMinC)/2.0, raMJ)
}

// HargreavesSamaniWithMean is HargreavesSamani with an explicit mean
// temperature. A non-positive diurnal range contributes zero.
func HargreavesSamaniWithMean(tMaxC, tMinC, tMeanC, raMJ float64) float64 {
	dtr := math.Max(tMaxC-tMinC, 0)
	return 0.0023 * (tMeanC + 17.8) * math.Sqrt(dtr) * raMJ
}
