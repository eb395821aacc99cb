package market

import (
	"math"

	"github.com/shopspring/decimal"
)

// unitEpsilon absorbs binary floating-point noise before flooring unit counts,
// so that 0.8*200 floors to 160 rather than 159.
const unitEpsilon = 1e-9

// round2 rounds a money amount to cents, half away from zero.
func round2(x float64) float64 {
	return roundTo(x, 2)
}

func roundTo(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// floorUnits floors a unit quantity, never below zero.
func floorUnits(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(x + unitEpsilon))
}
