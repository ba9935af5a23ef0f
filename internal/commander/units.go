package commander

import "math"

// DbmToWatt converts an absolute power level in dBm to watt
func DbmToWatt(dBm float64) float64 {
	return 0.001 * math.Pow(10, 0.1*dBm)
}

// WattToDbm converts a power in watt to dBm
func WattToDbm(watt float64) float64 {
	return 10*math.Log10(watt) + 30
}
