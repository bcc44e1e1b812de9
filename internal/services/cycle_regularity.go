package services

import "math"

// RegularityStdDevThreshold is inclusive: a deviation of exactly two days is regular.
const RegularityStdDevThreshold = 2.0

func ClassifyRegularity(lengths []int) (Regularity, float64) {
	if len(lengths) == 0 {
		return RegularityUnknown, 0
	}

	deviation := populationStdDev(lengths)
	if deviation <= RegularityStdDevThreshold {
		return RegularityRegular, deviation
	}
	return RegularityIrregular, deviation
}

func populationStdDev(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := averageInts(values)
	variance := 0.0
	for _, value := range values {
		delta := float64(value) - mean
		variance += delta * delta
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
