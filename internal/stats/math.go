// Package stats holds the numeric helpers shared by the analytics services.
package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Summary is the min/max/avg/median of a value set.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// Average calculates the arithmetic mean, or nil for an empty set
func Average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// Median calculates the median, averaging the two middle values for even-length sets
func Median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	m := sorted[mid]
	if len(sorted)%2 == 0 {
		m = (sorted[mid-1] + sorted[mid]) / 2
	}
	return &m
}

// MinMax returns the smallest and largest value. ok is false for an empty set.
func MinMax(values []float64) (min, max float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}

// Summarize builds a Summary with avg and median rounded to 2 places.
// Returns nil for an empty set.
func Summarize(values []float64) *Summary {
	min, max, ok := MinMax(values)
	if !ok {
		return nil
	}
	return &Summary{
		Min:    min,
		Max:    max,
		Avg:    Round(*Average(values), 2),
		Median: Round(*Median(values), 2),
	}
}

// Round rounds v to the given number of decimal places, halves away from zero.
// Infinities and NaN are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundPtr rounds a nullable value, keeping nil as nil.
func RoundPtr(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := Round(*v, places)
	return &r
}

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 {
	return &v
}
