// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips value to [min, max]
func Clip(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Contains returns whether value lies in the closed interval
func Contains(interval r1.Interval, value float64) bool {
	return value >= interval.Min && value <= interval.Max
}

// WrapInterval wraps value into the interval, treating it as periodic
func WrapInterval(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	value = math.Mod(value-interval.Min, width)
	if value < 0 {
		value += width
	}
	return value + interval.Min
}
