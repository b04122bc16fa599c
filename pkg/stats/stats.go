package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Variance is the population variance (divides by n, not n-1).
func Variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(x, nil)
	if v < 0 { // rounding
		return 0
	}
	return v
}

// Std is the population standard deviation.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Min(x), floats.Max(x)
}

// Summary holds the statistics reported for one metric across trials.
type Summary struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	N    int
}

// Summarize computes mean, population std and range of x. Constant input
// has exactly zero spread.
func Summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}
	lo, hi := MinMax(x)
	s := Summary{Min: lo, Max: hi, N: len(x)}
	if lo == hi {
		s.Mean = lo
		return s
	}
	s.Mean = Mean(x)
	s.Std = Std(x)
	return s
}
