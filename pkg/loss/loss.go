package loss

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var ErrNumericOverflow = errors.New("loss: non-finite value")

// Dot is w·x. Lengths must match.
func Dot(w, x []float64) float64 { return floats.Dot(w, x) }

// Binary is the 0/1 loss of the linear predictor w on (x, y), y in {-1,+1}.
// A zero margin counts as a mistake for either label.
func Binary(w, x []float64, y float64) float64 {
	if y*Dot(w, x) > 0 {
		return 0
	}
	return 1
}

// Logistic is ln(1 + exp(-y w·x)). The result is strictly positive for
// finite inputs.
func Logistic(w, x []float64, y float64) float64 {
	l := Softplus(-y * Dot(w, x))
	if l <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return l
}

// LogisticGradient returns the gradient of Logistic with respect to w.
func LogisticGradient(w, x []float64, y float64) []float64 {
	g := make([]float64, len(w))
	LogisticGradientTo(g, w, x, y)
	return g
}

// LogisticGradientTo writes -y*x/(1+exp(y w·x)) into dst and returns it.
func LogisticGradientTo(dst, w, x []float64, y float64) []float64 {
	c := -y * Sigmoid(-y*Dot(w, x))
	for i, xi := range x {
		dst[i] = c * xi
	}
	return dst
}

// Averages returns the mean logistic and binary loss of w over the rows of X.
func Averages(w []float64, X [][]float64, Y []float64) (logistic, binary float64) {
	for i, x := range X {
		logistic += Logistic(w, x, Y[i])
		binary += Binary(w, x, Y[i])
	}
	n := float64(len(X))
	return logistic / n, binary / n
}

// CheckFinite reports ErrNumericOverflow for NaN or infinite entries of v.
func CheckFinite(v ...float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Wrapf(ErrNumericOverflow, "index %d is %v", i, x)
		}
	}
	return nil
}
