package loss

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinary(t *testing.T) {
	w := []float64{1, -1, 0.5}
	tests := []struct {
		name string
		x    []float64
		y    float64
		want float64
	}{
		{"positive margin", []float64{1, 0, 1}, 1, 0},
		{"negative margin", []float64{1, 0, 1}, -1, 1},
		{"correct negative", []float64{0, 1, 1}, -1, 0},
		{"zero margin positive", []float64{0.5, 1, 1}, 1, 1},
		{"zero margin negative", []float64{0.5, 1, 1}, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Binary(w, tt.x, tt.y))
		})
	}
}

func TestBinary_ZeroOrOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 500; i++ {
		w := []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		x := []float64{rng.NormFloat64(), rng.NormFloat64(), 1}
		y := 1.0
		if rng.IntN(2) == 0 {
			y = -1
		}
		l := Binary(w, x, y)
		require.True(t, l == 0 || l == 1, "binary loss %v", l)
	}
}

func TestLogistic(t *testing.T) {
	zero := []float64{0, 0, 0}
	x := []float64{0.3, -0.2, 1}
	require.InDelta(t, math.Ln2, Logistic(zero, x, 1), 1e-15)
	require.InDelta(t, math.Ln2, Logistic(zero, x, -1), 1e-15)

	w := []float64{1, 2, -0.5}
	m := Dot(w, x)
	require.InDelta(t, math.Log(1+math.Exp(-m)), Logistic(w, x, 1), 1e-12)
	require.InDelta(t, math.Log(1+math.Exp(m)), Logistic(w, x, -1), 1e-12)
}

func TestLogistic_PositiveAndFinite(t *testing.T) {
	x := []float64{1, 1, 1}
	for _, scale := range []float64{1e-3, 1, 50, 500, 1e4, 1e300} {
		w := []float64{scale, scale, scale}
		for _, y := range []float64{-1, 1} {
			l := Logistic(w, x, y)
			require.Greater(t, l, 0.0, "scale %v y %v", scale, y)
			require.NoError(t, CheckFinite(l), "scale %v y %v", scale, y)
		}
	}
}

func TestLogisticGradient_MatchesFiniteDifference(t *testing.T) {
	w := []float64{0.4, -0.7, 0.1}
	x := []float64{0.2, 0.5, 1}
	const h = 1e-6
	for _, y := range []float64{-1, 1} {
		g := LogisticGradient(w, x, y)
		require.Len(t, g, len(w))
		for i := range w {
			wp := append([]float64(nil), w...)
			wm := append([]float64(nil), w...)
			wp[i] += h
			wm[i] -= h
			fd := (Logistic(wp, x, y) - Logistic(wm, x, y)) / (2 * h)
			assert.InDelta(t, fd, g[i], 1e-8)
		}
	}
}

func TestLogisticGradient_Extreme(t *testing.T) {
	x := []float64{1, 1}
	g := LogisticGradient([]float64{1e308, 1e308}, x, -1)
	require.NoError(t, CheckFinite(g...))
	require.InDeltaSlice(t, []float64{1, 1}, g, 1e-12)
}

func TestAverages(t *testing.T) {
	w := []float64{1, 0}
	X := [][]float64{{1, 1}, {-1, 1}}
	Y := []float64{1, 1}
	lg, bin := Averages(w, X, Y)
	require.InDelta(t, (Softplus(-1)+Softplus(1))/2, lg, 1e-12)
	require.Equal(t, 0.5, bin)
}

func TestCheckFinite(t *testing.T) {
	require.NoError(t, CheckFinite(1, 2, 3))
	err := CheckFinite(1, math.Inf(1))
	require.True(t, errors.Is(err, ErrNumericOverflow))
	require.True(t, errors.Is(CheckFinite(math.NaN()), ErrNumericOverflow))
}

func TestSigmoid(t *testing.T) {
	require.Equal(t, 0.5, Sigmoid(0))
	require.InDelta(t, 1, Sigmoid(800), 1e-15)
	require.InDelta(t, 0, Sigmoid(-800), 1e-15)
	require.InDelta(t, 1-Sigmoid(2), Sigmoid(-2), 1e-15)
}
