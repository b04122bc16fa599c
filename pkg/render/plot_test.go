package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sgdrisk/pkg/experiment"
	"sgdrisk/pkg/geometry"
)

func series() experiment.Series {
	return experiment.Series{
		Scenario: geometry.Ball,
		Sigma:    0.05,
		Metric:   experiment.ExcessRisk,
		X:        []float64{50, 100, 500, 1000},
		Y:        []float64{0.04, 0.03, 0.01, 0.005},
		YErr:     []float64{0.02, 0.015, 0.006, 0.004},
	}
}

func TestFileName(t *testing.T) {
	require.Equal(t, "ball_sigma0.05_excess_risk.png", FileName(series(), "png"))

	s := series()
	s.Scenario, s.Sigma, s.Metric = geometry.Hypercube, 3, experiment.BinaryError
	require.Equal(t, "hypercube_sigma3_binary_error.svg", FileName(s, "svg"))
}

func TestPlot_LengthMismatch(t *testing.T) {
	s := series()
	s.YErr = s.YErr[:2]
	_, err := Plot(s)
	require.Error(t, err)
}

func TestPlotRenderer_Saves(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := NewPlotRenderer(dir, WithFormat("svg"))

	require.NoError(t, r.RenderErrorBars(context.Background(), series()))

	files := r.Files()
	require.Len(t, files, 1)
	info, err := os.Stat(files[0])
	require.NoError(t, err)
	require.Positive(t, info.Size())
	require.Equal(t, filepath.Join(dir, "ball_sigma0.05_excess_risk.svg"), files[0])
}
