package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sgdrisk/pkg/experiment"
	"sgdrisk/pkg/geometry"
)

func collected(t *testing.T) *Collector {
	t.Helper()
	c := NewCollector()
	ctx := context.Background()
	require.NoError(t, c.RenderErrorBars(ctx, experiment.Series{
		Scenario: geometry.Hypercube, Sigma: 3, Metric: experiment.ExcessRisk,
		X: []float64{50, 100}, Y: []float64{0.2, 0.1}, YErr: []float64{0.05, 0.02},
	}))
	require.NoError(t, c.RenderErrorBars(ctx, experiment.Series{
		Scenario: geometry.Ball, Sigma: 0.05, Metric: experiment.BinaryError,
		X: []float64{50}, Y: []float64{0.01}, YErr: []float64{0.004},
	}))
	return c
}

func TestCollector_Rows(t *testing.T) {
	rows := collected(t).Rows()
	require.Len(t, rows, 3)
	require.Equal(t, Row{Scenario: "hypercube", Sigma: 3, Metric: "excess_risk", SampleSize: 100, Value: 0.1, Std: 0.02}, rows[1])
	require.Equal(t, "binary_error", rows[2].Metric)
}

func TestCollector_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, collected(t).Write(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "scenario,sigma,metric,n,value,std", lines[0])
}

func TestCollector_SaveLoad(t *testing.T) {
	c := collected(t)
	for _, name := range []string{"results.csv", "results.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)
			require.NoError(t, c.Save(path))
			rows, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, c.Rows(), rows)
		})
	}
}
