package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"sgdrisk/pkg/geometry"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []geometry.Scenario{geometry.Hypercube, geometry.Ball}, cfg.Scenarios)
	require.Equal(t, []float64{0.05, 3}, cfg.Sigmas)
	require.Equal(t, []int{50, 100, 500, 1000}, cfg.SampleSizes)
	require.Equal(t, 30, cfg.Trials)
	require.Equal(t, 400, cfg.TestSamples)
	require.Equal(t, 5, cfg.Dimension)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scenarios: [ball]
sample_sizes: [10, 20]
trials: 4
seed: 7
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []geometry.Scenario{geometry.Ball}, cfg.Scenarios)
	require.Equal(t, []int{10, 20}, cfg.SampleSizes)
	require.Equal(t, 4, cfg.Trials)
	require.Equal(t, uint64(7), cfg.Seed)
	require.Equal(t, []float64{0.05, 3}, cfg.Sigmas, "unset keys keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios: [torus]\n"), 0o644))
	_, err = Load(path)
	require.True(t, errors.Is(err, geometry.ErrUnknownScenario))

	require.NoError(t, os.WriteFile(path, []byte("trials: 0\n"), 0o644))
	_, err = Load(path)
	require.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no scenarios", func(c *Config) { c.Scenarios = nil }},
		{"bad scenario", func(c *Config) { c.Scenarios = []geometry.Scenario{5} }},
		{"no sigmas", func(c *Config) { c.Sigmas = nil }},
		{"negative sigma", func(c *Config) { c.Sigmas = []float64{-1} }},
		{"no sizes", func(c *Config) { c.SampleSizes = nil }},
		{"zero size", func(c *Config) { c.SampleSizes = []int{0} }},
		{"zero trials", func(c *Config) { c.Trials = 0 }},
		{"zero test samples", func(c *Config) { c.TestSamples = 0 }},
		{"zero dimension", func(c *Config) { c.Dimension = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
}
