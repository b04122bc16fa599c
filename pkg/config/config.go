package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sgdrisk/pkg/data"
	"sgdrisk/pkg/geometry"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config describes one full run: the grids swept for every scenario and the
// resources used to sweep them.
type Config struct {
	Scenarios   []geometry.Scenario `yaml:"scenarios"`
	Sigmas      []float64           `yaml:"sigmas"`
	SampleSizes []int               `yaml:"sample_sizes"`
	Trials      int                 `yaml:"trials"`
	TestSamples int                 `yaml:"test_samples"`
	Dimension   int                 `yaml:"dimension"`
	Center      float64             `yaml:"center"`

	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"` // 0 means GOMAXPROCS

	OutDir     string `yaml:"out_dir"`
	TestSetDir string `yaml:"test_set_dir"` // optional, pins test sets across runs
}

// Default reproduces the reference experiment: D=5, 400 test samples,
// sigma in {0.05, 3}, n in {50, 100, 500, 1000}, 30 trials, both scenarios.
func Default() Config {
	return Config{
		Scenarios:   []geometry.Scenario{geometry.Hypercube, geometry.Ball},
		Sigmas:      []float64{0.05, 3},
		SampleSizes: []int{50, 100, 500, 1000},
		Trials:      30,
		TestSamples: 400,
		Dimension:   data.DefaultDimension,
		Center:      data.DefaultCenter,
		Seed:        1,
		OutDir:      "plots",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case len(c.Scenarios) == 0:
		return errors.Wrap(ErrInvalidConfig, "no scenarios")
	case len(c.Sigmas) == 0:
		return errors.Wrap(ErrInvalidConfig, "no sigmas")
	case len(c.SampleSizes) == 0:
		return errors.Wrap(ErrInvalidConfig, "no sample sizes")
	case c.Trials < 1:
		return errors.Wrapf(ErrInvalidConfig, "trials must be at least 1, got %d", c.Trials)
	case c.TestSamples < 1:
		return errors.Wrapf(ErrInvalidConfig, "test_samples must be at least 1, got %d", c.TestSamples)
	case c.Dimension < 1:
		return errors.Wrapf(ErrInvalidConfig, "dimension must be at least 1, got %d", c.Dimension)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	for _, s := range c.Scenarios {
		if !s.Valid() {
			return errors.Wrapf(ErrInvalidConfig, "unknown scenario %d", int(s))
		}
	}
	for _, s := range c.Sigmas {
		if s < 0 {
			return errors.Wrapf(ErrInvalidConfig, "negative sigma %v", s)
		}
	}
	for _, n := range c.SampleSizes {
		if n < 1 {
			return errors.Wrapf(ErrInvalidConfig, "sample size must be at least 1, got %d", n)
		}
	}
	return nil
}
