package report

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"sgdrisk/pkg/experiment"
)

// Row is one point of a rendered series.
type Row struct {
	Scenario   string  `csv:"scenario"`
	Sigma      float64 `csv:"sigma"`
	Metric     string  `csv:"metric"`
	SampleSize int     `csv:"n"`
	Value      float64 `csv:"value"`
	Std        float64 `csv:"std"`
}

// Collector is a renderer that keeps every series point as a CSV row.
type Collector struct {
	mu   sync.Mutex
	rows []Row
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) RenderErrorBars(_ context.Context, s experiment.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range s.X {
		c.rows = append(c.rows, Row{
			Scenario:   s.Scenario.String(),
			Sigma:      s.Sigma,
			Metric:     s.Metric.String(),
			SampleSize: int(s.X[i]),
			Value:      s.Y[i],
			Std:        s.YErr[i],
		})
	}
	return nil
}

func (c *Collector) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Row(nil), c.rows...)
}

// Write encodes the rows as CSV with a header line.
func (c *Collector) Write(w io.Writer) error {
	rows := c.Rows()
	return errors.Wrap(gocsv.Marshal(&rows, w), "report: encode")
}

// Save writes the report to path, zstd-compressed when path ends in ".zst".
func (c *Collector) Save(path string) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "report: output dir")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "report: create")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "report: close")
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return c.Write(f)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return errors.Wrap(err, "report: zstd")
	}
	if err := c.Write(enc); err != nil {
		enc.Close()
		return err
	}
	return errors.Wrap(enc.Close(), "report: zstd flush")
}

// Load reads a report written by Save.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "report: open")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "report: zstd")
		}
		defer dec.Close()
		r = dec
	}

	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "report: decode")
	}
	return rows, nil
}
