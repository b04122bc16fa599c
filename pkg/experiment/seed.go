package experiment

import (
	"math/rand/v2"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"sgdrisk/pkg/geometry"
)

// streamID hashes a setting key into the second PCG seed word, so every
// (scenario, sigma, n, trial) draws from its own stream whatever the
// scheduling order.
func streamID(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

func trialRand(seed uint64, s geometry.Scenario, sigma float64, n, trial int) *rand.Rand {
	id := streamID("trial", s.String(), formatSigma(sigma), strconv.Itoa(n), strconv.Itoa(trial))
	return rand.New(rand.NewPCG(seed, id))
}

func testSetRand(seed uint64, s geometry.Scenario, sigma float64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, streamID("test", s.String(), formatSigma(sigma))))
}

func formatSigma(sigma float64) string { return strconv.FormatFloat(sigma, 'g', -1, 64) }
