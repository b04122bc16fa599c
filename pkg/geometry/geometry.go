package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var ErrUnknownScenario = errors.New("geometry: unknown scenario")

// Scenario selects the constraint domain shared by inputs and weights.
type Scenario int

const (
	Hypercube Scenario = iota + 1 // [-1,1]^d
	Ball                          // Euclidean unit ball
)

func (s Scenario) String() string {
	switch s {
	case Hypercube:
		return "hypercube"
	case Ball:
		return "ball"
	}
	return "scenario(" + strconv.Itoa(int(s)) + ")"
}

func (s Scenario) Valid() bool { return s == Hypercube || s == Ball }

// ParseScenario accepts the scenario name or its number ("1" hypercube, "2" ball).
func ParseScenario(name string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hypercube", "cube", "1":
		return Hypercube, nil
	case "ball", "2":
		return Ball, nil
	}
	return 0, errors.Wrapf(ErrUnknownScenario, "%q", name)
}

// MarshalText lets scenarios round-trip through YAML and CLI flags by name.
func (s Scenario) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Wrapf(ErrUnknownScenario, "%d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scenario) UnmarshalText(b []byte) error {
	v, err := ParseScenario(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Project returns the Euclidean projection of v onto the scenario's domain.
// v is left untouched.
func Project(s Scenario, v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	ProjectInPlace(s, out)
	return out
}

// ProjectInPlace projects v onto the scenario's domain, overwriting it.
func ProjectInPlace(s Scenario, v []float64) {
	switch s {
	case Hypercube:
		for i, x := range v {
			if x > 1 {
				v[i] = 1
			} else if x < -1 {
				v[i] = -1
			}
		}
	case Ball:
		n := floats.Norm(v, 2)
		if n > 1 {
			floats.Scale(1/n, v)
		}
	default:
		panic(ErrUnknownScenario)
	}
}

// Diameter is the largest distance between two points of the domain in dim
// dimensions: the cube diagonal 2*sqrt(dim), or 2 for the ball.
func Diameter(s Scenario, dim int) (float64, error) {
	switch s {
	case Hypercube:
		return 2 * math.Sqrt(float64(dim)), nil
	case Ball:
		return 2, nil
	}
	return 0, errors.Wrapf(ErrUnknownScenario, "%d", int(s))
}

// Contains reports whether v lies in the domain up to tol.
func Contains(s Scenario, v []float64, tol float64) bool {
	switch s {
	case Hypercube:
		for _, x := range v {
			if x > 1+tol || x < -1-tol {
				return false
			}
		}
		return true
	case Ball:
		return floats.Norm(v, 2) <= 1+tol
	}
	return false
}
