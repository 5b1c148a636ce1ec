package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/twosprings/internal/dynamo"
)

// ErrGridTooSmall is returned when fewer than two sample points are
// requested; a one-point grid has no spacing.
var ErrGridTooSmall = fmt.Errorf("%w: time grid needs at least 2 points", dynamo.ErrParameterBounds)

type Config struct {
	StopTime  float64          `yaml:"stoptime" json:"stoptime"`
	NumPoints int              `yaml:"numpoints" json:"numpoints"`
	Tolerance dynamo.Tolerance `yaml:",inline" json:"tolerance"`
}

func DefaultConfig() Config {
	return Config{
		StopTime:  10.0,
		NumPoints: 250,
		Tolerance: dynamo.Tolerance{Abs: 1.0e-8, Rel: 1.0e-6},
	}
}

func (c Config) Validate() error {
	if c.NumPoints < 2 {
		return fmt.Errorf("numpoints=%d: %w", c.NumPoints, ErrGridTooSmall)
	}
	if !(c.StopTime > 0) || math.IsInf(c.StopTime, 0) {
		return fmt.Errorf("%w: stoptime must be positive and finite, got %v", dynamo.ErrParameterBounds, c.StopTime)
	}
	if c.Tolerance.Abs < 0 || c.Tolerance.Rel < 0 {
		return fmt.Errorf("%w: tolerances must be non-negative", dynamo.ErrParameterBounds)
	}
	if c.Tolerance.Abs == 0 && c.Tolerance.Rel == 0 {
		return fmt.Errorf("%w: abserr and relerr cannot both be zero", dynamo.ErrParameterBounds)
	}
	return nil
}

// TimeGrid returns n points evenly spaced over [0, stop], both ends
// included.
func TimeGrid(stop float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("numpoints=%d: %w", n, ErrGridTooSmall)
	}
	if !(stop > 0) || math.IsInf(stop, 0) {
		return nil, fmt.Errorf("%w: stoptime must be positive and finite, got %v", dynamo.ErrParameterBounds, stop)
	}
	grid := floats.Span(make([]float64, n), 0, stop)
	// pin the endpoint so rounding in the step never leaves it short
	grid[n-1] = stop
	return grid, nil
}
