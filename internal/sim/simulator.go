package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/twosprings/internal/dynamo"
	"github.com/san-kum/twosprings/internal/logging"
)

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.GridIntegrator
	metrics    []dynamo.Metric
	log        *slog.Logger
}

func New(dyn dynamo.System, integrator dynamo.GridIntegrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		log:        logging.New("sim"),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 over the configured grid. Either the whole
// trajectory is returned or an error; integrator failures are passed
// through without retry.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d components, want %d",
			dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("initial state: %w", dynamo.ErrInvalidState)
	}

	times, err := TimeGrid(cfg.StopTime, cfg.NumPoints)
	if err != nil {
		return nil, err
	}

	s.log.Debug("integrating",
		slog.Float64("stoptime", cfg.StopTime),
		slog.Int("numpoints", cfg.NumPoints),
		slog.Float64("abserr", cfg.Tolerance.Abs),
		slog.Float64("relerr", cfg.Tolerance.Rel))
	start := time.Now()

	states, err := s.integrator.Integrate(ctx, s.dyn, x0, times, cfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("integrate: %w", err)
	}
	if len(states) != len(times) {
		return nil, fmt.Errorf("%w: integrator returned %d samples for %d grid points",
			dynamo.ErrDimensionMismatch, len(states), len(times))
	}

	result := &dynamo.Trajectory{
		Times:   times,
		States:  states,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		for i, x := range states {
			m.Observe(x, times[i])
		}
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug("integrated", slog.Duration("elapsed", time.Since(start)), slog.Int("samples", len(states)))

	return result, nil
}
