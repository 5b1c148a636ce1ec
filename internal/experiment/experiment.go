package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/twosprings/internal/config"
	"github.com/san-kum/twosprings/internal/dynamo"
	"github.com/san-kum/twosprings/internal/integrators"
	"github.com/san-kum/twosprings/internal/logging"
	"github.com/san-kum/twosprings/internal/metrics"
	"github.com/san-kum/twosprings/internal/physics"
	"github.com/san-kum/twosprings/internal/render"
	"github.com/san-kum/twosprings/internal/sim"
	"github.com/san-kum/twosprings/internal/storage"
)

// Experiment runs the fixed pipeline: simulate, write the data file, read
// it back and render the image. The data file is the only link between the
// two halves.
type Experiment struct {
	cfg *config.Config
	log *slog.Logger
}

// Report describes the artifacts of one pipeline run.
type Report struct {
	DataPath  string
	ImagePath string
	Samples   int
	Metrics   map[string]float64
	Elapsed   time.Duration
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg: cfg,
		log: logging.New("experiment"),
	}
}

// Simulate integrates the configured scenario and writes the data file.
// Nothing is written unless the whole trajectory was produced.
func (e *Experiment) Simulate(ctx context.Context) (*dynamo.Trajectory, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dyn := physics.NewTwoSprings(e.cfg.Params)
	s := sim.New(dyn, integrators.NewRK45())
	for _, m := range metrics.Defaults(dyn) {
		s.AddMetric(m)
	}

	traj, err := s.Run(ctx, e.cfg.GetInitState(), e.cfg.Solver)
	if err != nil {
		return nil, err
	}

	if err := storage.Save(e.cfg.Output.Data, traj); err != nil {
		return nil, err
	}
	e.log.Info("wrote trajectory", slog.String("path", e.cfg.Output.Data), slog.Int("samples", traj.Len()))

	return traj, nil
}

// Render loads the data file and writes the displacement plot.
func (e *Experiment) Render() (*dynamo.Trajectory, error) {
	traj, err := storage.Load(e.cfg.Output.Data)
	if err != nil {
		return nil, err
	}

	opts := render.DefaultOptions()
	opts.DPI = e.cfg.Output.DPI
	if err := render.PNG(e.cfg.Output.Image, traj, opts); err != nil {
		return nil, err
	}
	e.log.Info("wrote plot", slog.String("path", e.cfg.Output.Image), slog.Int("dpi", opts.DPI))

	return traj, nil
}

func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	traj, err := e.Simulate(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := e.Render(); err != nil {
		return nil, err
	}

	return &Report{
		DataPath:  e.cfg.Output.Data,
		ImagePath: e.cfg.Output.Image,
		Samples:   traj.Len(),
		Metrics:   traj.Metrics,
		Elapsed:   time.Since(start),
	}, nil
}
