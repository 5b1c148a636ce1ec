package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/twosprings/internal/dynamo"
	"github.com/san-kum/twosprings/internal/physics"
	"github.com/san-kum/twosprings/internal/sim"
)

const (
	DefaultX1 = 0.5
	DefaultY1 = 0.0
	DefaultX2 = 2.25
	DefaultY2 = 0.0

	DefaultDataFile  = "two_springs.dat"
	DefaultImageFile = "two_springs.png"
	DefaultDPI       = 50
)

type Config struct {
	Params    physics.Params  `yaml:"params"`
	InitState InitStateConfig `yaml:"init_state"`
	Solver    sim.Config      `yaml:"solver"`
	Output    OutputConfig    `yaml:"output"`
}

// InitStateConfig holds the initial displacements (x) and velocities (y).
type InitStateConfig struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

type OutputConfig struct {
	Data  string `yaml:"data"`
	Image string `yaml:"image"`
	DPI   int    `yaml:"dpi"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: physics.DefaultParams(),
		InitState: InitStateConfig{
			X1: DefaultX1,
			Y1: DefaultY1,
			X2: DefaultX2,
			Y2: DefaultY2,
		},
		Solver: sim.DefaultConfig(),
		Output: OutputConfig{
			Data:  DefaultDataFile,
			Image: DefaultImageFile,
			DPI:   DefaultDPI,
		},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the YAML file at path onto cfg. Only keys present in the
// file are changed.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if !c.GetInitState().IsValid() {
		return fmt.Errorf("init_state: %w", dynamo.ErrInvalidState)
	}
	if c.Output.Data == "" {
		return fmt.Errorf("%w: output data path is empty", dynamo.ErrParameterBounds)
	}
	if c.Output.Image == "" {
		return fmt.Errorf("%w: output image path is empty", dynamo.ErrParameterBounds)
	}
	if c.Output.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", dynamo.ErrParameterBounds, c.Output.DPI)
	}
	return nil
}

// GetInitState packs the initial conditions as (x1, y1, x2, y2).
func (c *Config) GetInitState() dynamo.State {
	return dynamo.State{c.InitState.X1, c.InitState.Y1, c.InitState.X2, c.InitState.Y2}
}
