package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/twosprings/internal/dynamo"
)

func TestTimeGrid_Default(t *testing.T) {
	grid, err := TimeGrid(10.0, 250)
	if err != nil {
		t.Fatalf("TimeGrid failed: %v", err)
	}

	if len(grid) != 250 {
		t.Fatalf("expected 250 points, got %d", len(grid))
	}
	if grid[0] != 0.0 {
		t.Errorf("grid[0] = %v, want 0", grid[0])
	}
	if grid[249] != 10.0 {
		t.Errorf("grid[249] = %v, want 10", grid[249])
	}

	spacing := 10.0 / 249
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			t.Fatalf("grid not strictly increasing at %d: %v <= %v", i, grid[i], grid[i-1])
		}
		if d := grid[i] - grid[i-1]; math.Abs(d-spacing) > 1e-12 {
			t.Errorf("spacing at %d = %v, want %v", i, d, spacing)
		}
	}
}

func TestTimeGrid_MatchesClosedForm(t *testing.T) {
	grid, err := TimeGrid(3.0, 7)
	if err != nil {
		t.Fatalf("TimeGrid failed: %v", err)
	}
	for i, v := range grid {
		want := 3.0 * float64(i) / 6
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("grid[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestTimeGrid_Invalid(t *testing.T) {
	tests := []struct {
		name string
		stop float64
		n    int
		grid bool
	}{
		{"one point", 10, 1, true},
		{"zero points", 10, 0, true},
		{"negative points", 10, -5, true},
		{"zero stop", 0, 250, false},
		{"negative stop", -1, 250, false},
		{"NaN stop", math.NaN(), 250, false},
		{"Inf stop", math.Inf(1), 250, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TimeGrid(tt.stop, tt.n)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("error %v does not wrap ErrParameterBounds", err)
			}
			if tt.grid && !errors.Is(err, ErrGridTooSmall) {
				t.Errorf("error %v does not wrap ErrGridTooSmall", err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"relerr only", func(c *Config) { c.Tolerance.Abs = 0 }, false},
		{"single point", func(c *Config) { c.NumPoints = 1 }, true},
		{"zero stop", func(c *Config) { c.StopTime = 0 }, true},
		{"negative abserr", func(c *Config) { c.Tolerance.Abs = -1e-8 }, true},
		{"both tolerances zero", func(c *Config) { c.Tolerance = dynamo.Tolerance{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StopTime != 10.0 || cfg.NumPoints != 250 {
		t.Errorf("unexpected grid defaults: %+v", cfg)
	}
	if cfg.Tolerance.Abs != 1e-8 || cfg.Tolerance.Rel != 1e-6 {
		t.Errorf("unexpected tolerance defaults: %+v", cfg.Tolerance)
	}
}
