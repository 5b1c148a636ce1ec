package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/twosprings/internal/config"
)

// effectiveConfig runs "twosprings config" with args and parses its output.
func effectiveConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"config"}, args...))

	if err := root.Execute(); err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	if err := yaml.Unmarshal(out.Bytes(), cfg); err != nil {
		t.Fatalf("parse config output: %v\n%s", err, out.String())
	}
	return cfg, nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twosprings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := effectiveConfig(t)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if *cfg != *config.DefaultConfig() {
		t.Errorf("got %+v, want defaults %+v", *cfg, *config.DefaultConfig())
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	partial := writeFile(t, "output:\n  dpi: 80\n")
	full := writeFile(t, "params:\n  m1: 20\noutput:\n  data: from_file.dat\n  dpi: 80\n")

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "preset only",
			args: []string{"--preset", "undamped"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Params.B1 != 0 || cfg.Params.B2 != 0 {
					t.Errorf("damping = (%v, %v), want (0, 0)", cfg.Params.B1, cfg.Params.B2)
				}
			},
		},
		{
			name: "file overlays preset",
			args: []string{"--preset", "undamped", "--config", partial},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Params.B1 != 0 || cfg.Params.B2 != 0 {
					t.Errorf("damping = (%v, %v), preset lost", cfg.Params.B1, cfg.Params.B2)
				}
				if cfg.Output.DPI != 80 {
					t.Errorf("dpi = %d, want 80 from file", cfg.Output.DPI)
				}
			},
		},
		{
			name: "unset flags keep file values",
			args: []string{"--config", full},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Data != "from_file.dat" {
					t.Errorf("data = %q, want from_file.dat", cfg.Output.Data)
				}
				if cfg.Params.M1 != 20 {
					t.Errorf("m1 = %v, want 20", cfg.Params.M1)
				}
			},
		},
		{
			name: "set flags override file and preset",
			args: []string{"--preset", "long", "--config", full, "--data", "cli.dat", "--dpi", "70"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Data != "cli.dat" {
					t.Errorf("data = %q, want cli.dat", cfg.Output.Data)
				}
				if cfg.Output.DPI != 70 {
					t.Errorf("dpi = %d, want 70", cfg.Output.DPI)
				}
				if cfg.Solver.StopTime != 100 {
					t.Errorf("stoptime = %v, want 100 from preset", cfg.Solver.StopTime)
				}
				if cfg.Params.M1 != 20 {
					t.Errorf("m1 = %v, want 20 from file", cfg.Params.M1)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := effectiveConfig(t, tt.args...)
			if err != nil {
				t.Fatalf("config failed: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	if _, err := effectiveConfig(t, "--preset", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
