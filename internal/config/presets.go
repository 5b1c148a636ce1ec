package config

import "sort"

// Presets are named variations of the default scenario. Each function
// mutates a fresh default config.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"undamped": func(c *Config) {
		c.Params.B1, c.Params.B2 = 0, 0
	},
	"overdamped": func(c *Config) {
		c.Params.B1, c.Params.B2 = 40, 40
		c.Solver.StopTime = 30
	},
	"stiff_coupling": func(c *Config) {
		c.Params.K2 = 60
		c.Solver.NumPoints = 1000
	},
	"long": func(c *Config) {
		c.Solver.StopTime = 100
		c.Solver.NumPoints = 2500
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
