package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/twosprings/internal/analysis"
	"github.com/san-kum/twosprings/internal/config"
	"github.com/san-kum/twosprings/internal/dynamo"
	"github.com/san-kum/twosprings/internal/experiment"
	"github.com/san-kum/twosprings/internal/logging"
	"github.com/san-kum/twosprings/internal/physics"
	"github.com/san-kum/twosprings/internal/render"
	"github.com/san-kum/twosprings/internal/storage"
)

var (
	configFile string
	preset     string
	dataFile   string
	imageFile  string
	dpi        int
	logLevel   string
	logFormat  string

	// plot
	ascii       bool
	asciiWidth  int
	asciiHeight int

	// analyze
	windows int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("twosprings failed", slog.Any("error", err))
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			slog.Error("integration stopped", slog.Int("step", simErr.Step), slog.Float64("t", simErr.Time))
		}
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree and binds its flags to the package
// variables, resetting them to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "twosprings",
		Short:         "coupled spring-mass simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.Init(level, logFormat)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", config.DefaultDataFile, "trajectory data file")
	rootCmd.PersistentFlags().StringVar(&imageFile, "image", config.DefaultImageFile, "output image file")
	rootCmd.PersistentFlags().IntVar(&dpi, "dpi", config.DefaultDPI, "image resolution")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate, write the data file and plot it",
		Args:  cobra.NoArgs,
		RunE:  runPipeline,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate and write the data file",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot displacements from a data file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotData,
	}
	plotCmd.Flags().BoolVar(&ascii, "ascii", false, "print a terminal preview")
	plotCmd.Flags().IntVar(&asciiWidth, "width", 80, "preview width")
	plotCmd.Flags().IntVar(&asciiHeight, "height", 15, "preview height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "frequency and decay analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeData,
	}
	analyzeCmd.Flags().IntVar(&windows, "windows", 5, "amplitude envelope windows")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [file]",
		Short: "export a data file as json",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  printConfig,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, simulateCmd, plotCmd, analyzeCmd, exportJSONCmd, configCmd, presetsCmd)

	return rootCmd
}

// loadConfig resolves the effective configuration: defaults, then preset,
// then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("data") || cfg.Output.Data == "" {
		cfg.Output.Data = dataFile
	}
	if cmd.Flags().Changed("image") || cfg.Output.Image == "" {
		cfg.Output.Image = imageFile
	}
	if cmd.Flags().Changed("dpi") || cfg.Output.DPI == 0 {
		cfg.Output.DPI = dpi
	}

	return cfg, nil
}

// dataPath returns the file argument when given, else the configured data file.
func dataPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Output.Data
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	report, err := experiment.New(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("two springs"))
	fmt.Println(field("samples", report.Samples))
	fmt.Println(field("data", report.DataPath))
	fmt.Println(field("image", report.ImagePath))
	fmt.Println(field("elapsed", report.Elapsed))
	printMetrics(report.Metrics)

	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	traj, err := experiment.New(cfg).Simulate(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(field("samples", traj.Len()))
	fmt.Println(field("data", cfg.Output.Data))
	printMetrics(traj.Metrics)

	return nil
}

func plotData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Output.Data = dataPath(cfg, args)

	if ascii {
		traj, err := storage.Load(cfg.Output.Data)
		if err != nil {
			return err
		}
		fmt.Println(render.ASCII(traj, asciiWidth, asciiHeight))
		return nil
	}

	if _, err := experiment.New(cfg).Render(); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("wrote " + cfg.Output.Image))

	return nil
}

func analyzeData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := dataPath(cfg, args)

	traj, err := storage.Load(path)
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return fmt.Errorf("%s: need at least 2 samples, got %d", path, traj.Len())
	}

	dyn := physics.NewTwoSprings(cfg.Params)
	eq1, eq2 := dyn.Equilibrium()

	fmt.Println(titleStyle.Render("analysis: " + path))

	for _, c := range []struct {
		name   string
		column int
		center float64
	}{
		{"x1", render.ColumnX1, eq1},
		{"x2", render.ColumnX2, eq2},
	} {
		series := traj.Column(c.column)

		freq, err := analysis.DominantFrequency(traj.Times, series)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		fmt.Println(field(c.name+" dominant frequency", fmt.Sprintf("%.4f hz", freq)))
		if freq > 0 {
			fmt.Println(field(c.name+" period", fmt.Sprintf("%.4f s", 1/freq)))
		}

		env := analysis.Envelope(series, c.center, windows)
		fmt.Println(field(c.name+" envelope", fmt.Sprintf("%.4g", env)))
	}

	energy := analysis.EnergySeries(dyn, traj)
	e0, e1 := energy[0], energy[len(energy)-1]
	fmt.Println(field("energy", fmt.Sprintf("%.6g -> %.6g", e0, e1)))
	if e0 != 0 {
		fmt.Println(field("energy loss", fmt.Sprintf("%.2f%%", 100*(e0-e1)/e0)))
	}
	fmt.Println(field("energy non-increasing", analysis.NonIncreasing(energy, 1e-9*math.Abs(e0))))

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := dataPath(cfg, args)

	traj, err := storage.Load(path)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, path, traj)
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	fmt.Println(labelStyle.Render("metrics:"))
	for _, name := range []string{"energy_loss", "energy_drift"} {
		if v, ok := m[name]; ok {
			fmt.Printf("  %s %s\n", labelStyle.Render(name+":"), valueStyle.Render(fmt.Sprintf("%.6f", v)))
		}
	}
}
