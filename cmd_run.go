package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/wavegrid/config"
	"github.com/pthm-cable/wavegrid/encode"
	"github.com/pthm-cable/wavegrid/field"
	"github.com/pthm-cable/wavegrid/render"
	"github.com/pthm-cable/wavegrid/sim"
	"github.com/pthm-cable/wavegrid/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation, render its frames and encode the animation",
		RunE:  runSimulation,
	}

	f := cmd.Flags()
	f.Int("dims", 0, "Spatial dimensions (0 = use config)")
	f.Int("num-grid", 0, "Grid points per axis (0 = use config)")
	f.Int("snapshots", 0, "Number of frames (0 = use config)")
	f.Int("steps", 0, "Integrator steps between frames (0 = use config)")
	f.String("scheme", "", "Update scheme: wave | diffusion (empty = use config)")
	f.Float64("courant", 0, "Wave Courant number delta_t/delta_x (0 = use config)")
	f.String("output-dir", "", "Output directory for frames, CSV logs and animation")
	f.String("format", "", "Animation format: apng | mjpeg (empty = use config)")
	f.String("output", "", "Animation file (empty = <output-dir>/wave_<dims>d.<ext>)")
	f.Bool("no-render", false, "Skip rendering and encoding")
	f.Bool("no-encode", false, "Render frames but skip encoding")
	f.Bool("log-stats", false, "Log per-snapshot field and perf stats")
	f.String("cpuprofile", "", "Write a CPU profile to this file")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	if path, _ := cmd.Flags().GetString("cpuprofile"); path != "" {
		stop, err := startCPUProfile(path)
		if err != nil {
			return err
		}
		defer stop()
	}

	params, err := simParams(cfg)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	logStats, _ := cmd.Flags().GetBool("log-stats")
	opts := sim.PipelineOptions{LogStats: logStats}
	if cfg.Telemetry.Enabled {
		om, err := telemetry.NewOutputManager(cfg.Output.Dir)
		if err != nil {
			return err
		}
		defer om.Close()
		if err := om.WriteConfig(cfg); err != nil {
			return err
		}
		opts.Output = om
		opts.Collector = telemetry.NewCollector(cfg.Telemetry.GrowthFactor)
		opts.Perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	var renderer sim.Renderer
	if cfg.Render.Enabled {
		r, err := render.New(renderOptions(cfg))
		if err != nil {
			return err
		}
		renderer = r
	}

	var encoder sim.Encoder
	if cfg.Render.Enabled && cfg.Encode.Enabled {
		enc, err := encode.New(cfg.Encode.Format, encodeOptions(cfg))
		if err != nil {
			return err
		}
		encoder = enc
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"dims", params.Dims,
		"num_grid", params.NumGrid,
		"scheme", params.Scheme,
		"delta_t", params.TimeStep(),
		"snapshots", params.NumSnapshots,
		"steps_per_snapshot", params.StepsPerSnapshot,
	)

	res, err := sim.NewPipeline(params, renderer, encoder, opts).Execute(ctx)
	if err != nil {
		return err
	}

	slog.Info("simulation complete",
		"samples", res.Samples,
		"frames", len(res.Frames),
		"final_time", res.FinalTime,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	if encoder != nil && len(res.Frames) > 0 {
		slog.Info("animation written", "path", encodeOptions(cfg).Output)
	}
	if res.Unstable {
		slog.Warn("field grew without bound; lower the Courant number",
			"courant", cfg.Simulation.Courant,
			"dims", params.Dims,
		)
	}
	return nil
}

// applyRunFlags overrides config values with flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if v, _ := f.GetInt("dims"); v > 0 {
		cfg.Simulation.Dims = v
	}
	if v, _ := f.GetInt("num-grid"); v > 0 {
		cfg.Simulation.NumGrid = v
	}
	if f.Changed("snapshots") {
		cfg.Simulation.NumSnapshots, _ = f.GetInt("snapshots")
	}
	if f.Changed("steps") {
		cfg.Simulation.StepsPerSnapshot, _ = f.GetInt("steps")
	}
	if v, _ := f.GetString("scheme"); v != "" {
		cfg.Simulation.Scheme = v
	}
	if v, _ := f.GetFloat64("courant"); v > 0 {
		cfg.Simulation.Courant = v
	}
	if v, _ := f.GetString("output-dir"); v != "" {
		cfg.Output.Dir = v
	}
	if v, _ := f.GetString("format"); v != "" {
		cfg.Encode.Format = v
	}
	if v, _ := f.GetString("output"); v != "" {
		cfg.Encode.Output = v
	}
	if v, _ := f.GetBool("no-render"); v {
		cfg.Render.Enabled = false
	}
	if v, _ := f.GetBool("no-encode"); v {
		cfg.Encode.Enabled = false
	}
}

// simParams converts the simulation section to driver parameters.
func simParams(cfg *config.Config) (sim.Params, error) {
	scheme, err := field.ParseScheme(cfg.Simulation.Scheme)
	if err != nil {
		return sim.Params{}, err
	}
	return sim.Params{
		Dims:             cfg.Simulation.Dims,
		NumGrid:          cfg.Simulation.NumGrid,
		NumSnapshots:     cfg.Simulation.NumSnapshots,
		StepsPerSnapshot: cfg.Simulation.StepsPerSnapshot,
		Scheme:           scheme,
		Courant:          cfg.Simulation.Courant,
		AmplitudeScale:   cfg.Simulation.AmplitudeScale,
	}, nil
}

// framesDir resolves the frame directory against the output directory.
func framesDir(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Output.FramesDir) {
		return cfg.Output.FramesDir
	}
	return filepath.Join(cfg.Output.Dir, cfg.Output.FramesDir)
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Dir:      framesDir(cfg),
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		YMin:     cfg.Render.YMin,
		YMax:     cfg.Render.YMax,
		Heatmap:  cfg.Render.Heatmap,
		Gradient: cfg.Render.Gradient,
	}
}

func encodeOptions(cfg *config.Config) encode.Options {
	out := cfg.Encode.Output
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, encode.DefaultOutput(cfg.Encode.Format, cfg.Simulation.Dims))
	}
	return encode.Options{
		Output:      out,
		DelayNum:    cfg.Encode.DelayNum,
		DelayDen:    cfg.Encode.DelayDen,
		Loops:       cfg.Encode.Loops,
		JPEGQuality: cfg.Encode.JPEGQuality,
		Workers:     cfg.Encode.Workers,
	}
}
