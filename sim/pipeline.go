package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/wavegrid/telemetry"
)

// Renderer turns one sample into an image file and returns its path. It must
// not retain or modify sample.Field after returning.
type Renderer interface {
	Render(sample FrameSample) (string, error)
}

// Encoder assembles rendered frames, in order, into an animation.
type Encoder interface {
	Encode(ctx context.Context, paths []string) error
}

// PipelineOptions configures the optional telemetry hooks of a Pipeline.
// Nil fields are disabled.
type PipelineOptions struct {
	Collector *telemetry.Collector
	Perf      *telemetry.PerfCollector
	Output    *telemetry.OutputManager
	LogStats  bool // Log each snapshot's probe via slog
}

// Result summarizes a completed run.
type Result struct {
	Frames    []string // Rendered paths in snapshot order
	Samples   int
	FinalTime float64 // Time of the last sample
	Unstable  bool    // Telemetry saw non-finite or runaway values
	Elapsed   time.Duration
	Encode    time.Duration
}

// Pipeline connects the driver to its rendering and encoding collaborators.
type Pipeline struct {
	params   Params
	renderer Renderer
	encoder  Encoder
	opts     PipelineOptions
}

// NewPipeline creates a pipeline. A nil renderer skips rendering; a nil
// encoder, or no rendered frames, skips encoding.
func NewPipeline(params Params, renderer Renderer, encoder Encoder, opts PipelineOptions) *Pipeline {
	return &Pipeline{
		params:   params,
		renderer: renderer,
		encoder:  encoder,
		opts:     opts,
	}
}

// Execute runs the simulation, rendering every sample in time order, then
// encodes the rendered frames. Cancellation is checked between samples.
func (p *Pipeline) Execute(ctx context.Context) (Result, error) {
	var res Result

	samples, err := Run(p.params)
	if err != nil {
		return res, err
	}

	start := time.Now()
	perf := p.opts.Perf
	cycleOpen := false
	endCycle := func(snapshot int) {
		if perf == nil || !cycleOpen {
			return
		}
		perf.EndCycle()
		cycleOpen = false
		if err := p.opts.Output.WritePerf(perf.Stats(), snapshot); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for s := range samples {
		// The previous cycle's step phase ends when the driver yields again.
		endCycle(s.Index - 1)
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if perf != nil {
			perf.StartCycle()
			perf.StartPhase(telemetry.PhaseProbe)
			cycleOpen = true
		}

		p.probe(s)

		if p.renderer != nil {
			if perf != nil {
				perf.StartPhase(telemetry.PhaseRender)
			}
			path, err := p.renderer.Render(s)
			if err != nil {
				return res, fmt.Errorf("rendering frame %d: %w", s.Index, err)
			}
			res.Frames = append(res.Frames, path)
		}

		res.Samples++
		res.FinalTime = s.Time
		if perf != nil {
			perf.StartPhase(telemetry.PhaseStep)
		}
	}
	endCycle(res.Samples - 1)
	res.Elapsed = time.Since(start)

	if c := p.opts.Collector; c != nil {
		res.Unstable = c.Unstable()
	}
	if perf != nil && p.opts.LogStats {
		perf.Stats().LogStats()
	}

	if p.encoder == nil || len(res.Frames) == 0 {
		return res, nil
	}
	d, err := telemetry.Time(func() error {
		return p.encoder.Encode(ctx, res.Frames)
	})
	res.Encode = d
	if err != nil {
		return res, fmt.Errorf("encoding %d frames: %w", len(res.Frames), err)
	}
	slog.Info("animation encoded", "frames", len(res.Frames), "duration", d.Round(time.Millisecond))
	return res, nil
}

// probe records the sample's statistics while its field is still valid.
func (p *Pipeline) probe(s FrameSample) {
	c := p.opts.Collector
	if c == nil {
		return
	}
	stats := c.Record(s.Index, s.Time, s.Center(), s.Field)
	if p.opts.LogStats {
		stats.LogStats()
	}
	if err := p.opts.Output.WriteProbe(stats); err != nil {
		slog.Error("failed to write probe", "error", err)
	}
}
