package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one snapshot cycle.
const (
	PhaseProbe  = "probe"
	PhaseRender = "render"
	PhaseStep   = "step"
	PhaseEncode = "encode"
)

// PerfSample holds timing data for a single snapshot cycle.
type PerfSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	cycleStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of snapshot cycles to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartCycle begins timing a new snapshot cycle.
func (p *PerfCollector) StartCycle() {
	p.cycleStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndCycle finishes timing the current cycle and records the sample.
func (p *PerfCollector) EndCycle() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		Duration: now.Sub(p.cycleStart),
		Phases:   p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Cycle timing
	AvgCycle time.Duration
	MinCycle time.Duration
	MaxCycle time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total cycle time
	PhasePct map[string]float64

	// Throughput
	CyclesPerSec float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalCycle time.Duration
	var minCycle, maxCycle time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalCycle += s.Duration

		if i == 0 || s.Duration < minCycle {
			minCycle = s.Duration
		}
		if s.Duration > maxCycle {
			maxCycle = s.Duration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgCycle := totalCycle / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgCycle > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgCycle) * 100
		}
	}

	// Calculate throughput
	var cyclesPerSec float64
	if avgCycle > 0 {
		cyclesPerSec = float64(time.Second) / float64(avgCycle)
	}

	return PerfStats{
		AvgCycle:     avgCycle,
		MinCycle:     minCycle,
		MaxCycle:     maxCycle,
		PhaseAvg:     phaseAvg,
		PhasePct:     phasePct,
		CyclesPerSec: cyclesPerSec,
	}
}

// Time runs fn and returns how long it took, for one-off phases such as
// encoding that sit outside the snapshot cycle.
func Time(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_cycle_us", s.AvgCycle.Microseconds(),
		"min_cycle_us", s.MinCycle.Microseconds(),
		"max_cycle_us", s.MaxCycle.Microseconds(),
		"cycles_per_sec", int(s.CyclesPerSec),
	}

	// Add phase breakdowns
	phases := []string{PhaseProbe, PhaseRender, PhaseStep}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_cycle_us", s.AvgCycle.Microseconds()),
		slog.Int64("min_cycle_us", s.MinCycle.Microseconds()),
		slog.Int64("max_cycle_us", s.MaxCycle.Microseconds()),
		slog.Float64("cycles_per_sec", s.CyclesPerSec),
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Snapshot     int     `csv:"snapshot"`
	AvgCycleUS   int64   `csv:"avg_cycle_us"`
	MinCycleUS   int64   `csv:"min_cycle_us"`
	MaxCycleUS   int64   `csv:"max_cycle_us"`
	CyclesPerSec float64 `csv:"cycles_per_sec"`
	ProbePct     float64 `csv:"probe_pct"`
	RenderPct    float64 `csv:"render_pct"`
	StepPct      float64 `csv:"step_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(snapshot int) PerfStatsCSV {
	return PerfStatsCSV{
		Snapshot:     snapshot,
		AvgCycleUS:   s.AvgCycle.Microseconds(),
		MinCycleUS:   s.MinCycle.Microseconds(),
		MaxCycleUS:   s.MaxCycle.Microseconds(),
		CyclesPerSec: s.CyclesPerSec,
		ProbePct:     s.PhasePct[PhaseProbe],
		RenderPct:    s.PhasePct[PhaseRender],
		StepPct:      s.PhasePct[PhaseStep],
	}
}
