package telemetry

import (
	"log/slog"
	"math"
)

// DefaultGrowthFactor flags a run whose max |u| exceeds the first snapshot's
// by more than this factor.
const DefaultGrowthFactor = 10.0

// Collector accumulates per-snapshot field statistics and watches for
// numerical blow-up. The solver itself never checks; this is the caller-side
// monitor.
type Collector struct {
	growthFactor float64

	reference float64
	history   []FieldStats
	unstable  bool
}

// NewCollector creates a new stats collector.
// growthFactor: max |u| ratio to the first snapshot above which the run is
// flagged unstable (<= 0 uses DefaultGrowthFactor).
func NewCollector(growthFactor float64) *Collector {
	if growthFactor <= 0 {
		growthFactor = DefaultGrowthFactor
	}
	return &Collector{growthFactor: growthFactor}
}

// Record computes and stores the stats for one snapshot. values is only read
// during the call.
func (c *Collector) Record(snapshot int, simTime, center float64, values []float64) FieldStats {
	s := ComputeFieldStats(values)
	s.Snapshot = snapshot
	s.SimTime = simTime
	s.Center = center

	peak := s.AbsMax()
	if len(c.history) == 0 {
		c.reference = peak
	}
	if c.reference > 0 {
		s.Growth = peak / c.reference
	}

	if !c.unstable && (!s.Finite || s.Growth > c.growthFactor || math.IsNaN(s.Growth)) {
		c.unstable = true
		slog.Warn("field growth exceeds stability threshold",
			"snapshot", snapshot,
			"sim_time", simTime,
			"growth", s.Growth,
			"finite", s.Finite,
			"threshold", c.growthFactor,
		)
	}

	c.history = append(c.history, s)
	return s
}

// Unstable reports whether any recorded snapshot was non-finite or grew past
// the threshold.
func (c *Collector) Unstable() bool {
	return c.unstable
}

// History returns the recorded stats in snapshot order.
func (c *Collector) History() []FieldStats {
	return c.history
}

// Last returns the most recent stats.
func (c *Collector) Last() (FieldStats, bool) {
	if len(c.history) == 0 {
		return FieldStats{}, false
	}
	return c.history[len(c.history)-1], true
}
