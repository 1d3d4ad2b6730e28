package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// FieldStats summarizes the field at one snapshot.
type FieldStats struct {
	Snapshot int     `csv:"snapshot"`
	SimTime  float64 `csv:"sim_time"`

	Center float64 `csv:"center"`
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
	Mean   float64 `csv:"mean"`
	AbsP90 float64 `csv:"abs_p90"`
	L2     float64 `csv:"l2"`

	// Growth is max |u| relative to the first snapshot's max |u|.
	Growth float64 `csv:"growth"`
	Finite bool    `csv:"finite"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFieldStats calculates the distribution of a field. Snapshot, SimTime,
// Center and Growth are left for the caller.
func ComputeFieldStats(values []float64) FieldStats {
	n := len(values)
	if n == 0 {
		return FieldStats{Finite: true}
	}

	s := FieldStats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   floats.Sum(values) / float64(n),
		L2:     floats.Norm(values, 2),
		Finite: true,
	}

	abs := make([]float64, n)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.Finite = false
		}
		abs[i] = math.Abs(v)
	}
	sort.Float64s(abs)
	s.AbsP90 = Percentile(abs, 0.90)

	return s
}

// AbsMax is the larger magnitude of Min and Max.
func (s FieldStats) AbsMax() float64 {
	return math.Max(math.Abs(s.Min), math.Abs(s.Max))
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("snapshot", s.Snapshot),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("center", s.Center),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("abs_p90", s.AbsP90),
		slog.Float64("l2", s.L2),
		slog.Float64("growth", s.Growth),
		slog.Bool("finite", s.Finite),
	)
}

// LogStats logs the snapshot stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("snapshot",
		"snapshot", s.Snapshot,
		"sim_time", s.SimTime,
		"center", s.Center,
		"min", s.Min,
		"max", s.Max,
		"l2", s.L2,
	)
}
