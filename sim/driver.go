// Package sim drives a wave simulation run: it samples the field at fixed
// step intervals and hands each sample to the rendering and encoding
// collaborators.
package sim

import (
	"fmt"
	"iter"

	"github.com/pthm-cable/wavegrid/field"
)

// Params is the in-memory configuration of one run.
type Params struct {
	Dims             int
	NumGrid          int
	NumSnapshots     int
	StepsPerSnapshot int

	Scheme         field.Scheme
	Courant        float64 // wave only; 0 = field.DefaultCourant
	AmplitudeScale float64 // 0 = field.DefaultAmplitudeScale
}

func (p Params) gridOptions() field.Options {
	return field.Options{Scheme: p.Scheme, Courant: p.Courant}
}

func (p Params) amplitudeScale() float64 {
	if p.AmplitudeScale == 0 {
		return field.DefaultAmplitudeScale
	}
	return p.AmplitudeScale
}

// NewGrid constructs and initializes the grid for p.
func (p Params) NewGrid() (*field.Grid, error) {
	g, err := field.NewWithOptions(p.Dims, p.NumGrid, p.gridOptions())
	if err != nil {
		return nil, err
	}
	field.ApplyGaussian(g, p.amplitudeScale())
	return g, nil
}

// Validate checks p without allocating field storage.
func (p Params) Validate() error {
	if p.NumSnapshots < 0 {
		return fmt.Errorf("%w: num_snapshots %d", field.ErrInvalidConfiguration, p.NumSnapshots)
	}
	if p.StepsPerSnapshot < 0 {
		return fmt.Errorf("%w: steps_per_snapshot %d", field.ErrInvalidConfiguration, p.StepsPerSnapshot)
	}
	return field.CheckConfig(p.Dims, p.NumGrid, p.gridOptions())
}

// TimeStep returns the delta_t a run with p uses.
func (p Params) TimeStep() float64 {
	return field.TimeStep(p.Scheme, p.NumGrid, p.Courant)
}

// Run returns the sequence of NumSnapshots samples of a fresh run. Each range
// over the sequence builds and initializes a new grid, yields the current
// field, then advances it StepsPerSnapshot steps before the next yield. The
// sample for snapshot i has time i·StepsPerSnapshot·delta_t.
//
// Configuration errors are reported here, before any iteration. Breaking out
// of the range stops the run without further steps.
func Run(p Params) (iter.Seq[FrameSample], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return func(yield func(FrameSample) bool) {
		g, err := p.NewGrid()
		if err != nil {
			// Validate covers every construction failure.
			panic(fmt.Sprintf("sim: grid construction failed after validation: %v", err))
		}
		it := field.NewIntegrator(g)
		for i := 0; i < p.NumSnapshots; i++ {
			sample := FrameSample{
				Index:   i,
				Time:    float64(i*p.StepsPerSnapshot) * g.DeltaT(),
				Field:   g.Current(),
				NumGrid: g.NumGrid(),
				Dims:    g.Dims(),
				Scheme:  g.Scheme(),
			}
			if !yield(sample) {
				return
			}
			it.StepN(p.StepsPerSnapshot)
		}
	}, nil
}
