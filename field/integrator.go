package field

// State is the integrator lifecycle.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Integrator advances a Grid with the explicit stencil update selected by the
// grid's Scheme. It owns the grid's buffers for the length of a run.
type Integrator struct {
	grid  *Grid
	steps int
}

// NewIntegrator binds an integrator to g.
func NewIntegrator(g *Grid) *Integrator {
	return &Integrator{grid: g}
}

// Grid returns the grid being advanced.
func (it *Integrator) Grid() *Grid { return it.grid }

// State reports Ready once the grid has been initialized.
func (it *Integrator) State() State {
	if it.grid.initialized {
		return Ready
	}
	return Uninitialized
}

// Steps returns the number of completed steps.
func (it *Integrator) Steps() int { return it.steps }

// Time returns the simulation time reached, Steps·delta_t.
func (it *Integrator) Time() float64 { return float64(it.steps) * it.grid.deltaT }

// Step advances the field by one time step. Every interior point is computed
// from the settled current (and previous) level into scratch; the buffers
// then rotate so that previous ← current and current ← scratch. Boundary
// points are never written. Overflow and NaN are not detected.
//
// Step panics if the grid has not been initialized.
func (it *Integrator) Step() {
	g := it.grid
	if !g.initialized {
		panic("field: Step called before the grid was initialized")
	}

	invDx2 := 1 / (g.deltaX * g.deltaX)
	cur, next := g.current, g.scratch
	strides := g.strides

	switch g.scheme {
	case Diffusion:
		r := g.deltaT * invDx2
		g.sweepInterior(func(o int) {
			c := cur[o]
			var lap float64
			for _, s := range strides {
				lap += cur[o+s] - 2*c + cur[o-s]
			}
			next[o] = c + r*lap
		})
		g.current, g.scratch = next, cur
	default:
		prev := g.previous
		r := g.deltaT * g.deltaT * invDx2
		g.sweepInterior(func(o int) {
			c := cur[o]
			var lap float64
			for _, s := range strides {
				lap += cur[o+s] - 2*c + cur[o-s]
			}
			next[o] = 2*c - prev[o] + r*lap
		})
		g.previous, g.current, g.scratch = cur, next, prev
	}
	it.steps++
}

// StepN calls Step n times.
func (it *Integrator) StepN(n int) {
	for i := 0; i < n; i++ {
		it.Step()
	}
}
