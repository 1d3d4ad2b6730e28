// Package field holds the discretized scalar field for the wave solver: a
// dimension-generic grid over [-1, 1]^D, the Gaussian initial condition, and
// the explicit stencil integrator that advances it.
package field

import (
	"fmt"
	"math"
)

// MinNumGrid is the smallest resolution with at least one interior point.
const MinNumGrid = 3

// Options configures grid construction.
type Options struct {
	Scheme  Scheme
	Courant float64 // delta_t/delta_x for the wave scheme (0 = DefaultCourant)
}

// Grid is a dense scalar field sampled at NumGrid points per axis over the
// cube [-1, 1]^D. Values live in flat row-major buffers; the last axis is
// contiguous.
type Grid struct {
	dims    int
	numGrid int
	size    int
	strides []int

	deltaX float64
	deltaT float64
	scheme Scheme

	current  []float64
	previous []float64 // nil for Diffusion
	scratch  []float64

	initialized bool
}

// New allocates a zero-filled grid using the default Courant number.
func New(dims, numGrid int, scheme Scheme) (*Grid, error) {
	return NewWithOptions(dims, numGrid, Options{Scheme: scheme})
}

// CheckConfig reports whether a grid with these settings can be built,
// without allocating it.
func CheckConfig(dims, numGrid int, opts Options) error {
	if dims < 1 {
		return fmt.Errorf("%w: dimensionality %d, need at least 1", ErrInvalidConfiguration, dims)
	}
	if numGrid < MinNumGrid {
		return fmt.Errorf("%w: num_grid %d, need at least %d", ErrInvalidConfiguration, numGrid, MinNumGrid)
	}
	if opts.Scheme != Wave && opts.Scheme != Diffusion {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, opts.Scheme)
	}
	if opts.Courant < 0 || math.IsNaN(opts.Courant) || math.IsInf(opts.Courant, 0) {
		return fmt.Errorf("%w: courant number %v", ErrInvalidConfiguration, opts.Courant)
	}
	size := 1
	for a := 0; a < dims; a++ {
		if size > math.MaxInt/numGrid {
			return fmt.Errorf("%w: %d^%d points overflow", ErrInvalidConfiguration, numGrid, dims)
		}
		size *= numGrid
	}
	return nil
}

// NewWithOptions allocates a zero-filled grid of numGrid^dims points.
func NewWithOptions(dims, numGrid int, opts Options) (*Grid, error) {
	if err := CheckConfig(dims, numGrid, opts); err != nil {
		return nil, err
	}

	strides := make([]int, dims)
	size := 1
	for a := dims - 1; a >= 0; a-- {
		strides[a] = size
		size *= numGrid
	}

	g := &Grid{
		dims:    dims,
		numGrid: numGrid,
		size:    size,
		strides: strides,
		deltaX:  2.0 / float64(numGrid-1),
		deltaT:  TimeStep(opts.Scheme, numGrid, opts.Courant),
		scheme:  opts.Scheme,
		current: make([]float64, size),
		scratch: make([]float64, size),
	}
	if opts.Scheme.Levels() == 2 {
		g.previous = make([]float64, size)
	}
	return g, nil
}

func (g *Grid) Dims() int { return g.dims }
func (g *Grid) NumGrid() int { return g.numGrid }
func (g *Grid) Len() int { return g.size }
func (g *Grid) DeltaX() float64 { return g.deltaX }
func (g *Grid) DeltaT() float64 { return g.deltaT }
func (g *Grid) Scheme() Scheme { return g.scheme }
func (g *Grid) Initialized() bool { return g.initialized }

// Courant returns delta_t/delta_x.
func (g *Grid) Courant() float64 { return g.deltaT / g.deltaX }

// Strides returns a copy of the row-major strides.
func (g *Grid) Strides() []int {
	out := make([]int, len(g.strides))
	copy(out, g.strides)
	return out
}

// Current returns the current time level. The slice aliases grid storage and
// is replaced on every Step.
func (g *Grid) Current() []float64 { return g.current }

// Previous returns the prior time level, or nil for the diffusion scheme.
func (g *Grid) Previous() []float64 { return g.previous }

// Physical maps an integer index on any axis to its coordinate in [-1, 1].
func (g *Grid) Physical(i int) float64 {
	return -1 + 2*float64(i)/float64(g.numGrid-1)
}

// Offset converts a coordinate to its flat buffer offset.
func (g *Grid) Offset(c Coord) (int, error) {
	if len(c) != g.dims {
		return 0, fmt.Errorf("%w: coordinate %v has %d components, grid has %d axes",
			ErrIndexOutOfBounds, c, len(c), g.dims)
	}
	off := 0
	for a, v := range c {
		if v < 0 || v >= g.numGrid {
			return 0, fmt.Errorf("%w: coordinate %v axis %d not in [0, %d)",
				ErrIndexOutOfBounds, c, a, g.numGrid)
		}
		off += v * g.strides[a]
	}
	return off, nil
}

// CoordAt is the inverse of Offset.
func (g *Grid) CoordAt(off int) (Coord, error) {
	if off < 0 || off >= g.size {
		return nil, fmt.Errorf("%w: offset %d not in [0, %d)", ErrIndexOutOfBounds, off, g.size)
	}
	c := make(Coord, g.dims)
	for a, s := range g.strides {
		c[a] = off / s
		off %= s
	}
	return c, nil
}

// ValueAt reads the current time level.
func (g *Grid) ValueAt(c Coord) (float64, error) {
	off, err := g.Offset(c)
	if err != nil {
		return 0, err
	}
	return g.current[off], nil
}

// PreviousAt reads the prior time level. For the diffusion scheme it returns
// the current value.
func (g *Grid) PreviousAt(c Coord) (float64, error) {
	off, err := g.Offset(c)
	if err != nil {
		return 0, err
	}
	if g.previous == nil {
		return g.current[off], nil
	}
	return g.previous[off], nil
}

// SetValueAt writes the current time level. Boundary points are written to
// every level since the integrator never updates them.
func (g *Grid) SetValueAt(c Coord, v float64) error {
	off, err := g.Offset(c)
	if err != nil {
		return err
	}
	g.current[off] = v
	if g.IsBoundary(c) {
		g.scratch[off] = v
		if g.previous != nil {
			g.previous[off] = v
		}
	}
	return nil
}

// IsBoundary reports whether any component of c is 0 or NumGrid-1.
func (g *Grid) IsBoundary(c Coord) bool {
	last := g.numGrid - 1
	for _, v := range c {
		if v == 0 || v == last {
			return true
		}
	}
	return false
}

// CenterCoord returns the coordinate with every component NumGrid/2.
func (g *Grid) CenterCoord() Coord {
	c := make(Coord, g.dims)
	for a := range c {
		c[a] = g.numGrid / 2
	}
	return c
}

// markInitialized settles every time level on the current values so that
// the buffer rotation in Step never surfaces stale boundary data.
func (g *Grid) markInitialized() {
	copy(g.scratch, g.current)
	if g.previous != nil {
		copy(g.previous, g.current)
	}
	g.initialized = true
}
