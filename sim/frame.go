package sim

import (
	"github.com/pthm-cable/wavegrid/field"
)

// FrameSample is the field captured at one snapshot time. Field aliases the
// grid's current level: it is valid only until the consumer returns control
// to the driver, and must not be written.
type FrameSample struct {
	Index   int
	Time    float64
	Field   []float64
	NumGrid int
	Dims    int
	Scheme  field.Scheme
}

func (s FrameSample) stride(axis int) int {
	st := 1
	for a := axis + 1; a < s.Dims; a++ {
		st *= s.NumGrid
	}
	return st
}

// ValueAt reads the sampled field at c.
func (s FrameSample) ValueAt(c field.Coord) (float64, error) {
	if len(c) != s.Dims {
		return 0, field.ErrIndexOutOfBounds
	}
	off := 0
	for a, v := range c {
		if v < 0 || v >= s.NumGrid {
			return 0, field.ErrIndexOutOfBounds
		}
		off += v * s.stride(a)
	}
	return s.Field[off], nil
}

// centerOffset is the flat offset of the point with every index NumGrid/2.
func (s FrameSample) centerOffset() int {
	off := 0
	for a := 0; a < s.Dims; a++ {
		off += (s.NumGrid / 2) * s.stride(a)
	}
	return off
}

// Center returns the value at the grid center.
func (s FrameSample) Center() float64 {
	return s.Field[s.centerOffset()]
}

// Axis returns the physical coordinates of the grid points along any axis.
func (s FrameSample) Axis() []float64 {
	xs := make([]float64, s.NumGrid)
	for i := range xs {
		xs[i] = -1 + 2*float64(i)/float64(s.NumGrid-1)
	}
	return xs
}

// Profile copies the line through the grid center along axis. It returns nil
// for an axis outside [0, Dims).
func (s FrameSample) Profile(axis int) []float64 {
	if axis < 0 || axis >= s.Dims {
		return nil
	}
	st := s.stride(axis)
	base := s.centerOffset() - (s.NumGrid/2)*st
	out := make([]float64, s.NumGrid)
	for i := range out {
		out[i] = s.Field[base+i*st]
	}
	return out
}

// Plane copies the central slice spanned by axes 0 and 1, row-major with
// axis 0 as rows. For a 1D field it returns the single row.
func (s FrameSample) Plane() (rows, cols int, vals []float64) {
	if s.Dims == 1 {
		return 1, s.NumGrid, s.Profile(0)
	}
	s0, s1 := s.stride(0), s.stride(1)
	base := s.centerOffset() - (s.NumGrid/2)*s0 - (s.NumGrid/2)*s1
	vals = make([]float64, s.NumGrid*s.NumGrid)
	for i := 0; i < s.NumGrid; i++ {
		for j := 0; j < s.NumGrid; j++ {
			vals[i*s.NumGrid+j] = s.Field[base+i*s0+j*s1]
		}
	}
	return s.NumGrid, s.NumGrid, vals
}
