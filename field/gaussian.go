package field

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultAmplitudeScale is the exponent factor of the initial bump,
// exp(-40·|x|²).
const DefaultAmplitudeScale = -40.0

// ApplyGaussian fills the grid with exp(amplitudeScale·Σ x_i²) centered on the
// origin, identically on every time level so the initial velocity is zero,
// and then zeroes the boundary points yielded by ZeroedBoundary. The grid is
// Ready for stepping afterwards.
func ApplyGaussian(g *Grid, amplitudeScale float64) {
	sq := floats.Span(make([]float64, g.numGrid), -1, 1)
	for i, x := range sq {
		sq[i] = x * x
	}

	idx := make([]int, g.dims)
	for off := range g.current {
		var r2 float64
		for _, i := range idx {
			r2 += sq[i]
		}
		g.current[off] = math.Exp(amplitudeScale * r2)

		for a := g.dims - 1; a >= 0; a-- {
			idx[a]++
			if idx[a] < g.numGrid {
				break
			}
			idx[a] = 0
		}
	}

	for c := range ZeroedBoundary(g) {
		off, _ := g.Offset(c)
		g.current[off] = 0
	}
	g.markInitialized()
}

// ZeroedBoundary yields the boundary points held at zero by ApplyGaussian:
// those on the grid lines through the origin corner, where every component
// but one is 0. In 1D that is just the two end points. The rest of the
// boundary keeps its Gaussian value.
func ZeroedBoundary(g *Grid) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		seen := make(map[int]bool)
		for a := 0; a < g.dims; a++ {
			for i := 0; i < g.numGrid; i++ {
				c := make(Coord, g.dims)
				c[a] = i
				if !g.IsBoundary(c) {
					continue
				}
				off := i * g.strides[a]
				if seen[off] {
					continue
				}
				seen[off] = true
				if !yield(c) {
					return
				}
			}
		}
	}
}
