package field

import (
	"iter"
	"slices"
)

// Coord is an integer grid coordinate, one component per axis.
type Coord []int

// Reflect mirrors c through the grid center.
func (c Coord) Reflect(numGrid int) Coord {
	out := make(Coord, len(c))
	for a, v := range c {
		out[a] = numGrid - 1 - v
	}
	return out
}

// All yields every coordinate in row-major order.
func (g *Grid) All() iter.Seq[Coord] {
	return g.box(0, g.numGrid-1)
}

// Interior yields every coordinate whose components all lie strictly inside
// (0, NumGrid-1), in row-major order. Each range restarts from the first
// interior point; yielded coordinates are owned by the caller.
func (g *Grid) Interior() iter.Seq[Coord] {
	return g.box(1, g.numGrid-2)
}

// Boundary yields every coordinate with at least one component equal to 0 or
// NumGrid-1, in row-major order.
func (g *Grid) Boundary() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for c := range g.All() {
			if g.IsBoundary(c) && !yield(c) {
				return
			}
		}
	}
}

// box walks the hypercube [lo, hi]^D with the last axis varying fastest.
func (g *Grid) box(lo, hi int) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		if lo > hi {
			return
		}
		idx := make(Coord, g.dims)
		for a := range idx {
			idx[a] = lo
		}
		for {
			if !yield(slices.Clone(idx)) {
				return
			}
			a := g.dims - 1
			for ; a >= 0; a-- {
				if idx[a] < hi {
					idx[a]++
					break
				}
				idx[a] = lo
			}
			if a < 0 {
				return
			}
		}
	}
}

// sweepInterior calls fn with the flat offset of every interior point in
// row-major order without allocating coordinates.
func (g *Grid) sweepInterior(fn func(off int)) {
	hi := g.numGrid - 2
	idx := make([]int, g.dims)
	off := 0
	for a := range idx {
		idx[a] = 1
		off += g.strides[a]
	}
	for {
		fn(off)
		a := g.dims - 1
		for ; a >= 0; a-- {
			if idx[a] < hi {
				idx[a]++
				off += g.strides[a]
				break
			}
			off -= (idx[a] - 1) * g.strides[a]
			idx[a] = 1
		}
		if a < 0 {
			return
		}
	}
}
