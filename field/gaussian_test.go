package field

import (
	"math"
	"testing"
)

func newInitialized(t *testing.T, dims, numGrid int, opts Options) *Grid {
	t.Helper()
	g, err := NewWithOptions(dims, numGrid, opts)
	if err != nil {
		t.Fatalf("NewWithOptions(%d, %d): %v", dims, numGrid, err)
	}
	ApplyGaussian(g, DefaultAmplitudeScale)
	return g
}

func TestApplyGaussianCenterValue(t *testing.T) {
	for dims := 1; dims <= 4; dims++ {
		for _, n := range []int{5, 6, 11} {
			g := newInitialized(t, dims, n, Options{})
			c := g.CenterCoord()
			x := g.Physical(n / 2)
			want := math.Exp(DefaultAmplitudeScale * float64(dims) * x * x)

			got, err := g.ValueAt(c)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("dims=%d n=%d: center = %v, want %v", dims, n, got, want)
			}
		}
	}
}

func TestApplyGaussianMatchesFormula(t *testing.T) {
	g := newInitialized(t, 2, 7, Options{})
	for c := range g.Interior() {
		var r2 float64
		for _, i := range c {
			x := g.Physical(i)
			r2 += x * x
		}
		want := math.Exp(-40 * r2)
		got, _ := g.ValueAt(c)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("value at %v = %v, want %v", c, got, want)
		}
	}
}

func TestApplyGaussianZeroesOriginAxes(t *testing.T) {
	for dims := 1; dims <= 4; dims++ {
		n := 5
		g := newInitialized(t, dims, n, Options{})

		zeroed := make(map[int]bool)
		for c := range ZeroedBoundary(g) {
			if !g.IsBoundary(c) {
				t.Fatalf("dims=%d: zeroed point %v is not on the boundary", dims, c)
			}
			off, _ := g.Offset(c)
			zeroed[off] = true
			if v, _ := g.ValueAt(c); v != 0 {
				t.Errorf("dims=%d: value at %v = %v, want exactly 0", dims, c, v)
			}
			if v, _ := g.PreviousAt(c); v != 0 {
				t.Errorf("dims=%d: previous at %v = %v, want exactly 0", dims, c, v)
			}
		}

		want := dims*(n-1) + 1
		if dims == 1 {
			want = 2
		}
		if len(zeroed) != want {
			t.Errorf("dims=%d: %d zeroed points, want %d", dims, len(zeroed), want)
		}

		// The rest of the boundary keeps its Gaussian value.
		for c := range g.Boundary() {
			off, _ := g.Offset(c)
			if zeroed[off] {
				continue
			}
			if v, _ := g.ValueAt(c); v <= 0 {
				t.Errorf("dims=%d: unzeroed boundary point %v = %v, want > 0", dims, c, v)
			}
		}
	}
}

func TestApplyGaussianOneDimensionalScenario(t *testing.T) {
	g := newInitialized(t, 1, 5, Options{})
	want := []float64{0, math.Exp(-10), 1, math.Exp(-10), 0}
	for i, w := range want {
		got, _ := g.ValueAt(Coord{i})
		if math.Abs(got-w) > 1e-15 {
			t.Errorf("value[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestApplyGaussianReflectionSymmetry(t *testing.T) {
	for dims := 1; dims <= 4; dims++ {
		g := newInitialized(t, dims, 9, Options{})
		for c := range g.Interior() {
			a, _ := g.ValueAt(c)
			b, _ := g.ValueAt(c.Reflect(9))
			if math.Abs(a-b) > 1e-12*math.Max(1, math.Abs(a)) {
				t.Errorf("dims=%d: value(%v)=%v != value(reflect)=%v", dims, c, a, b)
			}
		}
	}
}

func TestApplyGaussianZeroInitialVelocity(t *testing.T) {
	g := newInitialized(t, 3, 7, Options{})
	for i := range g.current {
		if g.current[i] != g.previous[i] {
			t.Fatalf("current[%d]=%v previous[%d]=%v", i, g.current[i], i, g.previous[i])
		}
		if g.scratch[i] != g.current[i] {
			t.Fatalf("scratch[%d] not settled on current", i)
		}
	}
	if !g.Initialized() {
		t.Error("expected grid to be initialized")
	}
}

func TestApplyGaussianCustomScale(t *testing.T) {
	g := newInitialized(t, 1, 5, Options{})
	ApplyGaussian(g, -1)
	got, _ := g.ValueAt(Coord{1})
	if want := math.Exp(-0.25); math.Abs(got-want) > 1e-15 {
		t.Errorf("value[1] = %v, want %v", got, want)
	}
}
