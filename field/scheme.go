package field

import (
	"fmt"
	"strings"
)

// Scheme selects the time-stepping update applied by the Integrator.
type Scheme int

const (
	// Wave is the three-level leapfrog update for u_tt = Σ u_xx_i.
	Wave Scheme = iota
	// Diffusion is the two-level explicit update for u_t = Σ u_xx_i.
	Diffusion
)

// DiffusionCoefficient scales the squared half-spacing 1/(N-1) to give the
// diffusion time step. In units of delta_x this is 0.1·delta_x², inside the
// explicit bound delta_x²/(2D) for D ≤ 4.
const DiffusionCoefficient = 0.4

// DefaultCourant is the wave Courant number delta_t/delta_x used when none is
// given. It is the marginal 1D limit; for D ≥ 2 the leapfrog bound is 1/√D.
const DefaultCourant = 1.0

func (s Scheme) String() string {
	switch s {
	case Wave:
		return "wave"
	case Diffusion:
		return "diffusion"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// Levels reports how many time levels the update reads.
func (s Scheme) Levels() int {
	if s == Diffusion {
		return 1
	}
	return 2
}

// ParseScheme maps a config name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "wave":
		return Wave, nil
	case "diffusion", "heat":
		return Diffusion, nil
	default:
		return 0, fmt.Errorf("%w: unknown scheme %q", ErrInvalidConfiguration, name)
	}
}

// TimeStep returns delta_t for a grid of numGrid points per axis. The wave
// step is courant·delta_x (courant 0 means DefaultCourant); the diffusion
// step ignores courant.
func TimeStep(scheme Scheme, numGrid int, courant float64) float64 {
	if scheme == Diffusion {
		h := 1.0 / float64(numGrid-1)
		return DiffusionCoefficient * h * h
	}
	if courant == 0 {
		courant = DefaultCourant
	}
	return courant * 2.0 / float64(numGrid-1)
}
