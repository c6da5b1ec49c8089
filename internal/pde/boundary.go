package pde

// Boundary selects how the upwind stencil reads points outside the grid.
// The canonical initial conditions are tight Gaussians near the domain
// center whose mass never reaches the edges within the simulated horizon,
// so the policy is not physically significant, but it is kept explicit
// and swappable.
type Boundary int

const (
	// BoundaryClamp extrapolates with the nearest interior value
	// (zero-flux, Neumann-zero). Default.
	BoundaryClamp Boundary = iota

	// BoundaryPeriodic wraps around the domain. The grid stores both
	// endpoints, so u[0] and u[n-1] alias the same periodic point: the
	// neighbor left of 0 is n-2 and the neighbor right of n-1 is 1.
	BoundaryPeriodic
)

func (b Boundary) String() string {
	if b == BoundaryPeriodic {
		return "periodic"
	}
	return "clamp"
}

// index resolves a possibly out-of-range axis index against n points.
func (b Boundary) index(i, n int) int {
	if i >= 0 && i < n {
		return i
	}
	switch b {
	case BoundaryPeriodic:
		if i < 0 {
			return i + n - 1
		}
		return i - n + 1
	default:
		if i < 0 {
			return 0
		}
		return n - 1
	}
}
