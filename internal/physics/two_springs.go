package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/twosprings/internal/dynamo"
)

const (
	DefaultM1 = 10.0
	DefaultM2 = 15.0
	DefaultK1 = 3.0
	DefaultK2 = 6.0
	DefaultL1 = 0.5
	DefaultL2 = 1.0
	DefaultB1 = 0.8
	DefaultB2 = 0.5
)

// Params holds the physical constants of the two-spring system.
type Params struct {
	M1 float64 `yaml:"m1" json:"m1"` // mass 1
	M2 float64 `yaml:"m2" json:"m2"` // mass 2
	K1 float64 `yaml:"k1" json:"k1"` // wall spring stiffness
	K2 float64 `yaml:"k2" json:"k2"` // coupling spring stiffness
	L1 float64 `yaml:"l1" json:"l1"` // wall spring natural length
	L2 float64 `yaml:"l2" json:"l2"` // coupling spring natural length
	B1 float64 `yaml:"b1" json:"b1"` // damping on mass 1
	B2 float64 `yaml:"b2" json:"b2"` // damping on mass 2
}

func DefaultParams() Params {
	return Params{
		M1: DefaultM1,
		M2: DefaultM2,
		K1: DefaultK1,
		K2: DefaultK2,
		L1: DefaultL1,
		L2: DefaultL2,
		B1: DefaultB1,
		B2: DefaultB2,
	}
}

// Validate checks that the masses are strictly positive and every field
// is finite. Negative stiffness or damping is allowed.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"m1", p.M1}, {"m2", p.M2},
		{"k1", p.K1}, {"k2", p.K2},
		{"l1", p.L1}, {"l2", p.L2},
		{"b1", p.B1}, {"b2", p.B2},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", dynamo.ErrParameterBounds, f.name, f.value)
		}
	}
	if p.M1 <= 0 {
		return fmt.Errorf("%w: m1 must be positive, got %g", dynamo.ErrParameterBounds, p.M1)
	}
	if p.M2 <= 0 {
		return fmt.Errorf("%w: m2 must be positive, got %g", dynamo.ErrParameterBounds, p.M2)
	}
	return nil
}

// VectorField returns (dx1/dt, dy1/dt, dx2/dt, dy2/dt) for state
// w = (x1, y1, x2, y2). The system is autonomous, so t is unused.
func VectorField(w dynamo.State, t float64, p Params) dynamo.State {
	x1, y1, x2, y2 := w[0], w[1], w[2], w[3]

	// coupling spring extension; positive is tension
	stretch := x2 - x1 - p.L2

	return dynamo.State{
		y1,
		(-p.B1*y1 - p.K1*(x1-p.L1) + p.K2*stretch) / p.M1,
		y2,
		(-p.B2*y2 - p.K2*stretch) / p.M2,
	}
}

// TwoSprings implements dynamo.System and dynamo.Hamiltonian.
type TwoSprings struct {
	params Params
}

func NewTwoSprings(p Params) *TwoSprings {
	return &TwoSprings{params: p}
}

func (s *TwoSprings) StateDim() int { return 4 }

func (s *TwoSprings) Derive(x dynamo.State, t float64) dynamo.State {
	return VectorField(x, t, s.params)
}

// Energy is the kinetic energy of both masses plus the elastic energy
// stored in both springs.
func (s *TwoSprings) Energy(x dynamo.State) float64 {
	p := s.params
	x1, y1, x2, y2 := x[0], x[1], x[2], x[3]

	ke := 0.5*p.M1*y1*y1 + 0.5*p.M2*y2*y2

	s1 := x1 - p.L1
	s2 := x2 - x1 - p.L2
	pe := 0.5*p.K1*s1*s1 + 0.5*p.K2*s2*s2

	return ke + pe
}

// Equilibrium returns the rest displacements of mass 1 and mass 2.
func (s *TwoSprings) Equilibrium() (x1, x2 float64) {
	return s.params.L1, s.params.L1 + s.params.L2
}
