package dynamo

import (
	"context"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an autonomous or time-dependent first-order ODE system.
// Derive must not mutate x and must be safe to call any number of times.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Tolerance holds the absolute and relative error targets of an adaptive
// integrator.
type Tolerance struct {
	Abs float64 `yaml:"abserr" json:"abserr"`
	Rel float64 `yaml:"relerr" json:"relerr"`
}

// GridIntegrator integrates dyn from x0 and returns one state per entry of
// times, with result[0] equal to x0.
type GridIntegrator interface {
	Integrate(ctx context.Context, dyn System, x0 State, times []float64, tol Tolerance) ([]State, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Trajectory is the sampled output of one run. It is not modified after
// it has been returned.
type Trajectory struct {
	Times   []float64
	States  []State
	Metrics map[string]float64
}

func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

// Column returns component i of every sampled state. It panics if any
// state has fewer than i+1 components.
func (tr *Trajectory) Column(i int) []float64 {
	col := make([]float64, len(tr.States))
	for k, s := range tr.States {
		col[k] = s[i]
	}
	return col
}
