package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/twosprings/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	DefaultMinStep  = 1e-12
	DefaultMaxSteps = 100000
)

// RK45 is an adaptive Dormand-Prince 5(4) integrator with mixed
// absolute/relative error control.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64

	// MinStep is the smallest step size tried before giving up.
	MinStep float64
	// MaxSteps bounds the attempted steps between two output samples.
	MaxSteps int
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		MinStep:  DefaultMinStep,
		MaxSteps: DefaultMaxSteps,
	}
}

// StepAdaptive takes one step of size dt from (t, x) and returns the fifth
// order solution together with the scaled RMS error estimate. The step is
// acceptable when errNorm <= 1.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt float64, tol dynamo.Tolerance) (dynamo.State, float64) {
	n := len(x)

	k1 := dyn.Derive(x, t)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+dt)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		sc := tol.Abs + tol.Rel*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		if sc == 0 {
			// pure relative control on a component held at zero
			if errEst == 0 {
				continue
			}
			sc = math.SmallestNonzeroFloat64
		}
		sum += (errEst / sc) * (errEst / sc)
	}

	return xNew, math.Sqrt(sum / float64(n))
}

// Integrate advances x0 through every entry of times and returns the state
// reached at each one. Steps are sized adaptively and clipped so that each
// requested time is hit exactly.
func (r *RK45) Integrate(ctx context.Context, dyn dynamo.System, x0 dynamo.State, times []float64, tol dynamo.Tolerance) ([]dynamo.State, error) {
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x0), dyn.StateDim())
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: empty time grid", dynamo.ErrParameterBounds)
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, fmt.Errorf("%w: time grid not strictly increasing at index %d", dynamo.ErrParameterBounds, i)
		}
	}
	if tol.Abs < 0 || tol.Rel < 0 || (tol.Abs == 0 && tol.Rel == 0) {
		return nil, fmt.Errorf("%w: tolerances must be non-negative and not both zero", dynamo.ErrParameterBounds)
	}

	out := make([]dynamo.State, len(times))
	out[0] = x0.Clone()

	x := x0.Clone()
	t := times[0]
	h := r.initialStep(dyn, x, t, times[len(times)-1]-t, tol)
	step := 0

	for i := 1; i < len(times); i++ {
		target := times[i]
		attempts := 0
		rejected := false

		for t < target {
			select {
			case <-ctx.Done():
				return nil, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: ctx.Err()}
			default:
			}

			if attempts >= r.MaxSteps {
				return nil, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrTooManySteps}
			}
			attempts++

			dt := h
			landing := false
			if t+dt >= target {
				dt = target - t
				landing = true
			}

			xNew, errNorm := r.StepAdaptive(dyn, x, t, dt, tol)

			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
				// non-finite stages: retry smaller
				h = dt * r.minScale
				rejected = true
			} else if errNorm <= 1 {
				if !xNew.IsValid() {
					return nil, &dynamo.SimulationError{Step: step, Time: t, State: xNew, Wrapped: dynamo.ErrInvalidState}
				}
				x = xNew
				if landing {
					t = target
				} else {
					t += dt
				}
				step++

				next := dt * r.scale(errNorm)
				if rejected {
					next = math.Min(next, dt)
				}
				if landing {
					next = math.Max(next, h)
				}
				h = next
				rejected = false
			} else {
				h = dt * math.Min(1, r.scale(errNorm))
				rejected = true
			}

			if h < r.MinStep {
				return nil, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
			}
		}

		out[i] = x.Clone()
	}

	return out, nil
}

func (r *RK45) scale(errNorm float64) float64 {
	if errNorm == 0 {
		return r.maxScale
	}
	s := r.safety * math.Pow(errNorm, -0.2)
	return math.Min(r.maxScale, math.Max(r.minScale, s))
}

// initialStep follows Hairer, Norsett & Wanner: pick h so that an explicit
// Euler step changes the state by about one percent of its scale.
func (r *RK45) initialStep(dyn dynamo.System, x dynamo.State, t, span float64, tol dynamo.Tolerance) float64 {
	if span <= 0 {
		return r.MinStep
	}

	f := dyn.Derive(x, t)
	d0, d1 := 0.0, 0.0
	for i := range x {
		sc := tol.Abs + tol.Rel*math.Abs(x[i])
		if sc == 0 {
			continue
		}
		d0 += (x[i] / sc) * (x[i] / sc)
		d1 += (f[i] / sc) * (f[i] / sc)
	}
	d0 = math.Sqrt(d0 / float64(len(x)))
	d1 = math.Sqrt(d1 / float64(len(x)))

	h := 1e-6
	if d0 > 1e-5 && d1 > 1e-5 {
		h = 0.01 * d0 / d1
	}
	return math.Max(r.MinStep*10, math.Min(h, span))
}
