package analysis

import (
	"math"

	"github.com/san-kum/twosprings/internal/dynamo"
)

// Envelope splits xs into windows consecutive chunks and returns, for each,
// the largest |x - center|. The last window absorbs any remainder.
func Envelope(xs []float64, center float64, windows int) []float64 {
	if windows <= 0 || len(xs) == 0 {
		return nil
	}
	if windows > len(xs) {
		windows = len(xs)
	}

	size := len(xs) / windows
	env := make([]float64, windows)
	for w := 0; w < windows; w++ {
		start := w * size
		end := start + size
		if w == windows-1 {
			end = len(xs)
		}
		for _, x := range xs[start:end] {
			env[w] = math.Max(env[w], math.Abs(x-center))
		}
	}

	return env
}

// NonIncreasing reports whether every element is at most its predecessor
// plus tol.
func NonIncreasing(xs []float64, tol float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[i-1]+tol {
			return false
		}
	}
	return true
}

// EnergySeries evaluates h at every sample of traj.
func EnergySeries(h dynamo.Hamiltonian, traj *dynamo.Trajectory) []float64 {
	out := make([]float64, len(traj.States))
	for i, x := range traj.States {
		out[i] = h.Energy(x)
	}
	return out
}
