package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns the one-sided amplitude spectrum of data with its
// mean removed. Bin k corresponds to frequency k/(len(data)*dt).
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := floats.Sum(data) / float64(len(data))
	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-mean, centered)

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of data sampled on the uniform grid times.
func DominantFrequency(times, data []float64) (float64, error) {
	if len(times) != len(data) {
		return 0, fmt.Errorf("times and data differ in length: %d vs %d", len(times), len(data))
	}
	if len(data) < 4 {
		return 0, fmt.Errorf("need at least 4 samples, got %d", len(data))
	}

	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)
	if dt <= 0 {
		return 0, fmt.Errorf("time grid is not increasing")
	}

	ps := PowerSpectrum(data)
	maxIdx := floats.MaxIdx(ps[1:]) + 1

	return float64(maxIdx) / (float64(len(data)) * dt), nil
}
