// Package analysis summarizes a sampled trajectory after the fact.
//
// The tools work on plain columns pulled from a [dynamo.Trajectory]:
//
//   - [PowerSpectrum] / [DominantFrequency]: FFT of a displacement column
//   - [Envelope]: peak deviation from equilibrium per time window
//   - [EnergySeries]: total energy at every sample
//
// # Damping Check
//
// For a damped run the envelope should not grow:
//
//	env := analysis.Envelope(traj.Column(0), x1eq, 5)
//	if !analysis.NonIncreasing(env, 1e-9) {
//	    // something pumped energy in
//	}
package analysis
