// Package dynamo provides core simulation primitives for the coupled
// spring-mass simulator.
//
// The package defines the fundamental interfaces and types shared by the
// model, the integrator and the storage layer:
//
//   - [State]: vector representing system state (x1, y1, x2, y2)
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [GridIntegrator]: adaptive integrator sampling a fixed time grid
//   - [Trajectory]: sampled (time, state) pairs produced by one run
//
// # Example
//
//	dyn := physics.NewTwoSprings(physics.DefaultParams())
//	s := sim.New(dyn, integrators.NewRK45())
//	traj, err := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Trajectories are immutable once returned and may be shared freely.
// Simulator instances are NOT thread-safe.
package dynamo
