// Package physics provides the coupled spring-mass model.
//
// Two point masses sit on a line. Mass 1 hangs from a fixed wall by a
// spring (k1, natural length L1) and is joined to mass 2 by a second
// spring (k2, L2). Both masses feel linear viscous damping (b1, b2).
// The state is ordered (x1, y1, x2, y2): displacement and velocity of
// mass 1, then of mass 2.
//
// [VectorField] is the pure derivative function; [TwoSprings] adapts it
// to [dynamo.System] and adds [dynamo.Hamiltonian] for energy checks:
//
//	dyn := physics.NewTwoSprings(physics.DefaultParams())
//	e0 := dyn.Energy(x0)
package physics
