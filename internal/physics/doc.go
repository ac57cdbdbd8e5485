// Package physics models a planar double pendulum through its Lagrangian.
//
// The package is split into three small pieces:
//
//   - [Params]: gravity, bob masses and rod lengths, validated once
//   - [State]: the two rod angles and their angular velocities
//   - [Model]: accelerations, energy and the Lagrangian for a given state
//
// Angles are measured from the downward vertical, so the configuration
// (0, 0, 0, 0) is the equilibrium with both rods hanging straight down.
//
// # Example
//
//	params, err := physics.NewParams(9.81, 10, 150, 10, 150)
//	if err != nil {
//	    return err
//	}
//	model := physics.NewModel(params)
//	state := physics.StateFromDegrees(45, 90)
//	alpha1, alpha2 := model.Accelerations(state)
//
// Nothing in this package clamps or repairs non-finite values. A degenerate
// configuration produces NaN or Inf which callers detect with
// [State.IsFinite].
package physics
