// Package viz renders a running double pendulum in the terminal.
//
// [Model] is a Bubble Tea model that advances a [sim.Simulation] by one
// frame per tick and draws rods, bobs and the trail of the second bob on a
// braille [Canvas], next to a sidebar with angles, velocities, energy and
// an energy plot.
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	R         - Reset to the initial state
//	T         - Cycle color themes
//	Q/Esc     - Quit
//
// A simulation whose state turns non-finite is shown as DIVERGED and is no
// longer stepped until it is reset.
package viz
