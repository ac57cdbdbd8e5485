// Package analysis characterises recorded or simulated pendulum motion.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [PowerSpectrum], [DominantFrequency]: spectral content of a series
//   - [GeneratePhasePortrait], [GeneratePoincareSection]: phase space views
//   - [BifurcationDiagram]: sweep of one physical parameter
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic motion:
//
//	lambda := analysis.LyapunovExponent(model, integ, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // nearby starts separate exponentially
//	}
package analysis
