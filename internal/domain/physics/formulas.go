// Package physics implements the closed-form formulas behind the lesson
// demos and the mapping from a formula result to a visual offset.
//
// Every function here is pure: identical inputs always produce identical
// outputs and nothing is cached between calls.
package physics

// StandardGravity is the gravitational acceleration near Earth's surface in m/s².
const StandardGravity = 9.8

// Momentum returns p = m·v in kg·m/s.
func Momentum(mass, velocity float64) float64 {
	return mass * velocity
}

// Force returns F = m·a in newtons.
func Force(mass, acceleration float64) float64 {
	return mass * acceleration
}

// Acceleration returns a = F/m in m/s². A massless body is reported as
// not accelerating rather than dividing by zero.
func Acceleration(force, mass float64) float64 {
	if mass == 0 {
		return 0
	}
	return force / mass
}

// KineticEnergy returns KE = ½·m·v² in joules.
func KineticEnergy(mass, velocity float64) float64 {
	return 0.5 * mass * velocity * velocity
}

// Impulse returns J = F·Δt in N·s, equal to the change in momentum.
func Impulse(force, duration float64) float64 {
	return force * duration
}

// Weight returns W = m·g in newtons.
func Weight(mass, gravity float64) float64 {
	return mass * gravity
}

// FinalVelocity returns v = u + a·t in m/s.
func FinalVelocity(initial, acceleration, t float64) float64 {
	return initial + acceleration*t
}

// Displacement returns s = u·t + ½·a·t² in metres.
func Displacement(initial, acceleration, t float64) float64 {
	return initial*t + 0.5*acceleration*t*t
}
