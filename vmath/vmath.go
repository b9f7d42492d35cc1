// Package vmath provides the float64 vector and curve math used by trajectories
package vmath

import "math"

const (
	// Epsilon is the tolerance for degenerate lengths and durations
	Epsilon = 1e-6

	DegToRad = math.Pi / 180
	RadToDeg = 180 / math.Pi
)

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp returns where v lies in [a, b], 0 when the range is empty
func InverseLerp(a, b, v float64) float64 {
	if math.Abs(b-a) < Epsilon {
		return 0
	}
	return (v - a) / (b - a)
}

// NormalizeAngle wraps degrees into (-180, 180]
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// SmoothStep is the cubic Hermite ease on [0, 1]
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}
