package vmath

import "math"

// Rotator is an orientation in degrees: Pitch around Y, Yaw around Z, Roll around X
type Rotator struct {
	Pitch, Yaw, Roll float64
}

// Pose is a location plus orientation
type Pose struct {
	Location Vec3F
	Rotation Rotator
}

// Forward returns the unit vector the rotator faces
func (r Rotator) Forward() Vec3F {
	sp, cp := math.Sincos(r.Pitch * DegToRad)
	sy, cy := math.Sincos(r.Yaw * DegToRad)
	return Vec3F{X: cp * cy, Y: cp * sy, Z: sp}
}

// RotatorFromDirection builds a roll-free rotator facing dir, zero rotator for zero dir
func RotatorFromDirection(dir Vec3F) Rotator {
	if V3FMagSq(dir) < Epsilon*Epsilon {
		return Rotator{}
	}
	yaw := math.Atan2(dir.Y, dir.X) * RadToDeg
	pitch := math.Atan2(dir.Z, math.Hypot(dir.X, dir.Y)) * RadToDeg
	return Rotator{Pitch: pitch, Yaw: yaw}
}

// AddYaw returns r turned by deg around the vertical axis
func (r Rotator) AddYaw(deg float64) Rotator {
	r.Yaw = NormalizeAngle(r.Yaw + deg)
	return r
}
