package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector, Z up
type Vec3F struct {
	X, Y, Z float64
}

var (
	Zero3F    = Vec3F{}
	Up3F      = Vec3F{Z: 1}
	Forward3F = Vec3F{X: 1}
)

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

func V3FDist(a, b Vec3F) float64 {
	return V3FMag(V3FSub(b, a))
}

// V3FDist2D is the horizontal (XY) distance between two points
func V3FDist2D(a, b Vec3F) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FSafeNormal normalizes v, falling back when v is degenerate
func V3FSafeNormal(v, fallback Vec3F) Vec3F {
	if V3FMagSq(v) < Epsilon*Epsilon {
		return fallback
	}
	return V3FNormalize(v)
}

// V3FLerp interpolates a→b, t unclamped
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	return Vec3F{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3FFlat drops the vertical component
func V3FFlat(v Vec3F) Vec3F {
	return Vec3F{v.X, v.Y, 0}
}

// V3FNear reports component-wise equality within tol
func V3FNear(a, b Vec3F, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// V3FRotateZ rotates v around the vertical axis by deg degrees
func V3FRotateZ(v Vec3F, deg float64) Vec3F {
	s, c := math.Sincos(deg * DegToRad)
	return Vec3F{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}
