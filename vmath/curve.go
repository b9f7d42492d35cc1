package vmath

// CurveSamples is the segment count used to approximate curve length
const CurveSamples = 24

// BezierQuad evaluates the quadratic Bezier p0-p1-p2 at t
func BezierQuad(p0, p1, p2 Vec3F, t float64) Vec3F {
	u := 1 - t
	a := V3FScale(p0, u*u)
	b := V3FScale(p1, 2*u*t)
	c := V3FScale(p2, t*t)
	return V3FAdd(V3FAdd(a, b), c)
}

// BezierQuadTangent is the derivative of BezierQuad at t
func BezierQuadTangent(p0, p1, p2 Vec3F, t float64) Vec3F {
	a := V3FScale(V3FSub(p1, p0), 2*(1-t))
	b := V3FScale(V3FSub(p2, p1), 2*t)
	return V3FAdd(a, b)
}

// BezierQuadLength approximates arc length by chord summation
func BezierQuadLength(p0, p1, p2 Vec3F) float64 {
	length := 0.0
	prev := p0
	for i := 1; i <= CurveSamples; i++ {
		t := float64(i) / CurveSamples
		p := BezierQuad(p0, p1, p2, t)
		length += V3FDist(prev, p)
		prev = p
	}
	return length
}

// ParabolaBump is 4t(1-t): 0 at both ends, 1 at t=0.5
func ParabolaBump(t float64) float64 {
	return 4 * t * (1 - t)
}
