// Package trajectory holds the closed-form flight paths of every projectile variant
// Paths are authored curves sampled by time, not integrated ballistics
package trajectory

import (
	"math"
	"time"

	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// Flight is a precomputed path sampled by time since launch
type Flight interface {
	Duration() time.Duration
	// Position clamps t into [0, Duration]; Position(Duration()) is the exact end point
	Position(t time.Duration) vmath.Vec3F
	// Direction is the unit velocity direction at t
	Direction(t time.Duration) vmath.Vec3F
	// Stage is the zero-based segment index active at t
	Stage(t time.Duration) int
	End() vmath.Vec3F
}

func seconds(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// travelTime converts length at speed to a duration, speed <= 0 uses the default
func travelTime(length, speed float64) time.Duration {
	if speed <= 0 {
		speed = parameter.ProjectileSpeedDefault
	}
	return seconds(length / speed)
}

func fraction(t, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return vmath.Clamp01(float64(t) / float64(d))
}

// Instant resolves at once; Direct weapons use it for their hit scan
type Instant struct {
	From, To vmath.Vec3F
}

func (Instant) Duration() time.Duration              { return 0 }
func (f Instant) Position(time.Duration) vmath.Vec3F { return f.To }
func (Instant) Stage(time.Duration) int              { return 0 }
func (f Instant) End() vmath.Vec3F                   { return f.To }

func (f Instant) Direction(time.Duration) vmath.Vec3F {
	return vmath.V3FSafeNormal(vmath.V3FSub(f.To, f.From), vmath.Forward3F)
}

// Linear travels a straight line at constant speed; traced shots use it for visuals
type Linear struct {
	from, to vmath.Vec3F
	dur      time.Duration
}

// NewLinear plans a straight flight at speed
func NewLinear(from, to vmath.Vec3F, speed float64) *Linear {
	return NewTracer(from, to, travelTime(vmath.V3FDist(from, to), speed))
}

// NewTracer plans a straight flight lasting exactly d
func NewTracer(from, to vmath.Vec3F, d time.Duration) *Linear {
	return &Linear{from: from, to: to, dur: max(d, 0)}
}

func (f *Linear) Duration() time.Duration { return f.dur }
func (f *Linear) Stage(time.Duration) int { return 0 }
func (f *Linear) End() vmath.Vec3F        { return f.to }

func (f *Linear) Position(t time.Duration) vmath.Vec3F {
	u := fraction(t, f.dur)
	if u >= 1 {
		return f.to
	}
	return vmath.V3FLerp(f.from, f.to, u)
}

func (f *Linear) Direction(time.Duration) vmath.Vec3F {
	return vmath.V3FSafeNormal(vmath.V3FSub(f.to, f.from), vmath.Forward3F)
}

// Sample returns n+1 evenly spaced positions from launch to end
func Sample(f Flight, n int) []vmath.Vec3F {
	n = max(n, 1)
	out := make([]vmath.Vec3F, 0, n+1)
	d := f.Duration()
	for i := 0; i <= n; i++ {
		out = append(out, f.Position(d*time.Duration(i)/time.Duration(n)))
	}
	return out
}

// segment is one quadratic Bezier leg of a multi-stage flight; a straight leg has its control at the midpoint
type segment struct {
	p0, p1, p2 vmath.Vec3F
	start, end time.Duration
}

func straight(a, b vmath.Vec3F) segment {
	return segment{p0: a, p1: vmath.V3FLerp(a, b, 0.5), p2: b}
}

func (s segment) length() float64 { return vmath.BezierQuadLength(s.p0, s.p1, s.p2) }

func (s segment) at(t time.Duration) (vmath.Vec3F, vmath.Vec3F) {
	u := fraction(t-s.start, s.end-s.start)
	pos := vmath.BezierQuad(s.p0, s.p1, s.p2, u)
	if u >= 1 {
		pos = s.p2
	}
	tan := vmath.BezierQuadTangent(s.p0, s.p1, s.p2, u)
	return pos, vmath.V3FSafeNormal(tan, vmath.V3FSafeNormal(vmath.V3FSub(s.p2, s.p0), vmath.Forward3F))
}

// path chains segments end to end in time
type path struct {
	segs []segment
}

// schedule assigns start and end times; every leg lasts at least minLeg so boundaries strictly increase
func (p *path) schedule(durations []time.Duration, minLeg time.Duration) {
	var t time.Duration
	for i := range p.segs {
		p.segs[i].start = t
		t += max(durations[i], minLeg)
		p.segs[i].end = t
	}
}

func (p *path) Duration() time.Duration {
	return p.segs[len(p.segs)-1].end
}

func (p *path) End() vmath.Vec3F {
	return p.segs[len(p.segs)-1].p2
}

func (p *path) Stage(t time.Duration) int {
	for i, s := range p.segs {
		if t < s.end {
			return i
		}
	}
	return len(p.segs) - 1
}

func (p *path) Position(t time.Duration) vmath.Vec3F {
	if t >= p.Duration() {
		return p.End()
	}
	pos, _ := p.segs[p.Stage(max(t, 0))].at(t)
	return pos
}

func (p *path) Direction(t time.Duration) vmath.Vec3F {
	_, dir := p.segs[p.Stage(max(t, 0))].at(t)
	return dir
}

// Boundaries returns each stage's end time
func (p *path) Boundaries() []time.Duration {
	out := make([]time.Duration, len(p.segs))
	for i, s := range p.segs {
		out[i] = s.end
	}
	return out
}
