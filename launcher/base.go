package launcher

import (
	"math"
	"time"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/trajectory"
	"github.com/lixenwraith/ordnance/vmath"
)

// Stats counts launcher activity since construction
type Stats struct {
	Launched int // Flights started, children included
	Arrived  int
	Splits   int
	Children int
	Recalled int // Projectiles returned by teardown before arriving
	Bounced  int
	NoVisual int // Flights resolved without a pooled projectile
}

// inflight is one flight waiting on its stage timer
type inflight struct {
	proj  Projectile
	timer engine.TimerHandle
	shot  firecontrol.Shot
	path  trajectory.Flight
	child bool
}

// base carries the launch protocol shared by every variant
type base struct {
	kind   Kind
	deps   Deps
	w      *firecontrol.Weapon
	flying map[*inflight]struct{}
	stats  Stats
}

func newBase(kind Kind, deps Deps) base {
	return base{kind: kind, deps: deps, flying: make(map[*inflight]struct{})}
}

func (b *base) Kind() Kind    { return b.kind }
func (b *base) Stats() Stats  { return b.stats }
func (b *base) InFlight() int { return len(b.flying) }

// Bind attaches the weapon; re-binding recalls anything still in the air
func (b *base) Bind(w *firecontrol.Weapon) error {
	b.recall()
	b.w = w
	return nil
}

// OnTeardown returns in-flight projectiles; their stage timers are already cancelled
func (b *base) OnTeardown() {
	b.recall()
}

func (b *base) recall() {
	for f := range b.flying {
		if f.proj != nil && b.deps.Pool != nil {
			b.deps.Pool.Release(f.proj)
		}
		b.stats.Recalled++
	}
	clear(b.flying)
}

func (b *base) report(kind diag.Kind, msg string, kv ...any) {
	if b.w == nil {
		return
	}
	b.w.Diag().Report(kind, msg, append([]any{"weapon", b.w.Name(), "launcher", b.kind.String()}, kv...)...)
}

// launch starts path and runs then after stage. Without a pool, or for a child when the
// pool is exhausted, the flight resolves without a visual; a parent on an exhausted pool is not fired
func (b *base) launch(shot firecontrol.Shot, path trajectory.Flight, stage time.Duration, child bool, then func(*inflight)) bool {
	if b.w == nil {
		return false
	}
	f := &inflight{shot: shot, path: path, child: child}

	if b.deps.Pool != nil && path.Duration() > 0 {
		p, ok := b.deps.Pool.Acquire()
		switch {
		case ok:
			f.proj = p
			p.Fly(path, shot)
		case child:
			b.stats.NoVisual++
			b.report(diag.KindTransient, "projectile pool exhausted, child resolved without visual")
		default:
			b.report(diag.KindTransient, "projectile pool exhausted")
			return false
		}
	} else {
		b.stats.NoVisual++
	}
	b.stats.Launched++
	b.w.Recorder().Flight(path.Duration())

	if stage <= 0 {
		b.finish(f, then)
		return true
	}
	b.flying[f] = struct{}{}
	f.timer = b.w.After(stage, func() {
		delete(b.flying, f)
		b.finish(f, then)
	})
	if f.timer == 0 {
		delete(b.flying, f)
		b.release(f)
		return false
	}
	return true
}

func (b *base) finish(f *inflight, then func(*inflight)) {
	b.release(f)
	then(f)
}

func (b *base) release(f *inflight) {
	if f.proj != nil && b.deps.Pool != nil {
		b.deps.Pool.Release(f.proj)
		f.proj = nil
	}
}

// arrive resolves a projectile at the end of its path: direct hit, then blast
func (b *base) arrive(f *inflight) {
	loc := f.path.End()
	dir := f.path.Direction(f.path.Duration())
	hits := b.impact(f.shot, loc, dir)
	b.stats.Arrived++
	if b.deps.OnArrival != nil {
		b.deps.OnArrival(Arrival{Shot: f.shot, Location: loc, Direction: dir, Child: f.child, Hits: hits})
	}
}

// impact plays feedback at loc and damages actors around it, returns actors damaged
func (b *base) impact(shot firecontrol.Shot, loc, dir vmath.Vec3F) int {
	w := b.w
	rot := vmath.RotatorFromDirection(vmath.V3FScale(dir, -1))
	if b.deps.Area == nil {
		w.ReportImpactFor(shot, loc, rot)
		return 0
	}

	aoe := shot.Data.Explosive
	radius := max(aoe.AOERange, parameter.ArrivalHitRadius)
	hits := b.deps.Area.Overlap(loc, radius, w.Owner().Entity())

	// A solid round that fails to penetrate the nearest armored actor ricochets
	if aoe.AOERange <= 0 && len(hits) > 0 && b.deflects(shot, nearest(hits)) {
		b.stats.Bounced++
		w.ReportBounceFor(shot, loc, rot)
		return 0
	}

	w.ReportImpactFor(shot, loc, rot)
	damaged := 0
	dist := vmath.V3FDist(shot.Origin.Location, loc)
	for _, h := range hits {
		target, ok := h.Actor.(core.Damageable)
		if !ok {
			continue
		}
		amount := 0.0
		if h.Distance <= parameter.ArrivalHitRadius {
			amount += shot.Data.Damage
		}
		if aoe.AOERange > 0 && h.Distance <= aoe.AOERange {
			amount += aoe.AOEDamage * blastFalloff(h.Distance, aoe.AOERange)
		}
		if amount <= 0 {
			continue
		}
		w.DealDamage(shot, target, amount, dist)
		damaged++
	}
	return damaged
}

func (b *base) deflects(shot firecontrol.Shot, h core.Hit) bool {
	armored, ok := h.Actor.(core.Armored)
	if !ok {
		return false
	}
	pen := penetration(shot, h.Location)
	return pen < armored.Armor()
}

func penetration(shot firecontrol.Shot, at vmath.Vec3F) float64 {
	return armory.PenetrationAt(shot.Data, vmath.V3FDist(shot.Origin.Location, at))
}

func nearest(hits []core.Hit) core.Hit {
	best := hits[0]
	for _, h := range hits[1:] {
		if h.Distance < best.Distance {
			best = h
		}
	}
	return best
}

// blastFalloff is 1 at the center, AOEFalloffFloor at the edge
func blastFalloff(d, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return vmath.Lerp(1, parameter.AOEFalloffFloor, vmath.Clamp01(d/radius))
}

// aimPoint clamps aim to the shot's range and scatters it by accuracy
func (b *base) aimPoint(shot firecontrol.Shot) vmath.Vec3F {
	origin := shot.Origin.Location
	target := shot.Aim
	if r := shot.Data.Range; r > 0 && vmath.V3FDist(origin, target) > r {
		dir := vmath.V3FSafeNormal(vmath.V3FSub(target, origin), shot.Origin.Rotation.Forward())
		target = vmath.V3FAdd(origin, vmath.V3FScale(dir, r))
	}
	spread := spreadDeg(shot.Data.Accuracy)
	if spread <= 0 {
		return target
	}
	radius := vmath.V3FDist2D(origin, target) * math.Tan(spread*vmath.DegToRad)
	dx, dy := b.w.RNG().Disk(radius)
	target.X += dx
	target.Y += dy
	return target
}

// spreadDeg is the scatter cone half-angle for an accuracy in [0, 1]
func spreadDeg(accuracy float64) float64 {
	return (1 - vmath.Clamp01(accuracy)) * parameter.AccuracySpreadMaxDeg
}
