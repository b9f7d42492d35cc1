package launcher

import (
	"time"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/trajectory"
	"github.com/lixenwraith/ordnance/vmath"
)

// Direct resolves each shot with one trace along the scattered aim line
// Traced additionally flies a visual-only tracer to the hit point
type Direct struct {
	base
	traced    bool
	tracerDur time.Duration
}

func NewDirect(traced bool, tracerDur time.Duration, deps Deps) (*Direct, error) {
	if deps.Tracer == nil {
		return nil, ErrNoTracer
	}
	if traced && deps.Pool == nil {
		return nil, ErrNoPool
	}
	if tracerDur <= 0 {
		tracerDur = parameter.TracerDurationDefault
	}
	kind := KindDirect
	if traced {
		kind = KindTraced
	}
	return &Direct{base: newBase(kind, deps), traced: traced, tracerDur: tracerDur}, nil
}

// Discharge traces from the socket; a miss still counts as a shot fired
func (d *Direct) Discharge(shot firecontrol.Shot) bool {
	if d.w == nil {
		return false
	}
	origin := shot.Origin.Location
	dir := d.scatter(shot)
	reach := shot.Data.Range
	if reach <= 0 {
		reach = vmath.V3FDist(origin, shot.Aim)
	}
	end := vmath.V3FAdd(origin, vmath.V3FScale(dir, reach))

	hit, ok := d.deps.Tracer.Trace(origin, end, d.w.Owner().Entity())
	if ok {
		end = hit.Location
	}

	if d.traced {
		tracer := trajectory.NewTracer(origin, end, d.tracerDur)
		d.launch(shot, tracer, tracer.Duration(), false, func(*inflight) {})
	}

	if !ok {
		return true
	}
	d.stats.Arrived++
	damaged := 0
	if hit.Actor != nil && d.deflects(shot, hit) {
		d.stats.Bounced++
		d.w.ReportBounceFor(shot, hit.Location, vmath.RotatorFromDirection(hit.Normal))
	} else {
		if _, ok := hit.Actor.(core.Damageable); ok {
			damaged = 1
		}
		d.w.ResolveHit(shot, hit)
	}
	if d.deps.OnArrival != nil {
		d.deps.OnArrival(Arrival{Shot: shot, Location: hit.Location, Direction: dir, Hits: damaged})
	}
	return true
}

// scatter perturbs the aim direction inside the accuracy cone
func (d *Direct) scatter(shot firecontrol.Shot) vmath.Vec3F {
	fallback := shot.Origin.Rotation.Forward()
	dir := vmath.V3FSafeNormal(vmath.V3FSub(shot.Aim, shot.Origin.Location), fallback)
	spread := spreadDeg(shot.Data.Accuracy)
	if spread <= 0 {
		return dir
	}
	dyaw, dpitch := d.w.RNG().Disk(spread)
	rot := vmath.RotatorFromDirection(dir).AddYaw(dyaw)
	rot.Pitch = vmath.Clamp(rot.Pitch+dpitch, -89, 89)
	return rot.Forward()
}
