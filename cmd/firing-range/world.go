package main

import (
	"math"
	"time"

	"github.com/lixenwraith/ordnance/config"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/launcher"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/trajectory"
	"github.com/lixenwraith/ordnance/vmath"
)

const (
	emplacementEntity core.Entity = 1
	firstTargetEntity core.Entity = 100

	// muzzleHeight lifts sockets off the ground
	muzzleHeight  = 2.0
	socketSpacing = 3.0
)

// emplacement is the fixed owner every range weapon is mounted on
type emplacement struct{}

func (emplacement) Entity() core.Entity { return emplacementEntity }
func (emplacement) Valid() bool         { return true }

// dummy is a stationary target
type dummy struct {
	id     core.Entity
	name   string
	loc    vmath.Vec3F
	health float64
	maxHP  float64
	armor  float64

	hits  int
	taken float64
}

func (d *dummy) Entity() core.Entity { return d.id }
func (d *dummy) Valid() bool         { return d.health > 0 }
func (d *dummy) Armor() float64      { return d.armor }

func (d *dummy) ApplyDamage(dmg core.Damage) bool {
	if d.health <= 0 {
		return false
	}
	d.hits++
	d.taken += dmg.Amount
	d.health -= dmg.Amount
	return d.health <= 0
}

// world answers traces and overlaps against the dummies and a flat ground at Z = 0
type world struct {
	targets []*dummy
}

func newWorld(cfgs []config.TargetConfig) *world {
	w := &world{}
	for i, c := range cfgs {
		w.targets = append(w.targets, &dummy{
			id:     firstTargetEntity + core.Entity(i),
			name:   c.Name,
			loc:    vmath.Vec3F{X: c.Location.X, Y: c.Location.Y, Z: c.Location.Z},
			health: c.Health,
			maxHP:  c.Health,
			armor:  c.Armor,
		})
	}
	return w
}

// Trace returns the nearest dummy crossing the segment, else the ground crossing
func (w *world) Trace(from, to vmath.Vec3F, ignore core.Entity) (core.Hit, bool) {
	seg := vmath.V3FSub(to, from)
	length := vmath.V3FMag(seg)
	if length <= 0 {
		return core.Hit{}, false
	}
	dir := vmath.V3FScale(seg, 1/length)

	best := core.Hit{Distance: math.Inf(1)}
	found := false
	for _, t := range w.targets {
		if !t.Valid() || t.id == ignore {
			continue
		}
		along := vmath.Clamp(vmath.V3FDot(vmath.V3FSub(t.loc, from), dir), 0, length)
		closest := vmath.V3FAdd(from, vmath.V3FScale(dir, along))
		if vmath.V3FDist(closest, t.loc) > parameter.RangeTargetRadius || along >= best.Distance {
			continue
		}
		best = core.Hit{
			Location: closest,
			Normal:   vmath.V3FSafeNormal(vmath.V3FSub(closest, t.loc), vmath.V3FScale(dir, -1)),
			Distance: along,
			Actor:    t,
		}
		found = true
	}
	if found {
		return best, true
	}

	if from.Z > 0 && to.Z <= 0 {
		f := from.Z / (from.Z - to.Z)
		loc := vmath.V3FLerp(from, to, f)
		return core.Hit{Location: loc, Normal: vmath.Vec3F{Z: 1}, Distance: length * f}, true
	}
	return core.Hit{}, false
}

// Overlap returns live dummies whose sphere touches the query sphere
func (w *world) Overlap(center vmath.Vec3F, radius float64, ignore core.Entity) []core.Hit {
	var hits []core.Hit
	for _, t := range w.targets {
		if !t.Valid() || t.id == ignore {
			continue
		}
		d := max(vmath.V3FDist(center, t.loc)-parameter.RangeTargetRadius, 0)
		if d > radius {
			continue
		}
		hits = append(hits, core.Hit{
			Location: t.loc,
			Normal:   vmath.V3FSafeNormal(vmath.V3FSub(center, t.loc), vmath.Vec3F{Z: 1}),
			Distance: d,
			Actor:    t,
		})
	}
	return hits
}

// rack is the emplacement's mesh: sockets side by side, facing +X
type rack struct {
	sockets map[string]vmath.Pose
	hidden  []bool
}

func newRack(names []string) *rack {
	r := &rack{sockets: make(map[string]vmath.Pose, len(names))}
	mid := float64(len(names)-1) / 2
	for i, n := range names {
		r.sockets[n] = vmath.Pose{Location: vmath.Vec3F{Y: (float64(i) - mid) * socketSpacing, Z: muzzleHeight}}
	}
	return r
}

func (r *rack) Valid() bool { return true }

func (r *rack) SocketPose(name string) (vmath.Pose, bool) {
	p, ok := r.sockets[name]
	return p, ok
}

func (r *rack) AddInstance(socket string) (int, bool) {
	if _, ok := r.sockets[socket]; !ok {
		return 0, false
	}
	r.hidden = append(r.hidden, false)
	return len(r.hidden) - 1, true
}

func (r *rack) SetInstanceHidden(index int, hidden bool) {
	if index >= 0 && index < len(r.hidden) {
		r.hidden[index] = hidden
	}
}

// Loaded counts visible instances
func (r *rack) Loaded() int {
	n := 0
	for _, h := range r.hidden {
		if !h {
			n++
		}
	}
	return n
}

// shell is a pooled projectile; it only remembers its path for drawing
type shell struct {
	flight   trajectory.Flight
	shot     firecontrol.Shot
	launched time.Duration
	clock    func() time.Duration
}

func (s *shell) Fly(f trajectory.Flight, shot firecontrol.Shot) {
	s.flight = f
	s.shot = shot
	s.launched = s.clock()
}

// Position samples the flight at now
func (s *shell) Position(now time.Duration) vmath.Vec3F {
	return s.flight.Position(now - s.launched)
}

// shellPool lends at most capacity shells at once
type shellPool struct {
	clock    func() time.Duration
	capacity int
	free     []*shell
	live     map[*shell]struct{}
	peak     int
}

func newShellPool(capacity int, clock func() time.Duration) *shellPool {
	return &shellPool{clock: clock, capacity: capacity, live: make(map[*shell]struct{})}
}

func (p *shellPool) Acquire() (launcher.Projectile, bool) {
	if len(p.live) >= p.capacity {
		return nil, false
	}
	var s *shell
	if n := len(p.free); n > 0 {
		s, p.free = p.free[n-1], p.free[:n-1]
	} else {
		s = &shell{clock: p.clock}
	}
	p.live[s] = struct{}{}
	p.peak = max(p.peak, len(p.live))
	return s, true
}

func (p *shellPool) Release(proj launcher.Projectile) {
	s, ok := proj.(*shell)
	if !ok {
		return
	}
	if _, live := p.live[s]; !live {
		return
	}
	delete(p.live, s)
	s.flight = nil
	p.free = append(p.free, s)
}

// Positions returns every live shell's current location
func (p *shellPool) Positions(now time.Duration) []vmath.Vec3F {
	out := make([]vmath.Vec3F, 0, len(p.live))
	for s := range p.live {
		if s.flight != nil {
			out = append(out, s.Position(now))
		}
	}
	return out
}
