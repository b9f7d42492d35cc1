package launcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/trajectory"
	"github.com/lixenwraith/ordnance/vmath"
)

type owner struct{ dead bool }

func (o *owner) Entity() core.Entity { return 1 }
func (o *owner) Valid() bool         { return !o.dead }

// rack is an instanced mesh with named sockets
type rack struct {
	sockets   map[string]vmath.Pose
	instances []string
	hidden    []bool
	refuse    bool
}

func (m *rack) Valid() bool { return true }

func (m *rack) SocketPose(name string) (vmath.Pose, bool) {
	p, ok := m.sockets[name]
	return p, ok
}

func (m *rack) AddInstance(socket string) (int, bool) {
	if m.refuse {
		return 0, false
	}
	m.instances = append(m.instances, socket)
	m.hidden = append(m.hidden, false)
	return len(m.instances) - 1, true
}

func (m *rack) SetInstanceHidden(i int, hidden bool) { m.hidden[i] = hidden }

func (m *rack) hiddenCount() int {
	n := 0
	for _, h := range m.hidden {
		if h {
			n++
		}
	}
	return n
}

type projectile struct {
	flight trajectory.Flight
	shot   firecontrol.Shot
}

func (p *projectile) Fly(f trajectory.Flight, shot firecontrol.Shot) {
	p.flight = f
	p.shot = shot
}

// pool lends up to capacity projectiles, capacity < 0 is unlimited
type pool struct {
	capacity int
	out      map[*projectile]struct{}
	acquired []*projectile
	released int
}

func newPool(capacity int) *pool {
	return &pool{capacity: capacity, out: make(map[*projectile]struct{})}
}

func (p *pool) Acquire() (Projectile, bool) {
	if p.capacity >= 0 && len(p.out) >= p.capacity {
		return nil, false
	}
	pr := &projectile{}
	p.out[pr] = struct{}{}
	p.acquired = append(p.acquired, pr)
	return pr, true
}

func (p *pool) Release(pr Projectile) {
	delete(p.out, pr.(*projectile))
	p.released++
}

type target struct {
	id    core.Entity
	loc   vmath.Vec3F
	hp    float64
	armor float64
	taken []core.Damage
}

func (t *target) Entity() core.Entity { return t.id }
func (t *target) Valid() bool         { return t.hp > 0 }
func (t *target) Armor() float64      { return t.armor }

func (t *target) ApplyDamage(d core.Damage) bool {
	t.taken = append(t.taken, d)
	t.hp -= d.Amount
	return t.hp <= 0
}

// world answers traces and overlaps against a handful of targets
type world struct {
	targets []*target
}

func (w *world) Overlap(center vmath.Vec3F, radius float64, ignore core.Entity) []core.Hit {
	var hits []core.Hit
	for _, t := range w.targets {
		if t.id == ignore {
			continue
		}
		if d := vmath.V3FDist(center, t.loc); d <= radius {
			hits = append(hits, core.Hit{Location: t.loc, Distance: d, Actor: t})
		}
	}
	return hits
}

// Trace hits the first target within 1 unit of the segment
func (w *world) Trace(from, to vmath.Vec3F, ignore core.Entity) (core.Hit, bool) {
	seg := vmath.V3FSub(to, from)
	length := vmath.V3FMag(seg)
	dir := vmath.V3FSafeNormal(seg, vmath.Forward3F)
	for _, t := range w.targets {
		along := vmath.V3FDot(vmath.V3FSub(t.loc, from), dir)
		if along < 0 || along > length {
			continue
		}
		closest := vmath.V3FAdd(from, vmath.V3FScale(dir, along))
		if vmath.V3FDist(closest, t.loc) <= 1 {
			return core.Hit{Location: t.loc, Normal: vmath.V3FScale(dir, -1), Distance: along, Actor: t}, true
		}
	}
	return core.Hit{}, false
}

type impacts struct {
	impacts, bounces []vmath.Vec3F
	effects          []core.EffectAsset
}

func (f *impacts) PlayImpact(loc vmath.Vec3F, _ vmath.Rotator, effect core.EffectAsset, _ float64, _ core.SoundAsset) bool {
	f.impacts = append(f.impacts, loc)
	f.effects = append(f.effects, effect)
	return true
}

func (f *impacts) PlayBounce(loc vmath.Vec3F, _ vmath.Rotator, effect core.EffectAsset, _ float64, _ core.SoundAsset) bool {
	f.bounces = append(f.bounces, loc)
	f.effects = append(f.effects, effect)
	return true
}

type bench struct {
	w        *firecontrol.Weapon
	q        *engine.TimerQueue
	mesh     *rack
	pool     *pool
	world    *world
	impacts  *impacts
	arrivals []Arrival
	l        Launcher
}

func testData() armory.WeaponData {
	return armory.WeaponData{
		Damage:           40,
		Range:            5000,
		ArmorPen:         80,
		ArmorPenMaxRange: 40,
		MagCapacity:      4,
		ReloadTime:       3 * time.Second,
		Cooldown:         500 * time.Millisecond,
		Accuracy:         1,
		Calibre:          120,
		ProjectileSpeed:  500,
		Visuals:          armory.Visuals{ImpactEffect: "fx/impact", BounceEffect: "fx/bounce", ImpactScale: 1},
	}
}

// newBench builds a launcher of kind and a single-shot weapon driving it
func newBench(t *testing.T, kind Kind, desc Descriptor, mutate func(*firecontrol.Config)) *bench {
	t.Helper()
	b := &bench{
		q: engine.NewTimerQueue(),
		mesh: &rack{sockets: map[string]vmath.Pose{
			"left":  {Location: vmath.Vec3F{Y: -2}},
			"right": {Location: vmath.Vec3F{Y: 2}},
		}},
		pool:    newPool(-1),
		world:   &world{},
		impacts: &impacts{},
	}
	l, err := New(kind, desc, Deps{
		Pool:      b.pool,
		Tracer:    b.world,
		Area:      b.world,
		OnArrival: func(a Arrival) { b.arrivals = append(b.arrivals, a) },
	})
	require.NoError(t, err)
	b.l = l

	cfg := firecontrol.Config{
		Owner:      &owner{},
		Mesh:       b.mesh,
		Sockets:    []string{"left", "right"},
		Mode:       firecontrol.ModeSingle,
		Data:       testData(),
		Shells:     armory.NewShellSet(armory.ShellAP, armory.ShellHE),
		Shell:      armory.ShellAP,
		Discharger: l,
		Scheduler:  b.q,
		Impacts:    b.impacts,
		RNG:        core.NewRNG(11),
		Diag:       diag.Nop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	b.w = firecontrol.NewWeapon("bench")
	require.NoError(t, b.w.Init(cfg))
	return b
}

// fireAndWait fires, then advances past the cooldown
func (b *bench) fireAndWait(t *testing.T, aim vmath.Vec3F) {
	t.Helper()
	require.Equal(t, firecontrol.FireDischarged, b.w.Fire(aim))
	b.q.Advance(time.Second)
}
