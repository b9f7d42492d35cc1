package firecontrol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/event"
	"github.com/lixenwraith/ordnance/vmath"
)

type fakeOwner struct {
	id   core.Entity
	dead bool
}

func (o *fakeOwner) Entity() core.Entity { return o.id }
func (o *fakeOwner) Valid() bool         { return !o.dead }

type fakeMesh struct {
	sockets map[string]vmath.Pose
	invalid bool
}

func (m *fakeMesh) Valid() bool { return !m.invalid }

func (m *fakeMesh) SocketPose(name string) (vmath.Pose, bool) {
	p, ok := m.sockets[name]
	return p, ok
}

type recordingDischarger struct {
	shots   []Shot
	fail    bool
	reloads int
}

func (d *recordingDischarger) Discharge(shot Shot) bool {
	if d.fail {
		return false
	}
	d.shots = append(d.shots, shot)
	return true
}

func (d *recordingDischarger) OnReloaded() { d.reloads++ }

type played struct {
	effect core.EffectAsset
	sound  core.SoundAsset
	scale  float64
	bounce bool
}

type fakeImpacts struct {
	plays []played
}

func (f *fakeImpacts) PlayImpact(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool {
	f.plays = append(f.plays, played{effect: effect, sound: sound, scale: scale})
	return true
}

func (f *fakeImpacts) PlayBounce(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool {
	f.plays = append(f.plays, played{effect: effect, sound: sound, scale: scale, bounce: true})
	return true
}

type fakeLaunches struct {
	sockets []string
	shells  []armory.ShellType
}

func (f *fakeLaunches) PlayLaunch(socket string, pose vmath.Pose, data armory.WeaponData, shell armory.ShellType) {
	f.sockets = append(f.sockets, socket)
	f.shells = append(f.shells, shell)
}

type fakeTarget struct {
	id   core.Entity
	hp   float64
	last core.Damage
}

func (t *fakeTarget) Entity() core.Entity { return t.id }
func (t *fakeTarget) Valid() bool         { return t.hp > 0 }

func (t *fakeTarget) ApplyDamage(d core.Damage) bool {
	t.last = d
	t.hp -= d.Amount
	return t.hp <= 0
}

// rig bundles a weapon with its collaborators and a recorded event log
type rig struct {
	w        *Weapon
	q        *engine.TimerQueue
	owner    *fakeOwner
	mesh     *fakeMesh
	dis      *recordingDischarger
	impacts  *fakeImpacts
	launches *fakeLaunches
	rep      *diag.Reporter
	events   []event.Event
}

func (r *rig) count(t event.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func baseData() armory.WeaponData {
	return armory.WeaponData{
		Damage:           50,
		Range:            1000,
		ArmorPen:         60,
		ArmorPenMaxRange: 30,
		MagCapacity:      6,
		ReloadTime:       2 * time.Second,
		Cooldown:         time.Second,
		Accuracy:         1,
		Calibre:          30,
		Visuals: armory.Visuals{
			ImpactEffect: "fx/impact",
			BounceEffect: "fx/bounce",
			ImpactSound:  "snd/impact",
			BounceSound:  "snd/bounce",
			ImpactScale:  1.5,
		},
		ShellOverrides: map[armory.ShellType]armory.ShellOverride{
			armory.ShellHE: {Visuals: armory.Visuals{ImpactEffect: "fx/impact_he"}},
		},
	}
}

func baseConfig(r *rig) Config {
	return Config{
		Owner:      r.owner,
		Mesh:       r.mesh,
		Sockets:    []string{"muzzle_l", "muzzle_r"},
		Mode:       ModeSingle,
		Data:       baseData(),
		Shells:     armory.NewShellSet(armory.ShellAP, armory.ShellHE),
		Shell:      armory.ShellAP,
		Discharger: r.dis,
		Scheduler:  r.q,
		Impacts:    r.impacts,
		Launches:   r.launches,
		RNG:        core.NewRNG(42),
		Diag:       r.rep,
	}
}

// newParts builds collaborators without initializing the weapon
func newParts() *rig {
	r := &rig{
		q:     engine.NewTimerQueue(),
		owner: &fakeOwner{id: 7},
		mesh: &fakeMesh{sockets: map[string]vmath.Pose{
			"muzzle_l": {Location: vmath.Vec3F{X: 0, Y: -1, Z: 2}},
			"muzzle_r": {Location: vmath.Vec3F{X: 0, Y: 1, Z: 2}},
		}},
		dis:      &recordingDischarger{},
		impacts:  &fakeImpacts{},
		launches: &fakeLaunches{},
		rep:      diag.Nop(),
	}
	r.w = NewWeapon("test")
	for et := event.EventMagazineConsumed; et <= event.EventBurstFinished; et++ {
		r.w.Bus().Subscribe(et, event.HandlerFunc(func(ev event.Event) {
			r.events = append(r.events, ev)
		}))
	}
	return r
}

func newRig(t *testing.T, mutate func(*Config)) *rig {
	t.Helper()
	r := newParts()
	cfg := baseConfig(r)
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, r.w.Init(cfg))
	return r
}

// leakyScheduler never cancels, so only generation and sequence checks stop stale callbacks
type leakyScheduler struct {
	*engine.TimerQueue
}

func (leakyScheduler) Cancel(engine.TimerHandle) bool { return false }
