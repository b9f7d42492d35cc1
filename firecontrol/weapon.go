// Package firecontrol is the per-weapon firing state machine: cooldown, reload,
// burst bookkeeping and the shared launch protocol every trajectory variant uses
//
// A weapon is single-threaded. All timers run on the engine.Scheduler passed at
// init and are re-validated by generation and sequence when they fire, so a
// callback that outlives StopFire, DisableWeapon or a re-init does nothing
package firecontrol

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/event"
	"github.com/lixenwraith/ordnance/status"
	"github.com/lixenwraith/ordnance/telemetry"
	"github.com/lixenwraith/ordnance/vmath"
)

var weaponIDs atomic.Uint64

// timerSlot is one named timer; seq invalidates callbacks armed before the last disarm
type timerSlot struct {
	handle engine.TimerHandle
	seq    uint64
}

// Weapon is one fire-control state machine
type Weapon struct {
	id   uint64
	name string
	bus  *event.Bus
	diag *diag.Reporter

	cfg   Config
	model *armory.Model
	fire  fireFunc
	stats *status.WeaponStats
	rec   *telemetry.Recorder

	state       State
	dispatching bool
	magazine    int
	burstLeft   int
	burstFired  int
	aim         vmath.Vec3F
	lastShell   armory.ShellType
	nextSocket  int
	serial      uint64

	generation uint64
	cooldown   timerSlot
	reload     timerSlot
	burst      timerSlot
	aux        map[engine.TimerHandle]struct{}
}

// NewWeapon creates an uninitialized weapon; subscribe to Bus() before Init to see every event
func NewWeapon(name string) *Weapon {
	return &Weapon{
		id:    weaponIDs.Add(1),
		name:  name,
		bus:   event.NewBus(),
		stats: status.NewRegistry().Weapon(name),
		aux:   make(map[engine.TimerHandle]struct{}),
	}
}

// Init validates cfg and arms the weapon with a full magazine
// On error the weapon stays inert: Fire returns FireMisconfigured
func (w *Weapon) Init(cfg Config) error {
	if w.state == StateDisabled {
		return ErrWeaponDisabled
	}
	w.teardown()
	w.diag = cfg.Diag.With("weapon." + w.name)
	w.model = nil
	w.setState(StateUninitialized)

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return w.misconfigured(err)
	}
	model, err := armory.NewModel(cfg.Data, cfg.Shells, cfg.Shell, w.diag)
	if err != nil {
		return w.misconfigured(err)
	}

	w.cfg = cfg
	w.model = model
	w.fire = fireModes[cfg.Mode]
	if cfg.Registry != nil {
		w.stats = cfg.Registry.Weapon(w.name)
	}
	w.rec = cfg.Telemetry.Weapon(w.name, cfg.Mode.String())

	if b, ok := cfg.Discharger.(Binder); ok {
		if err := b.Bind(w); err != nil {
			w.model = nil
			return w.misconfigured(err)
		}
	}

	model.OnShellChanged(w.onShellChanged)
	w.magazine = w.Capacity()
	w.burstLeft, w.burstFired = 0, 0
	w.lastShell = cfg.Shell
	w.nextSocket = 0
	w.stats.Shell.Store(cfg.Shell.String())
	w.stats.Magazine.Store(int64(w.magazine))
	w.setState(StateIdle)
	return nil
}

func (w *Weapon) misconfigured(err error) error {
	err = fmt.Errorf("init weapon %s: %w", w.name, err)
	w.diag.ReportOnce("init:"+err.Error(), diag.KindConfig, "weapon misconfigured",
		"weapon", w.name, "error", err.Error())
	return err
}

// Fire requests a fire action toward aim
func (w *Weapon) Fire(aim vmath.Vec3F) FireResult {
	res := w.fireRequest(aim)
	if !res.Accepted() {
		w.stats.Rejected.Add(1)
		w.rec.Rejected(res.String())
	}
	return res
}

func (w *Weapon) fireRequest(aim vmath.Vec3F) FireResult {
	switch w.state {
	case StateUninitialized:
		return FireMisconfigured
	case StateDisabled:
		return FireRejectedDisabled
	case StateCooldown:
		return FireRejectedCooldown
	case StateReloading:
		return FireRejectedReloading
	case StateInBurst:
		w.aim = aim
		return FireBurstRefreshed
	}
	if w.dispatching {
		return FireRejectedCooldown
	}
	if !w.ownerValid() {
		w.diag.Report(diag.KindTransient, "fire with invalid owner", "weapon", w.name)
		return FireInvalidReference
	}
	if w.magazine <= 0 {
		w.Reload()
		return FireReloadStarted
	}

	w.dispatching = true
	defer func() { w.dispatching = false }()
	return w.fire(w, aim)
}

func fireSingle(w *Weapon, aim vmath.Vec3F) FireResult {
	gen := w.generation
	if !w.discharge(aim, 0) {
		return FireInvalidReference
	}
	if gen == w.generation {
		w.startCooldown()
	}
	return FireDischarged
}

func fireFixedBurst(w *Weapon, aim vmath.Vec3F) FireResult {
	return w.startBurst(aim, w.cfg.Burst.Count)
}

// fireRandomBurst draws the burst size once, at burst start
func fireRandomBurst(w *Weapon, aim vmath.Vec3F) FireResult {
	return w.startBurst(aim, w.cfg.RNG.IntRange(w.cfg.Burst.Min, w.cfg.Burst.Max))
}

func (w *Weapon) startBurst(aim vmath.Vec3F, count int) FireResult {
	gen := w.generation
	w.aim = aim
	w.burstLeft = min(count, w.magazine)
	w.burstFired = 0
	w.setState(StateInBurst)

	w.burstFired, w.burstLeft = 1, w.burstLeft-1
	if !w.discharge(aim, 0) {
		w.burstFired, w.burstLeft = 0, 0
		w.setState(StateIdle)
		return FireInvalidReference
	}
	w.stats.Bursts.Add(1)
	if gen == w.generation && w.state == StateInBurst {
		w.continueBurst()
	}
	return FireBurstStarted
}

func (w *Weapon) burstTick() {
	if !w.ownerValid() {
		w.endBurst(true)
		return
	}
	gen := w.generation
	w.burstFired++
	w.burstLeft--
	if !w.discharge(w.aim, w.burstFired-1) {
		w.burstFired--
		w.endBurst(true)
		return
	}
	if gen == w.generation && w.state == StateInBurst {
		w.continueBurst()
	}
}

func (w *Weapon) continueBurst() {
	if w.burstLeft <= 0 || w.magazine <= 0 {
		w.endBurst(false)
		return
	}
	w.arm(&w.burst, w.cfg.Burst.Interval, w.burstTick)
}

// endBurst leaves the burst into cooldown, or reload when the magazine is empty
func (w *Weapon) endBurst(interrupted bool) {
	w.disarm(&w.burst)
	fired := w.burstFired
	w.burstLeft, w.burstFired = 0, 0
	w.setState(StateIdle)

	if w.magazine <= 0 {
		w.Reload()
	} else {
		w.startCooldown()
	}
	w.publish(event.EventBurstFinished, &event.BurstPayload{Fired: fired, Interrupted: interrupted})
}

func (w *Weapon) startCooldown() {
	d := w.cfg.RNG.Flux(w.model.ShellAdjustedData().Cooldown, *w.cfg.CooldownFlux)
	if d <= 0 {
		w.setState(StateIdle)
		return
	}
	w.setState(StateCooldown)
	w.arm(&w.cooldown, d, func() {
		w.setState(StateIdle)
	})
}

// Reload starts the reload timer; returns false when busy, full, disabled or inert
func (w *Weapon) Reload() bool {
	switch w.state {
	case StateIdle, StateCooldown:
	default:
		return false
	}
	if w.magazine >= w.Capacity() {
		return false
	}
	w.disarm(&w.cooldown)
	w.setState(StateReloading)

	d := w.cfg.RNG.Flux(w.model.ShellAdjustedData().ReloadTime, *w.cfg.ReloadFlux)
	if d <= 0 {
		w.completeReload()
		return true
	}
	w.arm(&w.reload, d, w.completeReload)
	return true
}

func (w *Weapon) completeReload() {
	w.setState(StateIdle)
	if !w.ownerValid() {
		return
	}
	w.magazine = w.Capacity()
	w.stats.Reloads.Add(1)
	w.stats.Magazine.Store(int64(w.magazine))
	w.rec.Reload()
	w.publish(event.EventReloaded, &event.MagazinePayload{Remaining: w.magazine, Capacity: w.magazine})

	if hook, ok := w.cfg.Discharger.(ReloadHook); ok {
		hook.OnReloaded()
	}
}

// StopFire ends any burst and cancels the reload and cooldown timers selected by flags
// A cancelled reload leaves the magazine as it was
func (w *Weapon) StopFire(flags StopFlags) {
	if w.state == StateInBurst {
		w.endBurst(true)
	}
	if flags&StopReload != 0 && w.state == StateReloading {
		w.disarm(&w.reload)
		w.setState(StateIdle)
	}
	if flags&StopCooldown != 0 && w.state == StateCooldown {
		w.disarm(&w.cooldown)
		w.setState(StateIdle)
	}
}

// DisableWeapon cancels every timer and rejects all further fire requests
func (w *Weapon) DisableWeapon() {
	if w.state == StateDisabled {
		return
	}
	w.teardown()
	w.burstLeft, w.burstFired = 0, 0
	w.setState(StateDisabled)
}

// teardown invalidates every outstanding callback of this weapon
func (w *Weapon) teardown() {
	w.generation++
	w.disarm(&w.cooldown)
	w.disarm(&w.reload)
	w.disarm(&w.burst)
	for h := range w.aux {
		if w.cfg.Scheduler != nil {
			w.cfg.Scheduler.Cancel(h)
		}
	}
	clear(w.aux)
	if hook, ok := w.cfg.Discharger.(TeardownHook); ok {
		hook.OnTeardown()
	}
}

func (w *Weapon) arm(slot *timerSlot, d time.Duration, fn func()) {
	w.disarm(slot)
	gen, seq := w.generation, slot.seq
	slot.handle = w.cfg.Scheduler.Schedule(d, func() {
		if gen != w.generation || seq != slot.seq {
			return
		}
		slot.handle = 0
		fn()
	})
}

func (w *Weapon) disarm(slot *timerSlot) {
	if slot.handle != 0 && w.cfg.Scheduler != nil {
		w.cfg.Scheduler.Cancel(slot.handle)
	}
	slot.handle = 0
	slot.seq++
}

// After schedules fn on the weapon's scheduler for variant stage transitions
// DisableWeapon and re-init cancel it; returns 0 on an inert weapon
func (w *Weapon) After(d time.Duration, fn func()) engine.TimerHandle {
	if w.model == nil || w.state == StateDisabled || fn == nil {
		return 0
	}
	gen := w.generation
	var h engine.TimerHandle
	h = w.cfg.Scheduler.Schedule(d, func() {
		delete(w.aux, h)
		if gen != w.generation {
			return
		}
		fn()
	})
	w.aux[h] = struct{}{}
	return h
}

// CancelAfter cancels a callback returned by After
func (w *Weapon) CancelAfter(h engine.TimerHandle) bool {
	if _, ok := w.aux[h]; !ok {
		return false
	}
	delete(w.aux, h)
	return w.cfg.Scheduler.Cancel(h)
}

// discharge launches one shot and consumes one round
func (w *Weapon) discharge(aim vmath.Vec3F, burstIndex int) bool {
	idx, pose, ok := w.resolveSocket()
	if !ok {
		return false
	}
	data := w.model.ShellAdjustedData()
	shell := w.model.CurrentShell()
	w.serial++
	shot := Shot{
		Aim:         aim,
		Origin:      pose,
		Socket:      w.cfg.Sockets[idx],
		SocketIndex: idx,
		Data:        data,
		Shell:       shell,
		BurstIndex:  burstIndex,
		Serial:      w.serial,
	}
	// Instant variants may report the impact before Discharge returns
	prevShell := w.lastShell
	w.lastShell = shell
	if !w.cfg.Discharger.Discharge(shot) {
		w.lastShell = prevShell
		w.diag.Report(diag.KindTransient, "discharge produced no projectile",
			"weapon", w.name, "socket", shot.Socket)
		return false
	}
	if w.cfg.Launches != nil {
		w.cfg.Launches.PlayLaunch(shot.Socket, pose, data, shell)
	}

	w.magazine--
	w.stats.Shots.Add(1)
	w.stats.Magazine.Store(int64(w.magazine))
	w.rec.Shot(shell.String())
	w.publish(event.EventMagazineConsumed, &event.MagazinePayload{Remaining: w.magazine, Capacity: data.MagCapacity})
	return true
}

// resolveSocket walks the sockets round-robin and returns the first that resolves
func (w *Weapon) resolveSocket() (int, vmath.Pose, bool) {
	mesh := w.cfg.Mesh
	if mesh == nil || !mesh.Valid() {
		w.diag.Report(diag.KindTransient, "mesh no longer valid", "weapon", w.name)
		return 0, vmath.Pose{}, false
	}
	n := len(w.cfg.Sockets)
	for range n {
		i := w.nextSocket
		w.nextSocket = (w.nextSocket + 1) % n
		if pose, ok := mesh.SocketPose(w.cfg.Sockets[i]); ok {
			return i, pose, true
		}
		w.diag.ReportOnce("socket:"+w.name+":"+w.cfg.Sockets[i], diag.KindConfig, "socket missing on mesh",
			"weapon", w.name, "socket", w.cfg.Sockets[i])
	}
	return 0, vmath.Pose{}, false
}

func (w *Weapon) onShellChanged(previous, current armory.ShellType) {
	w.stats.Shell.Store(current.String())
	w.publish(event.EventShellChanged, &event.ShellPayload{Shell: current, Previous: previous})
}

// ChangeWeaponShellType selects a shell from the allowed set
func (w *Weapon) ChangeWeaponShellType(t armory.ShellType) bool {
	if w.model == nil {
		return false
	}
	return w.model.ChangeShellType(t)
}

// Upgrade applies or removes a behaviour delta; a shrunk magazine is clamped
func (w *Weapon) Upgrade(delta armory.BehaviourDelta, add bool) error {
	if w.model == nil {
		return ErrNotInitialized
	}
	if err := w.model.ApplyBehaviourDelta(delta, add); err != nil {
		return err
	}
	c := w.Capacity()
	if w.magazine > c {
		w.magazine = c
		w.stats.Magazine.Store(int64(w.magazine))
	}
	w.burstLeft = min(w.burstLeft, w.magazine)
	return nil
}

// UpgradeWeaponWithExtraShellType extends the allowed shells; repeats are no-ops
func (w *Weapon) UpgradeWeaponWithExtraShellType(t armory.ShellType) bool {
	if w.model == nil {
		return false
	}
	return w.model.AddShellType(t)
}

// UpgradeWeaponWithRangeMlt raises the range multiplier; lower values are no-ops
func (w *Weapon) UpgradeWeaponWithRangeMlt(mlt float64) bool {
	if w.model == nil {
		return false
	}
	changed, err := w.model.SetRangeMultiplier(mlt)
	return err == nil && changed
}

// ReportImpact plays impact feedback with the visuals of the last shell fired
func (w *Weapon) ReportImpact(loc vmath.Vec3F, rot vmath.Rotator) {
	if w.model == nil {
		return
	}
	w.playImpact(w.model.AdjustedFor(w.lastShell).Visuals, loc, rot)
}

// ReportImpactFor plays impact feedback with the visuals the shot was fired with
func (w *Weapon) ReportImpactFor(shot Shot, loc vmath.Vec3F, rot vmath.Rotator) {
	if w.model == nil {
		return
	}
	w.playImpact(shot.Data.Visuals, loc, rot)
}

func (w *Weapon) playImpact(v armory.Visuals, loc vmath.Vec3F, rot vmath.Rotator) {
	w.stats.Impacts.Add(1)
	w.rec.Impact(false)
	if w.cfg.Impacts == nil {
		return
	}
	w.cfg.Impacts.PlayImpact(loc, rot, v.ImpactEffect, v.ImpactScale, v.ImpactSound)
}

// ReportBounce plays ricochet feedback with the visuals of the last shell fired
func (w *Weapon) ReportBounce(loc vmath.Vec3F, rot vmath.Rotator) {
	if w.model == nil {
		return
	}
	w.playBounce(w.model.AdjustedFor(w.lastShell).Visuals, loc, rot)
}

// ReportBounceFor plays ricochet feedback with the visuals the shot was fired with
func (w *Weapon) ReportBounceFor(shot Shot, loc vmath.Vec3F, rot vmath.Rotator) {
	if w.model == nil {
		return
	}
	w.playBounce(shot.Data.Visuals, loc, rot)
}

func (w *Weapon) playBounce(v armory.Visuals, loc vmath.Vec3F, rot vmath.Rotator) {
	w.stats.Bounces.Add(1)
	w.rec.Impact(true)
	if w.cfg.Impacts == nil {
		return
	}
	w.cfg.Impacts.PlayBounce(loc, rot, v.BounceEffect, v.ImpactScale, v.BounceSound)
}

// ReportKill credits this weapon's owner with a kill
func (w *Weapon) ReportKill(actor core.Actor) {
	if w.model == nil || actor == nil {
		return
	}
	w.stats.Kills.Add(1)
	w.rec.Kill()
	w.publish(event.EventActorKilled, &event.KillPayload{Actor: actor.Entity(), Killer: w.ownerEntity()})
}

// ResolveHit applies a shot's damage to a hit, plays impact feedback and reports a kill
func (w *Weapon) ResolveHit(shot Shot, hit core.Hit) (killed bool) {
	w.ReportImpactFor(shot, hit.Location, vmath.RotatorFromDirection(hit.Normal))

	target, ok := hit.Actor.(core.Damageable)
	if !ok {
		return false
	}
	return w.DealDamage(shot, target, shot.Data.Damage, vmath.V3FDist(shot.Origin.Location, hit.Location))
}

// DealDamage applies amount with the shot's penetration at dist and reports a kill
// Area damage from explosive arrivals goes through here without impact feedback
func (w *Weapon) DealDamage(shot Shot, target core.Damageable, amount, dist float64) (killed bool) {
	if w.model == nil || target == nil || !target.Valid() || amount <= 0 {
		return false
	}
	dmg := core.Damage{
		Amount:      amount,
		Penetration: armory.PenetrationAt(shot.Data, dist),
		Calibre:     shot.Data.Calibre,
		Source:      w.ownerEntity(),
	}
	w.stats.DamageDealt.Add(dmg.Amount)
	w.rec.Damage(dmg.Amount)
	if target.ApplyDamage(dmg) {
		w.ReportKill(target)
		return true
	}
	return false
}

func (w *Weapon) publish(t event.EventType, payload any) {
	w.bus.Publish(event.Event{Type: t, Source: w.id, Payload: payload})
}

func (w *Weapon) setState(s State) {
	w.state = s
	w.stats.State.Store(s.String())
}

func (w *Weapon) ownerValid() bool {
	return w.cfg.Owner != nil && w.cfg.Owner.Valid()
}

func (w *Weapon) ownerEntity() core.Entity {
	if !w.ownerValid() {
		return 0
	}
	return w.cfg.Owner.Entity()
}

func (w *Weapon) ID() uint64 { return w.id }

func (w *Weapon) Name() string { return w.name }

func (w *Weapon) State() State { return w.state }

func (w *Weapon) Magazine() int { return w.magazine }

// Capacity is the shell-adjusted magazine size, 0 before init
func (w *Weapon) Capacity() int {
	if w.model == nil {
		return 0
	}
	return w.model.ShellAdjustedData().MagCapacity
}

func (w *Weapon) AmountLeftInBurst() int { return w.burstLeft }

func (w *Weapon) Bus() *event.Bus { return w.bus }

// Model exposes the data model; nil until a successful Init
func (w *Weapon) Model() *armory.Model { return w.model }

func (w *Weapon) Generation() uint64 { return w.generation }

func (w *Weapon) LastShell() armory.ShellType { return w.lastShell }

func (w *Weapon) Owner() core.Owner { return w.cfg.Owner }

func (w *Weapon) Mesh() core.Mesh { return w.cfg.Mesh }

func (w *Weapon) Sockets() []string { return w.cfg.Sockets }

func (w *Weapon) Scheduler() engine.Scheduler { return w.cfg.Scheduler }

func (w *Weapon) RNG() *core.RNG { return w.cfg.RNG }

func (w *Weapon) Diag() *diag.Reporter { return w.diag }

func (w *Weapon) Recorder() *telemetry.Recorder { return w.rec }

func (w *Weapon) Stats() *status.WeaponStats { return w.stats }
