package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/ordnance/audio"
	"github.com/lixenwraith/ordnance/config"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/feedback"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/launcher"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/status"
	"github.com/lixenwraith/ordnance/telemetry"
	"github.com/lixenwraith/ordnance/vmath"
)

// station is one weapon mounted on the range with everything wired to it
type station struct {
	def      config.Definition
	kind     launcher.Kind
	weapon   *firecontrol.Weapon
	launcher launcher.Launcher
	impacts  *feedback.ImpactPool
	launches *feedback.LaunchCache
	shells   *shellPool
	mesh     *rack
	aim      vmath.Vec3F

	results  map[firecontrol.FireResult]int
	arrivals int
}

// firingRange owns the clock, the world and every station; it is not safe for concurrent use
type firingRange struct {
	cfg     config.RangeConfig
	log     zerolog.Logger
	diag    *diag.Reporter
	queue   *engine.TimerQueue
	world   *world
	sprites *spriteSet
	sounds  *audio.Engine
	capture *audio.Capture

	registry *status.Registry
	stations []*station
	elapsed  time.Duration
}

// newRange mounts defs on one emplacement. sounds may be nil for a silent range
func newRange(cfg config.RangeConfig, defs []config.Definition, log zerolog.Logger, sounds *audio.Engine) (*firingRange, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("no weapons to mount")
	}
	r := &firingRange{
		cfg:      cfg,
		log:      log,
		diag:     diag.New(log),
		queue:    engine.NewTimerQueue(),
		world:    newWorld(cfg.Targets),
		sounds:   sounds,
		registry: status.NewRegistry(),
	}
	r.sprites = newSpriteSet(r.queue.Now)

	ins, err := telemetry.New(nil, r.registry)
	if err != nil {
		return nil, err
	}

	var soundFactory core.SoundFactory
	if sounds != nil {
		soundFactory = sounds
		if cfg.AudioOut != "" {
			r.capture = sounds.NewCapture()
		}
	}
	audioCfg := &core.AudioConfig{
		FalloffStart: parameter.RangeAudioFalloffStart,
		FalloffEnd:   parameter.RangeAudioFalloffEnd,
		Volume:       parameter.RangeAudioVolume,
		MaxVoices:    parameter.RangeAudioMaxVoices,
	}

	for i, def := range defs {
		st, err := r.mount(i, def, soundFactory, audioCfg, ins)
		if err != nil {
			return nil, fmt.Errorf("weapon %q: %w", def.Name, err)
		}
		r.stations = append(r.stations, st)
	}
	return r, nil
}

func (r *firingRange) mount(i int, def config.Definition, sounds core.SoundFactory, audioCfg *core.AudioConfig, ins *telemetry.Instruments) (*station, error) {
	kind, err := def.Kind()
	if err != nil {
		return nil, err
	}
	fc, err := def.FireConfig()
	if err != nil {
		return nil, err
	}

	st := &station{
		def:     def,
		kind:    kind,
		shells:  newShellPool(parameter.RangeProjectilePoolCapacity, r.queue.Now),
		mesh:    newRack(def.Sockets),
		aim:     vmath.Vec3F{X: def.Aim.X, Y: def.Aim.Y, Z: def.Aim.Z},
		results: make(map[firecontrol.FireResult]int),
	}
	if st.aim == (vmath.Vec3F{}) {
		st.aim = r.defaultAim()
	}

	st.launcher, err = launcher.New(kind, def.Descriptor, launcher.Deps{
		Pool:      st.shells,
		Tracer:    r.world,
		Area:      r.world,
		OnArrival: func(launcher.Arrival) { st.arrivals++ },
	})
	if err != nil {
		return nil, err
	}

	rep := r.diag.With(def.Name)
	st.impacts = feedback.NewImpactPool(r.sprites, sounds, rep)
	st.impacts.Initialize(impactCapacity(def), audioCfg)
	st.launches = feedback.NewLaunchCache(r.sprites, rep)

	fc.Owner = emplacement{}
	fc.Mesh = st.mesh
	fc.Discharger = st.launcher
	fc.Scheduler = r.queue
	fc.Impacts = st.impacts
	fc.Launches = st.launches
	fc.RNG = core.NewRNG(r.cfg.Seed + uint64(i))
	fc.Diag = rep
	fc.Registry = r.registry
	fc.Telemetry = ins

	st.weapon = firecontrol.NewWeapon(def.Name)
	st.launches.Attach(st.weapon.Bus())
	if err := st.weapon.Init(fc); err != nil {
		st.launches.Detach()
		return nil, err
	}

	r.log.Info().
		Str("weapon", def.Name).
		Str("launcher", kind.String()).
		Str("mode", fc.Mode.String()).
		Int("magazine", st.weapon.Magazine()).
		Int("impactSlots", st.impacts.Capacity()).
		Msg("weapon mounted")
	return st, nil
}

// impactCapacity honors an explicit pool size, else derives one from the fire rate
func impactCapacity(def config.Definition) int {
	if def.PoolCapacity > 0 {
		return def.PoolCapacity
	}
	rate := 0.0
	if cd := def.Data.Cooldown; cd > 0 {
		rate = 1 / cd.Seconds()
	}
	burst, interval := 1, time.Duration(0)
	switch {
	case def.Burst.Count > 0:
		burst = def.Burst.Count
		interval = def.Burst.Interval
	case def.Burst.Max > 0:
		burst = def.Burst.Max
		interval = def.Burst.Interval
	}
	if burst > 1 {
		if interval <= 0 {
			interval = parameter.BurstIntervalDefault
		}
		rate = 1 / interval.Seconds()
		return feedback.RecommendedCapacity(rate, burst, def.Data.Cooldown, 0)
	}
	return feedback.RecommendedCapacity(rate, 1, 0, 0)
}

// defaultAim is the first target, else straight down range
func (r *firingRange) defaultAim() vmath.Vec3F {
	if len(r.world.targets) > 0 {
		return r.world.targets[0].loc
	}
	return vmath.Vec3F{X: 1000}
}

// Now is the simulated time since the range opened
func (r *firingRange) Now() time.Duration { return r.queue.Now() }

// Step holds every trigger for one tick, then advances timers and audio by dt
func (r *firingRange) Step(dt time.Duration) {
	for _, st := range r.stations {
		res := st.weapon.Fire(st.aim)
		st.results[res]++
	}
	r.queue.Advance(dt)
	r.elapsed += dt
	if r.capture != nil {
		r.capture.Advance(dt)
	}
}

// Run steps at the configured tick until d of simulated time has passed
func (r *firingRange) Run(d time.Duration) int {
	tick := r.cfg.Tick
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	steps := 0
	for r.elapsed < d && steps < parameter.RangeMaxSteps {
		r.Step(min(tick, d-r.elapsed))
		steps++
	}
	return steps
}

// Close disables every weapon and releases pooled components
func (r *firingRange) Close() {
	for _, st := range r.stations {
		st.weapon.DisableWeapon()
		st.launches.Detach()
		st.launches.Release()
		st.impacts.Release()
	}
}

// WriteAudio encodes the captured mix as WAV
func (r *firingRange) WriteAudio(w io.WriteSeeker) error {
	if r.capture == nil {
		return fmt.Errorf("audio capture not enabled")
	}
	return r.capture.WriteWAV(w)
}

// summary is one weapon's line in the end-of-run report
type summary struct {
	Weapon   string
	Launcher string
	Shots    int64
	Reloads  int64
	Impacts  int64
	Bounces  int64
	Kills    int64
	Damage   float64
	Launched int
	Arrived  int
	Recalled int
	Rejected int64
}

func (r *firingRange) Summary() []summary {
	out := make([]summary, 0, len(r.stations))
	for _, st := range r.stations {
		ws := st.weapon.Stats()
		ls := st.launcher.Stats()
		out = append(out, summary{
			Weapon:   st.def.Name,
			Launcher: st.kind.String(),
			Shots:    ws.Shots.Load(),
			Reloads:  ws.Reloads.Load(),
			Impacts:  ws.Impacts.Load(),
			Bounces:  ws.Bounces.Load(),
			Kills:    ws.Kills.Load(),
			Damage:   ws.DamageDealt.Get(),
			Launched: ls.Launched,
			Arrived:  ls.Arrived,
			Recalled: ls.Recalled,
			Rejected: ws.Rejected.Load(),
		})
	}
	return out
}

func printSummary(w io.Writer, r *firingRange) {
	fmt.Fprintf(w, "%-16s %-9s %6s %7s %7s %7s %5s %9s %8s %7s\n",
		"WEAPON", "LAUNCHER", "SHOTS", "RELOADS", "IMPACTS", "BOUNCES", "KILLS", "DAMAGE", "LAUNCHED", "ARRIVED")
	for _, s := range r.Summary() {
		fmt.Fprintf(w, "%-16s %-9s %6d %7d %7d %7d %5d %9.1f %8d %7d\n",
			s.Weapon, s.Launcher, s.Shots, s.Reloads, s.Impacts, s.Bounces, s.Kills, s.Damage, s.Launched, s.Arrived)
	}
	for _, t := range r.world.targets {
		fmt.Fprintf(w, "target %-12s hits %4d  health %8.1f / %-8.1f\n",
			t.name, t.hits, math.Max(t.health, 0), t.maxHP)
	}
	fmt.Fprintf(w, "simulated %s, %d timers fired\n", r.Now(), r.queue.Fired())
}
