package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/audio"
	"github.com/lixenwraith/ordnance/config"
	"github.com/lixenwraith/ordnance/feedback"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/launcher"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/trajectory"
)

func rangeConfig() config.RangeConfig {
	return config.RangeConfig{
		Tick:     10 * time.Millisecond,
		Duration: 3 * time.Second,
		Seed:     5,
		View:     config.ViewNone,
		Targets: []config.TargetConfig{
			{Name: "dummy", Location: config.Point{X: 600}, Health: 100},
		},
	}
}

func rifle() config.Definition {
	d := config.Definition{
		Name:    "rifle",
		Sockets: []string{"muzzle"},
		Data: armory.WeaponData{
			Damage:      40,
			Range:       2000,
			ArmorPen:    50,
			MagCapacity: 4,
			ReloadTime:  time.Second,
			Cooldown:    500 * time.Millisecond,
			Accuracy:    1,
			Calibre:     30,
			Visuals:     armory.Visuals{ImpactEffect: "fx/hit", ImpactSound: "impact"},
		},
		Aim: config.Point{X: 600},
	}
	d.ApplyDefaults()
	return d
}

func mortar() config.Definition {
	d := config.Definition{
		Name:     "mortar",
		Launcher: "splitter",
		Sockets:  []string{"tube"},
		Shells:   []string{"HE"},
		Data: armory.WeaponData{
			Damage:          30,
			Range:           2000,
			MagCapacity:     3,
			ReloadTime:      2 * time.Second,
			Cooldown:        time.Second,
			Accuracy:        1,
			Calibre:         80,
			ProjectileSpeed: 400,
			Explosive:       armory.Explosive{AOERange: 60, AOEDamage: 20},
			Visuals:         armory.Visuals{ImpactEffect: "fx/blast"},
		},
		Descriptor: launcherDescriptor(3),
		Aim:        config.Point{X: 600},
	}
	d.ApplyDefaults()
	return d
}

func newTestRange(t *testing.T, cfg config.RangeConfig, defs ...config.Definition) *firingRange {
	t.Helper()
	r, err := newRange(cfg, defs, zerolog.Nop(), nil)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestRange_DirectFireKillsTarget(t *testing.T) {
	r := newTestRange(t, rangeConfig(), rifle())
	steps := r.Run(3 * time.Second)
	assert.Equal(t, 300, steps)
	assert.Equal(t, 3*time.Second, r.Now())

	s := r.Summary()
	require.Len(t, s, 1)
	assert.Equal(t, "direct", s[0].Launcher)
	assert.GreaterOrEqual(t, s[0].Shots, int64(3))
	assert.Equal(t, int64(1), s[0].Kills)
	assert.InDelta(t, 120.0, s[0].Damage, 1e-9, "three hits of 40 kill a 100 hp dummy, then shots land on the ground")

	target := r.world.targets[0]
	assert.False(t, target.Valid())
	assert.Equal(t, 3, target.hits)
}

func TestRange_Deterministic(t *testing.T) {
	cfg := rangeConfig()
	rifleWide := rifle()
	rifleWide.Data.Accuracy = 0.3

	a := newTestRange(t, cfg, rifleWide, mortar())
	b := newTestRange(t, cfg, rifleWide, mortar())
	a.Run(4 * time.Second)
	b.Run(4 * time.Second)
	assert.Equal(t, a.Summary(), b.Summary())
	assert.Equal(t, a.world.targets[0].health, b.world.targets[0].health)
}

func TestRange_SplitterChildrenAndPoolBound(t *testing.T) {
	r := newTestRange(t, rangeConfig(), mortar())
	r.Run(5 * time.Second)

	st := r.stations[0]
	ls := st.launcher.Stats()
	assert.Positive(t, ls.Splits)
	assert.Equal(t, ls.Splits*3, ls.Children)
	assert.LessOrEqual(t, st.shells.peak, parameter.RangeProjectilePoolCapacity)
	assert.Equal(t, ls.Arrived, st.arrivals)

	r.Close()
	assert.Empty(t, st.shells.live, "disabling the weapons returns every projectile")
}

func TestRange_UnknownLauncherFails(t *testing.T) {
	d := rifle()
	d.Launcher = "catapult"
	_, err := newRange(rangeConfig(), []config.Definition{d}, zerolog.Nop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rifle")
}

func TestRange_NoWeapons(t *testing.T) {
	_, err := newRange(rangeConfig(), nil, zerolog.Nop(), nil)
	assert.Error(t, err)
}

func TestRange_DefaultAimIsFirstTarget(t *testing.T) {
	d := rifle()
	d.Aim = config.Point{}
	r := newTestRange(t, rangeConfig(), d)
	assert.Equal(t, 600.0, r.stations[0].aim.X)
}

func TestRange_StagedRackReloads(t *testing.T) {
	d := config.Definition{
		Name:     "pod",
		Launcher: "staged",
		Sockets:  []string{"a", "b", "c", "d"},
		Data: armory.WeaponData{
			Damage:          50,
			Range:           3000,
			MagCapacity:     4,
			ReloadTime:      time.Second,
			Cooldown:        200 * time.Millisecond,
			Accuracy:        1,
			ProjectileSpeed: 600,
		},
		Aim: config.Point{X: 600},
	}
	d.Descriptor.Instances = true
	d.ApplyDefaults()

	r := newTestRange(t, rangeConfig(), d)
	st := r.stations[0]
	assert.Equal(t, 4, st.mesh.Loaded())

	r.Step(10 * time.Millisecond)
	assert.Equal(t, 3, st.mesh.Loaded())
	assert.Equal(t, firecontrol.FireDischarged, firstResult(st))
}

func firstResult(st *station) firecontrol.FireResult {
	for res := range st.results {
		return res
	}
	return firecontrol.FireMisconfigured
}

func TestImpactCapacity(t *testing.T) {
	d := rifle()
	d.PoolCapacity = 5
	assert.Equal(t, 5, impactCapacity(d))

	d.PoolCapacity = 0
	assert.Equal(t, feedback.RecommendedCapacity(2, 1, 0, 0), impactCapacity(d))

	d.Mode = "burst"
	d.Burst = firecontrol.BurstParams{Count: 3, Interval: 100 * time.Millisecond}
	assert.Equal(t, feedback.RecommendedCapacity(10, 3, 500*time.Millisecond, 0), impactCapacity(d))
}

func TestRange_AudioCapture(t *testing.T) {
	cfg := rangeConfig()
	cfg.AudioOut = filepath.Join(t.TempDir(), "mix.wav")
	sounds := audio.NewEngine(audio.NewBank(beep.SampleRate(parameter.AudioSampleRate)))

	r, err := newRange(cfg, []config.Definition{rifle()}, zerolog.Nop(), sounds)
	require.NoError(t, err)
	defer r.Close()

	r.Run(time.Second)
	require.NotNil(t, r.capture)
	assert.InDelta(t, parameter.AudioSampleRate, r.capture.Len(), 1)
	assert.Positive(t, r.capture.Peak())

	require.NoError(t, writeAudio(r, cfg.AudioOut))
	info, err := os.Stat(cfg.AudioOut)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}

func TestRange_SilentRangeRefusesAudio(t *testing.T) {
	r := newTestRange(t, rangeConfig(), rifle())
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	require.NoError(t, err)
	defer f.Close()
	assert.Error(t, r.WriteAudio(f))
}

func TestPrintSummary(t *testing.T) {
	r := newTestRange(t, rangeConfig(), rifle())
	r.Run(time.Second)

	var sb strings.Builder
	printSummary(&sb, r)
	out := sb.String()
	assert.Contains(t, out, "WEAPON")
	assert.Contains(t, out, "rifle")
	assert.Contains(t, out, "target dummy")
	assert.Contains(t, out, "simulated 1s")
}

func launcherDescriptor(children int) launcher.Descriptor {
	return launcher.Descriptor{
		Split: trajectory.SplitParams{Count: children, SpreadRadius: 30, DamageMlt: 0.5},
	}
}
