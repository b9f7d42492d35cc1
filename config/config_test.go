package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/launcher"
)

const rangeYAML = `
log:
  level: debug
range:
  tick: 20ms
  duration: 1.5s
  seed: 7
  targets:
    - name: bunker
      location: {x: 800, y: 0, z: 0}
      health: 500
      armor: 60
weapons:
  - name: mortar
    launcher: splitter
    mode: burst
    sockets: [tube]
    shells: [AP, HE]
    shell: HE
    burst:
      count: 3
      interval: 250ms
    cooldownFlux: 10
    reloadFlux: 0
    data:
      damage: 40
      range: 1200
      armorPen: 30
      armorPenMaxRange: 10
      magCapacity: 6
      reloadTime: 4s
      cooldown: 1.5s
      accuracy: 0.9
      projectileSpeed: 400
      explosive:
        aoeRange: 60
        aoeDamage: 25
      visuals:
        impactEffect: fx/mortar
        impactSound: explosion
    overrides:
      HE:
        visuals:
          impactEffect: fx/mortar_he
    descriptor:
      split:
        count: 4
        spreadRadius: 35
        damageMlt: 0.5
      arc:
        heightMultiplier: 1.2
    aim: {x: 800, y: 0, z: 0}
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	f, err := Load(writeFile(t, "range.yaml", rangeYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", f.Log.Level)
	assert.Equal(t, 20*time.Millisecond, f.Range.Tick)
	assert.Equal(t, 1500*time.Millisecond, f.Range.Duration)
	assert.Equal(t, uint64(7), f.Range.Seed)
	require.Len(t, f.Range.Targets, 1)
	assert.Equal(t, 60.0, f.Range.Targets[0].Armor)
	assert.Equal(t, 800.0, f.Range.Targets[0].Location.X)

	d, ok := f.Weapon("MORTAR")
	require.True(t, ok)
	assert.Equal(t, []string{"tube"}, d.Sockets)
	assert.Equal(t, 4*time.Second, d.Data.ReloadTime)
	assert.Equal(t, 1500*time.Millisecond, d.Data.Cooldown)
	assert.Equal(t, 250*time.Millisecond, d.Burst.Interval)
	assert.Equal(t, 25.0, d.Data.Explosive.AOEDamage)
	assert.Equal(t, 4, d.Descriptor.Split.Count)
	assert.Equal(t, 35.0, d.Descriptor.Split.SpreadRadius)
	assert.Equal(t, 1.2, d.Descriptor.Arc.HeightMultiplier)
	require.NotNil(t, d.CooldownFlux)
	assert.Equal(t, 10.0, *d.CooldownFlux)
	require.NotNil(t, d.ReloadFlux, "explicit zero is kept")
	assert.Zero(t, *d.ReloadFlux)

	kind, err := d.Kind()
	require.NoError(t, err)
	assert.Equal(t, launcher.KindSplitter, kind)

	cfg, err := d.FireConfig()
	require.NoError(t, err)
	assert.Equal(t, firecontrol.ModeFixedBurst, cfg.Mode)
	assert.Equal(t, 3, cfg.Burst.Count)
	assert.Equal(t, armory.ShellHE, cfg.Shell)
	assert.True(t, cfg.Shells.Has(armory.ShellAP))
	assert.Equal(t, "fx/mortar_he", string(cfg.Data.ShellOverrides[armory.ShellHE].Visuals.ImpactEffect))
	assert.Equal(t, "explosion", string(cfg.Data.Visuals.ImpactSound))
}

func TestLoad_Defaults(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", f.Log.Level)
	assert.Equal(t, DriverSQLite, f.Catalog.Driver)
	assert.Equal(t, 16*time.Millisecond, f.Range.Tick)
	assert.Equal(t, 10*time.Second, f.Range.Duration)
	assert.Equal(t, ViewNone, f.Range.View)
	assert.Empty(t, f.Weapons)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ORDNANCE_LOG_LEVEL", "warn")
	t.Setenv("ORDNANCE_RANGE_TICK", "5ms")

	f, err := Load(writeFile(t, "range.yaml", rangeYAML))
	require.NoError(t, err)
	assert.Equal(t, "warn", f.Log.Level)
	assert.Equal(t, 5*time.Millisecond, f.Range.Tick)
}

func TestLoad_JSONAndTOML(t *testing.T) {
	js := `{"weapons": [{"name": "cannon", "sockets": ["muzzle"], "data": {"magCapacity": 1, "cooldown": "2s"}}]}`
	f, err := Load(writeFile(t, "range.json", js))
	require.NoError(t, err)
	d, ok := f.Weapon("cannon")
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, d.Data.Cooldown)
	assert.Equal(t, "direct", d.Launcher, "launcher defaults to direct")
	assert.Equal(t, []string{"AP"}, d.Shells)
	assert.Equal(t, "AP", d.Shell)

	tm := `
[[weapons]]
name = "pod"
launcher = "rocket"
sockets = ["a", "b"]
[weapons.data]
magCapacity = 8
reloadTime = "6s"
`
	f, err = Load(writeFile(t, "range.toml", tm))
	require.NoError(t, err)
	d, ok = f.Weapon("pod")
	require.True(t, ok)
	assert.Equal(t, 6*time.Second, d.Data.ReloadTime)
	assert.Equal(t, []string{"a", "b"}, d.Sockets)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/range.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	bad := `
log:
  level: loud
catalog:
  driver: postgres
range:
  view: window
weapons:
  - name: a
    launcher: trebuchet
    mode: burst
    shells: [AP]
    shell: HE
    data:
      magCapacity: 0
      accuracy: 2
  - name: A
    sockets: [s]
    launcher: splitter
    data:
      magCapacity: 1
`
	f, err := Load(writeFile(t, "bad.yaml", bad))
	require.Error(t, err)
	require.NotNil(t, f, "the decoded file is returned alongside validation errors")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	joined := verr.Error()
	for _, want := range []string{
		"log.level",
		"catalog.dsn",
		"range.view",
		"unknown launcher kind",
		"burst.count",
		"socket required",
		"shell type not in allowed set",
		"magazine capacity",
		"accuracy 2",
		"duplicate name",
		"descriptor.split.count",
	} {
		assert.Contains(t, joined, want)
	}
	assert.GreaterOrEqual(t, len(verr.Problems), 11)
}

func TestDefinitionValidate(t *testing.T) {
	d := Definition{Name: "gun", Sockets: []string{"m"}, Data: armory.WeaponData{MagCapacity: 1}}
	d.ApplyDefaults()
	assert.NoError(t, d.Validate())

	d.Overrides = map[string]armory.ShellOverride{"plasma": {}}
	err := d.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "plasma")
}
