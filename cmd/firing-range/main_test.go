package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/catalog"
)

const rangeFile = `
log:
  level: error
range:
  tick: 10ms
  duration: 2s
  targets:
    - name: bunker
      location: {x: 500, y: 0, z: 0}
      health: 400
      armor: 10
weapons:
  - name: cannon
    sockets: [muzzle]
    data:
      damage: 60
      range: 2000
      armorPen: 40
      magCapacity: 3
      reloadTime: 1s
      cooldown: 400ms
      accuracy: 1
    aim: {x: 500, y: 0, z: 0}
  - name: howitzer
    launcher: arched
    sockets: [tube]
    shells: [HE]
    data:
      damage: 20
      range: 3000
      magCapacity: 2
      reloadTime: 2s
      cooldown: 1s
      accuracy: 1
      projectileSpeed: 300
      explosive:
        aoeRange: 50
        aoeDamage: 30
    aim: {x: 500, y: 0, z: 0}
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "range.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rangeFile), 0644))
	return path
}

func TestRun_Headless(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-config", writeConfig(t)}, &out, &errOut))

	s := out.String()
	assert.Contains(t, s, "cannon")
	assert.Contains(t, s, "howitzer")
	assert.Contains(t, s, "arched")
	assert.Contains(t, s, "target bunker")
	assert.Contains(t, s, "simulated 2s")
}

func TestRun_SelectsWeapons(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-config", writeConfig(t), "-weapon", "HOWITZER", "-duration", "500ms"}, &out, &errOut))
	assert.Contains(t, out.String(), "howitzer")
	assert.NotContains(t, out.String(), "cannon")
	assert.Contains(t, out.String(), "simulated 500ms")
}

func TestRun_UnknownWeapon(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-config", writeConfig(t), "-weapon", "railgun"}, &out, &errOut)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRun_List(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-config", writeConfig(t), "-list"}, &out, &errOut))
	assert.Contains(t, out.String(), "cannon")
	assert.Contains(t, out.String(), "arched")
	assert.NotContains(t, out.String(), "WEAPON")
}

func TestRun_EmptyCatalog(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(nil, &out, &errOut)
	assert.ErrorContains(t, err, "catalog is empty")
}

func TestRun_BadFlagOverride(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-config", writeConfig(t), "-view", "hologram"}, &out, &errOut)
	assert.ErrorContains(t, err, "range.view")
}

func TestRun_AudioOut(t *testing.T) {
	wav := filepath.Join(t.TempDir(), "mix.wav")
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-config", writeConfig(t), "-duration", "1s", "-audio-out", wav}, &out, &errOut))

	info, err := os.Stat(wav)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}
