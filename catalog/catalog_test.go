package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/config"
	"github.com/lixenwraith/ordnance/trajectory"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.CatalogConfig{Driver: config.DriverSQLite}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func definition(name, kind string) config.Definition {
	d := config.Definition{
		Name:     name,
		Launcher: kind,
		Sockets:  []string{"muzzle"},
		Shells:   []string{"AP", "HE"},
		Data: armory.WeaponData{
			Damage:      35,
			MagCapacity: 5,
			ReloadTime:  2500 * time.Millisecond,
			Cooldown:    400 * time.Millisecond,
			Accuracy:    0.8,
			Visuals:     armory.Visuals{ImpactEffect: "fx/hit"},
		},
		Overrides: map[string]armory.ShellOverride{
			"HE": {Visuals: armory.Visuals{ImpactEffect: "fx/hit_he"}},
		},
	}
	d.ApplyDefaults()
	return d
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	d := definition("Howitzer", "splitter")
	d.Descriptor.Split = trajectory.SplitParams{Count: 5, SpreadRadius: 40, DamageMlt: 0.4}
	require.NoError(t, s.Save(ctx, d))

	got, err := s.Get(ctx, "howitzer")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	data, err := got.WeaponData()
	require.NoError(t, err)
	assert.Equal(t, "fx/hit_he", string(data.ShellOverrides[armory.ShellHE].Visuals.ImpactEffect))
}

func TestSaveReplacesByName(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	d := definition("cannon", "direct")
	require.NoError(t, s.Save(ctx, d))
	d.Data.Damage = 90
	d.Launcher = "traced"
	require.NoError(t, s.Save(ctx, d))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, "CANNON")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Data.Damage)

	traced, err := s.List(ctx, "traced")
	require.NoError(t, err)
	assert.Len(t, traced, 1)
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := openMemory(t)
	d := definition("broken", "direct")
	d.Data.MagCapacity = 0

	err := s.Save(context.Background(), d)
	require.Error(t, err)
	var verr *config.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListOrderedAndFiltered(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Import(ctx, []config.Definition{
		definition("zeta", "rocket"),
		definition("alpha", "arched"),
		definition("Mid", "rocket"),
	}))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"alpha", "Mid", "zeta"}, []string{all[0].Name, all[1].Name, all[2].Name})

	rockets, err := s.List(ctx, "Rocket")
	require.NoError(t, err)
	assert.Len(t, rockets, 2)
}

func TestImportIsAtomic(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	bad := definition("bad", "direct")
	bad.Sockets = nil

	err := s.Import(ctx, []config.Definition{definition("good", "direct"), bad})
	require.Error(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetAndDeleteMissing(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "ghost"), ErrNotFound)

	require.NoError(t, s.Save(ctx, definition("ghost", "direct")))
	require.NoError(t, s.Delete(ctx, "Ghost"))
	_, err = s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackedCatalogPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	s, err := Open(config.CatalogConfig{Driver: config.DriverSQLite, DSN: path}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, definition("keeper", "staged")))
	require.NoError(t, s.Close())

	s, err = Open(config.CatalogConfig{Driver: config.DriverSQLite, DSN: path}, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "keeper")
	require.NoError(t, err)
	assert.Equal(t, "staged", got.Launcher)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.CatalogConfig{Driver: "mongo"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
