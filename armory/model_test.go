package armory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
)

func testData() WeaponData {
	return WeaponData{
		Damage:           100,
		Range:            1000,
		ArmorPen:         80,
		ArmorPenMaxRange: 40,
		MagCapacity:      6,
		ReloadTime:       3 * time.Second,
		Cooldown:         time.Second,
		Accuracy:         0.75,
		Calibre:          75,
		Explosive:        Explosive{AOERange: 100, AOEDamage: 20, ShrapnelCount: 8, ShrapnelPenFactor: 0.2},
		Visuals: Visuals{
			ImpactEffect: "fx/impact_ap",
			BounceEffect: "fx/bounce_ap",
			ImpactSound:  "snd/impact_ap",
		},
		ShellOverrides: map[ShellType]ShellOverride{
			ShellAP:   {Visuals: Visuals{ImpactEffect: "fx/never"}},
			ShellHE:   {Visuals: Visuals{ImpactEffect: "fx/impact_he", BounceEffect: "fx/bounce_he"}},
			ShellHEAT: {Visuals: Visuals{ImpactEffect: "fx/impact_heat"}},
		},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(testData(), NewShellSet(ShellAP, ShellHE, ShellHEAT), ShellAP, diag.Nop())
	require.NoError(t, err)
	return m
}

func TestNewModelValidation(t *testing.T) {
	_, err := NewModel(testData(), NewShellSet(ShellAP), ShellHE, nil)
	assert.ErrorIs(t, err, ErrShellNotAllowed)

	_, err = NewModel(testData(), 0, ShellNone, nil)
	assert.ErrorIs(t, err, ErrEmptyShellSet)

	bad := testData()
	bad.MagCapacity = 0
	_, err = NewModel(bad, NewShellSet(ShellAP), ShellAP, nil)
	assert.ErrorIs(t, err, ErrInvalidMagazine)
}

func TestChangeShellTypeOutsideSet(t *testing.T) {
	rep := diag.Nop()
	m, err := NewModel(testData(), NewShellSet(ShellAP, ShellHE), ShellAP, rep)
	require.NoError(t, err)

	notified := 0
	m.OnShellChanged(func(prev, cur ShellType) { notified++ })

	for _, s := range []ShellType{ShellNone, ShellAPHE, ShellAPCR, ShellHEAT, ShellFire, ShellType(200)} {
		assert.False(t, m.ChangeShellType(s), "shell %s", s)
		assert.Equal(t, ShellAP, m.CurrentShell())
	}
	assert.Equal(t, 0, notified)
	assert.Equal(t, 6, rep.Count(diag.KindInvariant))
}

func TestChangeShellTypeNotifies(t *testing.T) {
	m := newTestModel(t)
	var gotPrev, gotCur ShellType
	calls := 0
	m.OnShellChanged(func(prev, cur ShellType) {
		gotPrev, gotCur = prev, cur
		calls++
	})

	assert.True(t, m.ChangeShellType(ShellHE))
	assert.Equal(t, ShellAP, gotPrev)
	assert.Equal(t, ShellHE, gotCur)

	// Same type succeeds without a notification
	assert.True(t, m.ChangeShellType(ShellHE))
	assert.Equal(t, 1, calls)
}

func TestShellAdjustedView(t *testing.T) {
	m := newTestModel(t)

	ap := m.ShellAdjustedData()
	assert.Equal(t, core.EffectAsset("fx/impact_ap"), ap.Visuals.ImpactEffect, "AP keeps base visuals")
	assert.Equal(t, 100.0, ap.Damage)
	assert.Nil(t, ap.ShellOverrides)

	require.True(t, m.ChangeShellType(ShellHE))
	he := m.ShellAdjustedData()
	assert.Equal(t, core.EffectAsset("fx/impact_he"), he.Visuals.ImpactEffect)
	assert.Equal(t, core.EffectAsset("fx/bounce_he"), he.Visuals.BounceEffect)
	assert.Equal(t, core.SoundAsset("snd/impact_ap"), he.Visuals.ImpactSound, "unset override fields fall through")
	assert.InDelta(t, 150.0, he.Explosive.AOERange, 1e-9)

	require.True(t, m.ChangeShellType(ShellHEAT))
	heat := m.ShellAdjustedData()
	assert.Equal(t, heat.ArmorPen, heat.ArmorPenMaxRange)
	assert.Equal(t, heat.ArmorPen, PenetrationAt(heat, 900))

	// The view is a value: mutating it leaves the model untouched
	heat.Damage = 1
	heat.Visuals.ImpactEffect = "fx/mutated"
	assert.Equal(t, 100.0, m.RawData().Damage)
	assert.Equal(t, core.EffectAsset("fx/impact_heat"), m.ShellAdjustedData().Visuals.ImpactEffect)

	raw := m.RawData()
	raw.ShellOverrides[ShellHE] = ShellOverride{}
	assert.Equal(t, core.EffectAsset("fx/impact_he"), m.AdjustedFor(ShellHE).Visuals.ImpactEffect)
}

func TestProfileOverride(t *testing.T) {
	d := testData()
	d.ShellOverrides[ShellAPCR] = ShellOverride{Profile: &ShellProfile{
		DamageMlt: 2, ArmorPenMlt: 1, ArmorPenMaxRangeMlt: 1, AOERangeMlt: 1, AOEDamageMlt: 1,
	}}
	m, err := NewModel(d, NewShellSet(ShellAP, ShellAPCR), ShellAPCR, nil)
	require.NoError(t, err)
	assert.Equal(t, 200.0, m.ShellAdjustedData().Damage)
}

func TestBehaviourDeltaRoundTrip(t *testing.T) {
	deltas := []BehaviourDelta{
		{Name: "veteran", Damage: 12.5, Accuracy: 0.125},
		{Name: "extended-mag", MagCapacity: 3},
		{Name: "drill", Cooldown: -150 * time.Millisecond, ReloadTime: -500 * time.Millisecond},
		{Name: "optics", Range: 250, ArmorPen: 4, ArmorPenMaxRange: 2},
		{Name: "filler", AOERange: 10, AOEDamage: 7.25},
	}
	for _, d := range deltas {
		t.Run(d.Name, func(t *testing.T) {
			m := newTestModel(t)
			before := m.RawData()
			require.NoError(t, m.ApplyBehaviourDelta(d, true))
			assert.NotEqual(t, before, m.RawData())
			require.NoError(t, m.ApplyBehaviourDelta(d, false))
			assert.Equal(t, before, m.RawData())
		})
	}
}

func TestBehaviourDeltaStacking(t *testing.T) {
	m := newTestModel(t)
	d := BehaviourDelta{Name: "veteran", Damage: 10}

	require.NoError(t, m.ApplyBehaviourDelta(d, true))
	require.NoError(t, m.ApplyBehaviourDelta(d, true))
	assert.Equal(t, 120.0, m.RawData().Damage)
	assert.Equal(t, 2, m.AppliedDeltas("veteran"))

	require.NoError(t, m.ApplyBehaviourDelta(d, false))
	require.NoError(t, m.ApplyBehaviourDelta(d, false))
	assert.Equal(t, 100.0, m.RawData().Damage)

	err := m.ApplyBehaviourDelta(d, false)
	assert.ErrorIs(t, err, ErrDeltaNotApplied)
	assert.Equal(t, 100.0, m.RawData().Damage)

	err = m.ApplyBehaviourDelta(BehaviourDelta{Name: "never"}, false)
	assert.ErrorIs(t, err, ErrDeltaNotApplied)
}

func TestBehaviourDeltaRoundTripInexact(t *testing.T) {
	for i := 1; i <= 200; i++ {
		m := newTestModel(t)
		before := m.RawData()
		a := BehaviourDelta{
			Name:     "drill",
			Damage:   float64(i) * 0.37,
			Range:    float64(i) * 0.013,
			Accuracy: float64(i) * 0.001,
			AOERange: 28.49,
		}
		b := BehaviourDelta{Name: "optics", Damage: 28.49, Accuracy: 0.061, ArmorPen: float64(i) * 0.3}

		require.NoError(t, m.ApplyBehaviourDelta(a, true))
		require.NoError(t, m.ApplyBehaviourDelta(a, false))
		require.Equal(t, before, m.RawData(), "single apply/remove i=%d", i)

		require.NoError(t, m.ApplyBehaviourDelta(a, true))
		require.NoError(t, m.ApplyBehaviourDelta(b, true))
		withBoth := m.RawData()
		require.NoError(t, m.ApplyBehaviourDelta(a, false))
		onlyB := m.RawData()
		require.NoError(t, m.ApplyBehaviourDelta(b, false))
		require.Equal(t, before, m.RawData(), "interleaved i=%d", i)

		// same applied set in another order gives the same bits
		require.NoError(t, m.ApplyBehaviourDelta(b, true))
		require.Equal(t, onlyB, m.RawData(), "i=%d", i)
		require.NoError(t, m.ApplyBehaviourDelta(a, true))
		require.Equal(t, withBoth, m.RawData(), "i=%d", i)
	}
}

func TestNegativeDeltaClampedInView(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.ApplyBehaviourDelta(BehaviourDelta{Name: "nerf", Damage: -500, MagCapacity: -10}, true))
	assert.Equal(t, -400.0, m.RawData().Damage)

	view := m.ShellAdjustedData()
	assert.Equal(t, 0.0, view.Damage)
	assert.Equal(t, 1, view.MagCapacity)
}

func TestUpgrades(t *testing.T) {
	m := newTestModel(t)

	assert.True(t, m.AddShellType(ShellFire))
	assert.False(t, m.AddShellType(ShellFire))
	assert.True(t, m.ChangeShellType(ShellFire))

	changed, err := m.SetRangeMultiplier(1.5)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.InDelta(t, 1500.0, m.AdjustedFor(ShellAP).Range, 1e-9)

	changed, err = m.SetRangeMultiplier(1.2)
	require.NoError(t, err)
	assert.False(t, changed, "lower multiplier is ignored")
	assert.Equal(t, 1.5, m.RangeMultiplier())

	_, err = m.SetRangeMultiplier(0.5)
	assert.ErrorIs(t, err, ErrInvalidRangeMult)

	_, err = m.SetRangeMultiplier(1000)
	require.NoError(t, err)
	assert.Equal(t, 10.0, m.RangeMultiplier())
	assert.Equal(t, 1000.0, m.RawData().Range)
}

func TestPenetrationFalloff(t *testing.T) {
	d := testData()
	assert.Equal(t, 80.0, PenetrationAt(d, 0))
	assert.InDelta(t, 60.0, PenetrationAt(d, 500), 1e-9)
	assert.Equal(t, 40.0, PenetrationAt(d, 5000))

	d.Range = 0
	assert.Equal(t, 80.0, PenetrationAt(d, 5000))
}

func TestShellParseAndSet(t *testing.T) {
	s, err := ParseShellType(" heat ")
	require.NoError(t, err)
	assert.Equal(t, ShellHEAT, s)

	_, err = ParseShellType("plasma")
	assert.ErrorIs(t, err, ErrUnknownShell)

	set := NewShellSet(ShellHE, ShellAP, ShellType(99))
	assert.Equal(t, []ShellType{ShellAP, ShellHE}, set.Types())
	assert.Equal(t, 2, set.Len())
	assert.False(t, set.Has(ShellType(99)))
	assert.Equal(t, "ShellType(99)", ShellType(99).String())
}
