// Package armory holds weapon base stats, the shell type selector and behaviour deltas
package armory

import (
	"errors"
	"time"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/vmath"
)

var (
	ErrUnknownShell     = errors.New("unknown shell type")
	ErrShellNotAllowed  = errors.New("shell type not in allowed set")
	ErrEmptyShellSet    = errors.New("allowed shell set is empty")
	ErrDeltaNotApplied  = errors.New("behaviour delta removed without matching apply")
	ErrInvalidMagazine  = errors.New("magazine capacity must be positive")
	ErrInvalidRangeMult = errors.New("range multiplier must be >= 1")
)

// Explosive is the area-of-effect and shrapnel sub-profile
type Explosive struct {
	AOERange          float64 `mapstructure:"aoeRange" json:"aoeRange"`
	AOEDamage         float64 `mapstructure:"aoeDamage" json:"aoeDamage"`
	ShrapnelCount     int     `mapstructure:"shrapnelCount" json:"shrapnelCount"`
	ShrapnelPenFactor float64 `mapstructure:"shrapnelPenFactor" json:"shrapnelPenFactor"`
}

// Visuals are the effect and sound handles a weapon plays
type Visuals struct {
	ImpactEffect    core.EffectAsset `mapstructure:"impactEffect" json:"impactEffect"`
	BounceEffect    core.EffectAsset `mapstructure:"bounceEffect" json:"bounceEffect"`
	LaunchEffect    core.EffectAsset `mapstructure:"launchEffect" json:"launchEffect"`
	ShellCaseEffect core.EffectAsset `mapstructure:"shellCaseEffect" json:"shellCaseEffect"`
	ImpactSound     core.SoundAsset  `mapstructure:"impactSound" json:"impactSound"`
	BounceSound     core.SoundAsset  `mapstructure:"bounceSound" json:"bounceSound"`
	ImpactScale     float64          `mapstructure:"impactScale" json:"impactScale"`
}

// merge returns v with every valid field of o substituted
func (v Visuals) merge(o Visuals) Visuals {
	if o.ImpactEffect.Valid() {
		v.ImpactEffect = o.ImpactEffect
	}
	if o.BounceEffect.Valid() {
		v.BounceEffect = o.BounceEffect
	}
	if o.LaunchEffect.Valid() {
		v.LaunchEffect = o.LaunchEffect
	}
	if o.ShellCaseEffect.Valid() {
		v.ShellCaseEffect = o.ShellCaseEffect
	}
	if o.ImpactSound.Valid() {
		v.ImpactSound = o.ImpactSound
	}
	if o.BounceSound.Valid() {
		v.BounceSound = o.BounceSound
	}
	if o.ImpactScale > 0 {
		v.ImpactScale = o.ImpactScale
	}
	return v
}

// ShellOverride is a per-weapon customization of one shell type
type ShellOverride struct {
	Profile *ShellProfile `mapstructure:"profile" json:"profile,omitempty"`
	Visuals Visuals       `mapstructure:"visuals" json:"visuals"`
}

// WeaponData is the base stat block of a weapon
type WeaponData struct {
	Damage           float64       `mapstructure:"damage" json:"damage"`
	Range            float64       `mapstructure:"range" json:"range"`
	ArmorPen         float64       `mapstructure:"armorPen" json:"armorPen"`
	ArmorPenMaxRange float64       `mapstructure:"armorPenMaxRange" json:"armorPenMaxRange"`
	MagCapacity      int           `mapstructure:"magCapacity" json:"magCapacity"`
	ReloadTime       time.Duration `mapstructure:"reloadTime" json:"reloadTime"`
	Cooldown         time.Duration `mapstructure:"cooldown" json:"cooldown"`
	Accuracy         float64       `mapstructure:"accuracy" json:"accuracy"` // 1 = perfect
	Calibre          float64       `mapstructure:"calibre" json:"calibre"`
	ProjectileSpeed  float64       `mapstructure:"projectileSpeed" json:"projectileSpeed"`
	Explosive        Explosive     `mapstructure:"explosive" json:"explosive"`
	Visuals          Visuals       `mapstructure:"visuals" json:"visuals"`

	ShellOverrides map[ShellType]ShellOverride `mapstructure:"-" json:"-"`
}

// Validate checks the fields a weapon cannot work without
func (d WeaponData) Validate() error {
	if d.MagCapacity <= 0 {
		return ErrInvalidMagazine
	}
	return nil
}

func (d WeaponData) clone() WeaponData {
	if d.ShellOverrides != nil {
		m := make(map[ShellType]ShellOverride, len(d.ShellOverrides))
		for k, v := range d.ShellOverrides {
			if v.Profile != nil {
				p := *v.Profile
				v.Profile = &p
			}
			m[k] = v
		}
		d.ShellOverrides = m
	}
	return d
}

// clampView enforces the ranges a derived view must stay in
func (d WeaponData) clampView() WeaponData {
	d.Damage = max(d.Damage, 0)
	d.Range = max(d.Range, 0)
	d.ArmorPen = max(d.ArmorPen, 0)
	d.ArmorPenMaxRange = max(d.ArmorPenMaxRange, 0)
	d.MagCapacity = max(d.MagCapacity, 1)
	d.ReloadTime = max(d.ReloadTime, 0)
	d.Cooldown = max(d.Cooldown, 0)
	d.Accuracy = vmath.Clamp01(d.Accuracy)
	d.Calibre = max(d.Calibre, 0)
	d.Explosive.AOERange = max(d.Explosive.AOERange, 0)
	d.Explosive.AOEDamage = max(d.Explosive.AOEDamage, 0)
	d.Explosive.ShrapnelCount = max(d.Explosive.ShrapnelCount, 0)
	if d.Visuals.ImpactScale <= 0 {
		d.Visuals.ImpactScale = 1
	}
	return d
}

// PenetrationAt interpolates armor penetration from muzzle to max range
func PenetrationAt(d WeaponData, distance float64) float64 {
	if d.Range <= 0 {
		return d.ArmorPen
	}
	f := vmath.Clamp01(distance / d.Range)
	return vmath.Lerp(d.ArmorPen, d.ArmorPenMaxRange, f)
}
