package armory

import (
	"fmt"
	"strings"
)

// ShellType is an ammunition kind
type ShellType uint8

const (
	ShellNone ShellType = iota // Sentinel for weapons without selectable ammunition
	ShellAP
	ShellAPHE
	ShellAPCR
	ShellHE
	ShellHEAT
	ShellFire
	shellTypeCount
)

var shellNames = [shellTypeCount]string{
	ShellNone: "None",
	ShellAP:   "AP",
	ShellAPHE: "APHE",
	ShellAPCR: "APCR",
	ShellHE:   "HE",
	ShellHEAT: "HEAT",
	ShellFire: "Fire",
}

func (s ShellType) String() string {
	if s >= shellTypeCount {
		return fmt.Sprintf("ShellType(%d)", uint8(s))
	}
	return shellNames[s]
}

func (s ShellType) Valid() bool { return s < shellTypeCount }

// ParseShellType accepts names case-insensitively
func ParseShellType(name string) (ShellType, error) {
	for i, n := range shellNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ShellType(i), nil
		}
	}
	return ShellNone, fmt.Errorf("%w: %q", ErrUnknownShell, name)
}

// ShellSet is a bitset of shell types
type ShellSet uint16

func NewShellSet(types ...ShellType) ShellSet {
	var s ShellSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

func (s ShellSet) Has(t ShellType) bool {
	return t.Valid() && s&(1<<t) != 0
}

// With returns s plus t; invalid types are ignored
func (s ShellSet) With(t ShellType) ShellSet {
	if !t.Valid() {
		return s
	}
	return s | 1<<t
}

// Types lists members in declaration order
func (s ShellSet) Types() []ShellType {
	var out []ShellType
	for t := ShellType(0); t < shellTypeCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s ShellSet) Len() int {
	n := 0
	for t := ShellType(0); t < shellTypeCount; t++ {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// ShellProfile scales stats for a shell type
type ShellProfile struct {
	DamageMlt           float64 `mapstructure:"damageMlt" json:"damageMlt"`
	ArmorPenMlt         float64 `mapstructure:"armorPenMlt" json:"armorPenMlt"`
	ArmorPenMaxRangeMlt float64 `mapstructure:"armorPenMaxRangeMlt" json:"armorPenMaxRangeMlt"`
	AOERangeMlt         float64 `mapstructure:"aoeRangeMlt" json:"aoeRangeMlt"`
	AOEDamageMlt        float64 `mapstructure:"aoeDamageMlt" json:"aoeDamageMlt"`
	// FlatPenetration keeps penetration constant over range (shaped charges)
	FlatPenetration bool `mapstructure:"flatPenetration" json:"flatPenetration"`
}

var identityProfile = ShellProfile{
	DamageMlt: 1, ArmorPenMlt: 1, ArmorPenMaxRangeMlt: 1, AOERangeMlt: 1, AOEDamageMlt: 1,
}

var defaultProfiles = [shellTypeCount]ShellProfile{
	ShellNone: identityProfile,
	ShellAP:   identityProfile,
	ShellAPHE: {DamageMlt: 1.2, ArmorPenMlt: 0.9, ArmorPenMaxRangeMlt: 0.9, AOERangeMlt: 1, AOEDamageMlt: 1},
	ShellAPCR: {DamageMlt: 0.85, ArmorPenMlt: 1.3, ArmorPenMaxRangeMlt: 1.05, AOERangeMlt: 1, AOEDamageMlt: 1},
	ShellHE:   {DamageMlt: 1.1, ArmorPenMlt: 0.35, ArmorPenMaxRangeMlt: 0.35, AOERangeMlt: 1.5, AOEDamageMlt: 1.5},
	ShellHEAT: {DamageMlt: 1, ArmorPenMlt: 1.2, ArmorPenMaxRangeMlt: 1.2, AOERangeMlt: 1, AOEDamageMlt: 1, FlatPenetration: true},
	ShellFire: {DamageMlt: 0.6, ArmorPenMlt: 0.2, ArmorPenMaxRangeMlt: 0.2, AOERangeMlt: 1.25, AOEDamageMlt: 0.8},
}

// DefaultShellProfile returns the built-in stat profile for t
func DefaultShellProfile(t ShellType) ShellProfile {
	if !t.Valid() {
		return identityProfile
	}
	return defaultProfiles[t]
}

func (p ShellProfile) apply(d WeaponData) WeaponData {
	d.Damage *= p.DamageMlt
	d.ArmorPen *= p.ArmorPenMlt
	d.ArmorPenMaxRange *= p.ArmorPenMaxRangeMlt
	if p.FlatPenetration {
		d.ArmorPenMaxRange = d.ArmorPen
	}
	d.Explosive.AOERange *= p.AOERangeMlt
	d.Explosive.AOEDamage *= p.AOEDamageMlt
	return d
}

// substitutesVisuals reports whether a shell swaps in override impact visuals
// AP and the sentinel always keep the weapon's base visuals
func (s ShellType) substitutesVisuals() bool {
	return s != ShellAP && s != ShellNone
}
