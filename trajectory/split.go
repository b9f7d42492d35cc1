package trajectory

import (
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// SplitParams configures a splitter: child count, spread and stat multipliers relative to the parent
type SplitParams struct {
	Count        int     `mapstructure:"count" json:"count"`
	SpreadRadius float64 `mapstructure:"spreadRadius" json:"spreadRadius"`
	CalibreMlt   float64 `mapstructure:"calibreMlt" json:"calibreMlt"`
	DamageMlt    float64 `mapstructure:"damageMlt" json:"damageMlt"`
	ArmorPenMlt  float64 `mapstructure:"armorPenMlt" json:"armorPenMlt"`
	AOEMlt       float64 `mapstructure:"aoeMlt" json:"aoeMlt"`
}

// ChildCount clamps Count into [0, SplitCountMax]
func (p SplitParams) ChildCount() int {
	return min(max(p.Count, 0), parameter.SplitCountMax)
}

// PlanSplit returns one target per child, each uniformly distributed in a horizontal disk around target
func PlanSplit(target vmath.Vec3F, p SplitParams, rng *core.RNG) []vmath.Vec3F {
	n := p.ChildCount()
	out := make([]vmath.Vec3F, n)
	for i := range out {
		dx, dy := rng.Disk(p.SpreadRadius)
		out[i] = vmath.Vec3F{X: target.X + dx, Y: target.Y + dy, Z: target.Z}
	}
	return out
}
