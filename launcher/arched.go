package launcher

import (
	"fmt"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/trajectory"
)

// Arched lobs each shot on a parabolic arc to the scattered aim point
type Arched struct {
	base
	arc trajectory.ArcParams
}

func NewArched(arc trajectory.ArcParams, deps Deps) (*Arched, error) {
	return &Arched{base: newBase(KindArched, deps), arc: arc}, nil
}

func (a *Arched) Discharge(shot firecontrol.Shot) bool {
	if a.w == nil {
		return false
	}
	path := trajectory.NewArc(shot.Origin.Location, a.aimPoint(shot), shot.Data.ProjectileSpeed, a.arc)
	return a.launch(shot, path, path.Duration(), false, a.arrive)
}

// Splitter flies an arc to its apex, retires it and spawns children that arc on to scattered targets
type Splitter struct {
	base
	arc   trajectory.ArcParams
	split trajectory.SplitParams
}

func NewSplitter(arc trajectory.ArcParams, split trajectory.SplitParams, deps Deps) (*Splitter, error) {
	if split.ChildCount() < 1 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidSplit, split.Count)
	}
	if split.SpreadRadius < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSpread, split.SpreadRadius)
	}
	return &Splitter{base: newBase(KindSplitter, deps), arc: arc, split: split}, nil
}

func (s *Splitter) Discharge(shot firecontrol.Shot) bool {
	if s.w == nil {
		return false
	}
	path := trajectory.NewArc(shot.Origin.Location, s.aimPoint(shot), shot.Data.ProjectileSpeed, s.arc)
	return s.launch(shot, path, path.TimeToApex(), false, s.spawn)
}

// spawn runs at the parent's apex; the parent's projectile is already released
func (s *Splitter) spawn(parent *inflight) {
	arc := parent.path.(*trajectory.Arc)
	apex := arc.Apex()
	targets := trajectory.PlanSplit(arc.End(), s.split, s.w.RNG())
	s.stats.Splits++

	child := parent.shot
	child.Data = ScaleChildData(parent.shot.Data, s.split)
	child.Origin.Location = apex

	for _, target := range targets {
		path := trajectory.NewArc(apex, target, child.Data.ProjectileSpeed, s.arc)
		if s.launch(child, path, path.Duration(), true, s.arrive) {
			s.stats.Children++
		}
	}
}

// ScaleChildData derives a child's stats from the parent's shell-adjusted data
// A zero multiplier leaves its stat unchanged
func ScaleChildData(parent armory.WeaponData, p trajectory.SplitParams) armory.WeaponData {
	d := parent
	d.Calibre *= orOne(p.CalibreMlt)
	d.Damage *= orOne(p.DamageMlt)
	d.ArmorPen *= orOne(p.ArmorPenMlt)
	d.ArmorPenMaxRange *= orOne(p.ArmorPenMlt)
	d.Explosive.AOERange *= orOne(p.AOEMlt)
	d.Explosive.AOEDamage *= orOne(p.AOEMlt)
	return d
}

func orOne(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}
