package main

import (
	"time"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// sprite is a range effect: a tinted marker drawn for a short lifetime after each restart
type sprite struct {
	set     *spriteSet
	asset   core.EffectAsset
	pose    vmath.Pose
	scale   float64
	tint    core.RGB
	started time.Duration
	playing bool
}

func (s *sprite) SetAsset(a core.EffectAsset) { s.asset = a }

func (s *sprite) Place(pose vmath.Pose, scale float64) {
	s.pose = pose
	s.scale = scale
}

func (s *sprite) SetTint(c core.RGB) { s.tint = c }

func (s *sprite) Restart() {
	s.started = s.set.clock()
	s.playing = true
	s.set.restarts++
}

func (s *sprite) Release() {
	s.playing = false
	delete(s.set.live, s)
}

// spriteSet is the range's effect factory; it owns every sprite it hands out
type spriteSet struct {
	clock    func() time.Duration
	lifetime time.Duration
	live     map[*sprite]struct{}
	created  int
	restarts int
}

func newSpriteSet(clock func() time.Duration) *spriteSet {
	return &spriteSet{
		clock:    clock,
		lifetime: parameter.RangeEffectLifetime,
		live:     make(map[*sprite]struct{}),
	}
}

func (s *spriteSet) NewEffect(a core.EffectAsset) core.EffectComponent {
	sp := &sprite{set: s, asset: a, scale: 1, tint: core.RGBWhite}
	s.live[sp] = struct{}{}
	s.created++
	return sp
}

// Visible returns sprites still inside their lifetime at now
func (s *spriteSet) Visible(now time.Duration) []*sprite {
	var out []*sprite
	for sp := range s.live {
		if sp.playing && now-sp.started < s.lifetime {
			out = append(out, sp)
		}
	}
	return out
}
