// Package feedback plays impact, bounce and launch effects from fixed-size pools
// Components are created lazily, at most once per slot, and reused by restarting them
package feedback

import (
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/vmath"
)

// Stats counts pool activity since the last Initialize
type Stats struct {
	EffectsCreated int
	SoundsCreated  int
	Plays          int
	Swaps          int // Asset changes on an existing component
	Dropped        int // Requests with neither asset set
}

// slot pairs one effect and one sound component with the assets they last played
type slot struct {
	effect     core.EffectComponent
	sound      core.SoundComponent
	lastEffect core.EffectAsset
	lastSound  core.SoundAsset
}

// ImpactPool round-robins impact and bounce feedback over a fixed slot table
type ImpactPool struct {
	effects core.EffectFactory
	sounds  core.SoundFactory
	diag    *diag.Reporter

	slots []slot
	next  int
	audio *core.AudioConfig

	stats Stats
}

// NewImpactPool creates an uninitialized pool; PlayImpact is a no-op until Initialize
func NewImpactPool(effects core.EffectFactory, sounds core.SoundFactory, rep *diag.Reporter) *ImpactPool {
	if rep == nil {
		rep = diag.Nop()
	}
	return &ImpactPool{
		effects: effects,
		sounds:  sounds,
		diag:    rep.With("feedback"),
	}
}

// Initialize allocates the slot table. The same capacity is a no-op; a different
// capacity releases every live component and starts over
func (p *ImpactPool) Initialize(capacity int, audio *core.AudioConfig) {
	capacity = max(capacity, 1)
	if audio == nil {
		p.diag.ReportOnce("feedback.audio.nil", diag.KindConfig, "impact pool has no audio config, sounds play unattenuated")
	}
	p.audio = audio
	if len(p.slots) == capacity {
		return
	}
	p.Release()
	p.slots = make([]slot, capacity)
	p.next = 0
	p.stats = Stats{}
}

// Release frees every component; the pool must be re-initialized before use
func (p *ImpactPool) Release() {
	for i := range p.slots {
		s := &p.slots[i]
		if s.effect != nil {
			s.effect.Release()
		}
		if s.sound != nil {
			s.sound.Release()
		}
	}
	p.slots = nil
	p.next = 0
}

// Capacity returns the slot count, 0 before Initialize
func (p *ImpactPool) Capacity() int { return len(p.slots) }

// Live returns the number of created effect and sound components
func (p *ImpactPool) Live() (effects, sounds int) {
	for i := range p.slots {
		if p.slots[i].effect != nil {
			effects++
		}
		if p.slots[i].sound != nil {
			sounds++
		}
	}
	return effects, sounds
}

func (p *ImpactPool) Stats() Stats { return p.stats }

// PlayImpact plays an impact at loc facing rot
func (p *ImpactPool) PlayImpact(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool {
	return p.play(loc, rot, effect, scale, sound)
}

// PlayBounce plays a ricochet; it shares the slot table with impacts
func (p *ImpactPool) PlayBounce(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool {
	return p.play(loc, rot, effect, scale, sound)
}

func (p *ImpactPool) play(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool {
	if len(p.slots) == 0 {
		p.diag.ReportOnce("feedback.pool.uninitialized", diag.KindConfig, "impact pool used before Initialize")
		return false
	}
	if !effect.Valid() && !sound.Valid() {
		p.stats.Dropped++
		return false
	}
	if scale <= 0 {
		scale = 1
	}

	s := &p.slots[p.next]
	p.next = (p.next + 1) % len(p.slots)

	if effect.Valid() && p.effects != nil {
		if s.effect == nil {
			s.effect = p.effects.NewEffect(effect)
			s.lastEffect = effect
			p.stats.EffectsCreated++
		} else if s.lastEffect != effect {
			s.effect.SetAsset(effect)
			s.lastEffect = effect
			p.stats.Swaps++
		}
		if s.effect != nil {
			s.effect.Place(vmath.Pose{Location: loc, Rotation: rot}, scale)
			s.effect.Restart()
		}
	}

	if sound.Valid() && p.sounds != nil {
		if s.sound == nil {
			s.sound = p.sounds.NewSound(sound, p.audio)
			s.lastSound = sound
			p.stats.SoundsCreated++
		} else if s.lastSound != sound {
			s.sound.SetAsset(sound)
			s.lastSound = sound
			p.stats.Swaps++
		}
		if s.sound != nil {
			s.sound.Place(loc)
			s.sound.Restart()
		}
	}

	p.stats.Plays++
	return true
}
