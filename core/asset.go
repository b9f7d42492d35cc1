package core

import (
	"github.com/lixenwraith/ordnance/vmath"
)

// EffectAsset identifies a visual effect template; the empty value is invalid
// Identity comparison (==) is what the feedback pool uses to skip asset swaps
type EffectAsset string

func (a EffectAsset) Valid() bool { return a != "" }

// SoundAsset identifies a sound template; the empty value is invalid
type SoundAsset string

func (a SoundAsset) Valid() bool { return a != "" }

// EffectComponent is a live, restartable visual effect instance
type EffectComponent interface {
	// SetAsset swaps the template without recreating the component
	SetAsset(a EffectAsset)
	// Place moves the effect; scale 1 is authored size
	Place(pose vmath.Pose, scale float64)
	SetTint(c RGB)
	// Restart plays from the beginning, interrupting any playback in flight
	Restart()
	Release()
}

// SoundComponent is a live, restartable positional sound instance
type SoundComponent interface {
	SetAsset(a SoundAsset)
	Place(loc vmath.Vec3F)
	Restart()
	Release()
}

// EffectFactory creates effect components; called once per pool slot
type EffectFactory interface {
	NewEffect(a EffectAsset) EffectComponent
}

// SoundFactory creates sound components bound to a shared audio configuration
type SoundFactory interface {
	NewSound(a SoundAsset, cfg *AudioConfig) SoundComponent
}

// AudioConfig is the shared attenuation and concurrency setup for weapon sounds
type AudioConfig struct {
	Listener     vmath.Vec3F // Attenuation reference point
	FalloffStart float64     // Full volume inside this distance
	FalloffEnd   float64     // Silent beyond this distance
	Volume       float64     // Linear gain at full volume
	MaxVoices    int         // Concurrency limit, 0 = unlimited
}

// Attenuation returns linear gain for a sound at loc
func (c *AudioConfig) Attenuation(loc vmath.Vec3F) float64 {
	if c == nil {
		return 1
	}
	d := vmath.V3FDist(c.Listener, loc)
	if c.FalloffEnd <= c.FalloffStart || d <= c.FalloffStart {
		return c.Volume
	}
	if d >= c.FalloffEnd {
		return 0
	}
	return c.Volume * (1 - (d-c.FalloffStart)/(c.FalloffEnd-c.FalloffStart))
}
