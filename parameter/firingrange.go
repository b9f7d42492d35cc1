package parameter

import (
	"time"
)

// Firing range simulation
const (
	// RangeProjectilePoolCapacity bounds pooled projectiles per weapon; extra children fly without a visual
	RangeProjectilePoolCapacity = 48

	// RangeTargetRadius is the collision sphere of range dummies
	RangeTargetRadius = 12.0

	// RangeEffectLifetime is how long a sprite effect stays drawn after Restart
	RangeEffectLifetime = 400 * time.Millisecond

	// RangeMaxSteps guards headless runs against a zero tick
	RangeMaxSteps = 1 << 20
)

// Range listener attenuation
const (
	RangeAudioFalloffStart = 150.0
	RangeAudioFalloffEnd   = 4000.0
	RangeAudioVolume       = 0.8
	RangeAudioMaxVoices    = 24
)

// Range plot view
const (
	// RangeViewMarginCells is the blank border kept around the plotted extent
	RangeViewMarginCells = 1

	// RangeViewMinSpan keeps the plot from zooming into a single point
	RangeViewMinSpan = 100.0
)
