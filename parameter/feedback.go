package parameter

import (
	"time"
)

// Impact feedback pool sizing
const (
	// ImpactPoolCapacityMin is the smallest pool; capacity 1 is always correct, only less smooth
	ImpactPoolCapacityMin = 1

	// ImpactPoolCapacityMax bounds the advisory heuristic
	ImpactPoolCapacityMax = 32

	// ImpactEffectLifetimeDefault is the assumed in-flight time of an impact effect
	ImpactEffectLifetimeDefault = 1500 * time.Millisecond

	// ImpactPoolHeadroom multiplies the computed concurrency for overlapping bursts
	ImpactPoolHeadroom = 1.25
)

// Launch effects
const (
	// LaunchCalibreReference is the calibre at which launch flashes are full brightness
	LaunchCalibreReference = 120.0

	// LaunchTintFloor keeps small-calibre flashes visible
	LaunchTintFloor = 0.35
)
