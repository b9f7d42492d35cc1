package parameter

import (
	"time"
)

// Flight
const (
	// ProjectileSpeedDefault is used when a weapon leaves speed unset (units/sec)
	ProjectileSpeedDefault = 800.0

	// FlightDurationMin collapses shorter flights into instant resolution
	FlightDurationMin = 10 * time.Millisecond

	// TracerDurationDefault is how long a traced shot's visual travels
	TracerDurationDefault = 120 * time.Millisecond
)

// Arc
const (
	// ArcBaseHeightRatio is apex height per unit of horizontal distance before multipliers
	ArcBaseHeightRatio = 0.25

	// ArcApexHeightMin is the floor for computed apex height
	ArcApexHeightMin = 50.0
)

// Splitter
const (
	// SplitCountMax bounds children spawned from one parent
	SplitCountMax = 64
)

// Rocket swing
const (
	// RocketSwingBlendFraction is where along the straight line the swing rejoins it
	RocketSwingBlendFraction = 0.35

	// RocketSwingControlFraction scales the swing control point distance
	RocketSwingControlFraction = 0.5
)

// Staged vertical rocket
const (
	// StagedApexHeightDefault is used when min and max apex heights are unset
	StagedApexHeightDefault = 600.0

	// StagedCurvatureDefault places the ascent control point along the climb
	StagedCurvatureDefault = 0.6

	// StagedArcDistanceDefault is the mini-arc length when unset
	StagedArcDistanceDefault = 200.0

	// StagedArcHeightDefault is the mini-arc bulge when unset
	StagedArcHeightDefault = 60.0
)

// Arrival
const (
	// ArrivalHitRadius is the direct-hit radius of a projectile reaching its target
	ArrivalHitRadius = 25.0

	// AOEFalloffFloor is the damage fraction at the edge of the blast radius
	AOEFalloffFloor = 0.25
)
