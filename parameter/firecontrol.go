package parameter

import (
	"time"
)

// Timing jitter
const (
	// FireCooldownFluxDefault is the cooldown jitter percentage when a weapon sets none
	FireCooldownFluxDefault = 0.0

	// FireReloadFluxDefault is the reload jitter percentage when a weapon sets none
	FireReloadFluxDefault = 0.0

	// FireFluxMax caps any configured flux percentage
	FireFluxMax = 100.0
)

// Burst
const (
	// BurstIntervalDefault is the spacing between discharges inside a burst
	BurstIntervalDefault = 100 * time.Millisecond

	// BurstIntervalMin prevents a zero-interval burst from re-entering in the same tick
	BurstIntervalMin = time.Millisecond

	// BurstCountMax bounds configured burst sizes
	BurstCountMax = 256
)

// Accuracy
const (
	// AccuracySpreadMaxDeg is the cone half-angle at accuracy 0
	AccuracySpreadMaxDeg = 12.0
)

// Upgrades
const (
	// RangeMultiplierMax bounds UpgradeWeaponWithRangeMlt
	RangeMultiplierMax = 10.0
)
