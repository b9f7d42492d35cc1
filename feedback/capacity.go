package feedback

import (
	"math"
	"time"

	"github.com/lixenwraith/ordnance/parameter"
)

// RecommendedCapacity estimates how many impacts are in flight at once for a weapon
// firing fireRate shots per second in bursts of burstSize separated by burstCooldown.
// The result is advisory; any capacity of at least 1 is correct
func RecommendedCapacity(fireRate float64, burstSize int, burstCooldown, effectLifetime time.Duration) int {
	if effectLifetime <= 0 {
		effectLifetime = parameter.ImpactEffectLifetimeDefault
	}
	if fireRate <= 0 || math.IsNaN(fireRate) || math.IsInf(fireRate, 0) {
		return parameter.ImpactPoolCapacityMin
	}
	burstSize = max(burstSize, 1)
	life := effectLifetime.Seconds()

	// Time to fire one burst plus the pause before the next
	burstSpan := float64(burstSize-1)/fireRate + burstCooldown.Seconds()
	var concurrent float64
	if burstSpan <= 0 {
		concurrent = fireRate * life
	} else {
		// Whole bursts that fit in one lifetime, plus the partial one in progress
		bursts := life / burstSpan
		concurrent = math.Min(bursts*float64(burstSize), fireRate*life)
		concurrent = math.Max(concurrent, math.Min(float64(burstSize), fireRate*life+1))
	}

	n := int(math.Ceil(concurrent * parameter.ImpactPoolHeadroom))
	return min(max(n, parameter.ImpactPoolCapacityMin), parameter.ImpactPoolCapacityMax)
}
