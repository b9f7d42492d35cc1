package core

import (
	"math"
	"time"
)

// RNG is a xorshift64 generator; each weapon owns one so runs replay from a seed
type RNG struct {
	state uint64
}

// NewRNG creates a generator, seed 0 uses the wall clock
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if seed == 0 {
		seed = 1
	}
	return &RNG{state: seed}
}

func (r *RNG) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Float64 returns [0, 1)
func (r *RNG) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Intn returns [0, n), 0 for n <= 0
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// IntRange returns [lo, hi] inclusive, swapping reversed bounds
func (r *RNG) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Range returns [lo, hi)
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Sign returns -1 or +1
func (r *RNG) Sign() float64 {
	if r.Next()&1 == 0 {
		return -1
	}
	return 1
}

// Flux jitters base by ±fluxPercent, never below zero
func (r *RNG) Flux(base time.Duration, fluxPercent float64) time.Duration {
	if base <= 0 {
		return 0
	}
	if fluxPercent <= 0 {
		return base
	}
	jitter := r.Range(-1, 1) * fluxPercent / 100
	d := time.Duration(math.Round(float64(base) * (1 + jitter)))
	if d < 0 {
		return 0
	}
	return d
}

// Disk returns a uniformly distributed point within radius on the XY plane
func (r *RNG) Disk(radius float64) (x, y float64) {
	if radius <= 0 {
		return 0, 0
	}
	rad := radius * math.Sqrt(r.Float64())
	s, c := math.Sincos(2 * math.Pi * r.Float64())
	return rad * c, rad * s
}
