// Package status keeps in-process counters for weapons, readable from any goroutine
package status

import "sync/atomic"

// Registry is the central counter facade
// Weapons cache a WeaponStats at init and write atomics directly
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// WeaponStats are the cached counters of one weapon
type WeaponStats struct {
	Shots       *atomic.Int64
	Bursts      *atomic.Int64
	Reloads     *atomic.Int64
	Rejected    *atomic.Int64
	Impacts     *atomic.Int64
	Bounces     *atomic.Int64
	Kills       *atomic.Int64
	Magazine    *atomic.Int64
	DamageDealt *AtomicFloat
	Shell       *AtomicString
	State       *AtomicString
}

// Weapon returns counters keyed "weapon.<name>.*"; the same name shares counters
func (r *Registry) Weapon(name string) *WeaponStats {
	p := "weapon." + name + "."
	return &WeaponStats{
		Shots:       r.Ints.Get(p + "shots"),
		Bursts:      r.Ints.Get(p + "bursts"),
		Reloads:     r.Ints.Get(p + "reloads"),
		Rejected:    r.Ints.Get(p + "rejected"),
		Impacts:     r.Ints.Get(p + "impacts"),
		Bounces:     r.Ints.Get(p + "bounces"),
		Kills:       r.Ints.Get(p + "kills"),
		Magazine:    r.Ints.Get(p + "magazine"),
		DamageDealt: r.Floats.Get(p + "damage"),
		Shell:       r.Strings.Get(p + "shell"),
		State:       r.Strings.Get(p + "state"),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}
