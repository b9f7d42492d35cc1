package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat accumulates damage totals; the float64 lives as raw bits
type AtomicFloat struct {
	v atomic.Uint64
}

func (f *AtomicFloat) Get() float64 { return math.Float64frombits(f.v.Load()) }

func (f *AtomicFloat) Set(val float64) { f.v.Store(math.Float64bits(val)) }

// Add returns the total after adding delta
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		cur := f.v.Load()
		sum := math.Float64frombits(cur) + delta
		if f.v.CompareAndSwap(cur, math.Float64bits(sum)) {
			return sum
		}
	}
}

// MaxLabelLen bounds shell and state labels
const MaxLabelLen = 20

// AtomicString is a short label readable from any goroutine; the zero value is ""
type AtomicString struct {
	v atomic.Pointer[string]
}

// Store keeps at most MaxLabelLen bytes of val
func (s *AtomicString) Store(val string) {
	val = val[:min(len(val), MaxLabelLen)]
	s.v.Store(&val)
}

func (s *AtomicString) Load() string {
	p := s.v.Load()
	if p == nil {
		return ""
	}
	return *p
}
