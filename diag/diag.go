// Package diag is the non-fatal diagnostic channel of the fire-control core
// Nothing reported here stops a weapon's owner; the worst case is an inert weapon
package diag

import (
	"sync"

	"github.com/rs/zerolog"
)

// Kind classifies a report
type Kind uint8

const (
	// KindConfig is a missing or invalid reference supplied at init
	KindConfig Kind = iota
	// KindInvariant is a rejected operation (shell not allowed, unbalanced delta removal)
	KindInvariant
	// KindTransient is a collaborator that vanished between scheduling and callback
	KindTransient
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInvariant:
		return "invariant"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// shared is the dedupe and counter state common to a reporter and its children
type shared struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	counts [kindCount]int
}

// Reporter writes structured diagnostics through zerolog
// A nil *Reporter is valid and discards everything
type Reporter struct {
	log   zerolog.Logger
	state *shared
}

// New wraps a zerolog logger
func New(log zerolog.Logger) *Reporter {
	return &Reporter{
		log:   log,
		state: &shared{seen: make(map[string]struct{})},
	}
}

// Nop returns a reporter that counts but never writes
func Nop() *Reporter {
	return New(zerolog.Nop())
}

// With returns a child reporter tagged with a component name, sharing dedupe state
func (r *Reporter) With(component string) *Reporter {
	if r == nil {
		return nil
	}
	return &Reporter{
		log:   r.log.With().Str("component", component).Logger(),
		state: r.state,
	}
}

// Report records one diagnostic; keysAndValues are alternating string keys and values
func (r *Reporter) Report(kind Kind, msg string, keysAndValues ...any) {
	if r == nil {
		return
	}
	r.state.mu.Lock()
	if kind < kindCount {
		r.state.counts[kind]++
	}
	r.state.mu.Unlock()

	ev := r.log.Warn()
	if kind == KindConfig {
		ev = r.log.Error()
	} else if kind == KindTransient {
		ev = r.log.Debug()
	}
	ev.Str("kind", kind.String()).Fields(toFields(keysAndValues)).Msg(msg)
}

// ReportOnce reports only the first time key is seen, returns true when it reported
func (r *Reporter) ReportOnce(key string, kind Kind, msg string, keysAndValues ...any) bool {
	if r == nil {
		return false
	}
	r.state.mu.Lock()
	if _, ok := r.state.seen[key]; ok {
		r.state.mu.Unlock()
		return false
	}
	r.state.seen[key] = struct{}{}
	r.state.mu.Unlock()

	r.Report(kind, msg, keysAndValues...)
	return true
}

// Count returns how many reports of kind were recorded
func (r *Reporter) Count(kind Kind) int {
	if r == nil || kind >= kindCount {
		return 0
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return r.state.counts[kind]
}

// toFields converts key-value pairs to a map for zerolog
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
