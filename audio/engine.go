// Package audio renders weapon sounds through beep
// Sounds are procedural, pre-rendered once per asset and replayed by seeking
package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/ordnance/core"
)

// Engine mixes every live voice into one stream and creates voices for the impact pool
// A speaker backend pulls Stream from its own goroutine, so all voice state is guarded by mu
type Engine struct {
	bank *Bank

	mu     sync.Mutex
	mixer  beep.Mixer
	epoch  uint64 // Bumped by Silence so voices know the mixer was cleared
	active int
	voices int

	played  uint64
	dropped uint64
}

// NewEngine creates an engine over bank
func NewEngine(bank *Bank) *Engine {
	return &Engine{bank: bank}
}

func (e *Engine) Bank() *Bank { return e.bank }

func (e *Engine) Format() beep.Format { return e.bank.Format() }

// NewSound creates a voice bound to cfg; the buffer is rendered on first Restart
func (e *Engine) NewSound(a core.SoundAsset, cfg *core.AudioConfig) core.SoundComponent {
	e.mu.Lock()
	e.voices++
	e.mu.Unlock()
	return &Voice{engine: e, asset: a, cfg: cfg}
}

// Stream mixes live voices; it never drains so the speaker keeps pulling
func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, _ = e.mixer.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (e *Engine) Err() error { return nil }

// Active returns the number of voices currently audible
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Stats returns lifetime counts
func (e *Engine) Stats() (voices int, played, dropped uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voices, e.played, e.dropped
}

// Silence stops every voice
func (e *Engine) Silence() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mixer.Clear()
	e.epoch++
	e.active = 0
}

// start adds a voice to the mix, caller holds mu
func (e *Engine) start(v *Voice, limit int) bool {
	if limit > 0 && e.active >= limit {
		e.dropped++
		return false
	}
	e.active++
	e.played++
	v.playing = true
	v.epoch = e.epoch
	e.mixer.Add(&voiceStream{voice: v, gen: v.gen, epoch: e.epoch})
	return true
}
