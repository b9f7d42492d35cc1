package audio

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/vmath"
)

// Voice is one restartable positional sound
// Restarting seeks the same buffer stream back to zero; nothing is reallocated unless the asset changes
type Voice struct {
	engine *Engine
	cfg    *core.AudioConfig

	// Guarded by engine.mu
	asset    core.SoundAsset
	loc      vmath.Vec3F
	stream   beep.StreamSeeker
	vol      *effects.Volume
	dirty    bool
	playing  bool
	released bool
	gen      uint64
	epoch    uint64
}

func (v *Voice) SetAsset(a core.SoundAsset) {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()
	if a != v.asset {
		v.asset = a
		v.dirty = true
	}
}

func (v *Voice) Place(loc vmath.Vec3F) {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()
	v.loc = loc
	if v.vol != nil {
		setGain(v.vol, v.cfg.Attenuation(loc))
	}
}

// Restart plays from the beginning, joining the mix if not already audible
func (v *Voice) Restart() {
	if !v.asset.Valid() {
		return
	}
	buf := v.engine.bank.Buffer(v.asset)

	e := v.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if v.released {
		return
	}

	gain := v.cfg.Attenuation(v.loc)
	if v.stream == nil || v.dirty {
		v.stream = buf.Streamer(0, buf.Len())
		v.vol = newVolume(v.stream, gain)
		v.dirty = false
	} else {
		_ = v.stream.Seek(0)
		setGain(v.vol, gain)
	}

	if v.playing && v.epoch == e.epoch {
		return
	}
	limit := 0
	if v.cfg != nil {
		limit = v.cfg.MaxVoices
	}
	e.start(v, limit)
}

// Playing reports whether the voice is in the mix
func (v *Voice) Playing() bool {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()
	return v.playing && v.epoch == v.engine.epoch
}

// Release stops the voice permanently
func (v *Voice) Release() {
	e := v.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if v.released {
		return
	}
	if v.playing && v.epoch == e.epoch {
		e.active--
	}
	v.playing = false
	v.released = true
	v.gen++
}

// voiceStream is the mixer's handle on a voice for one play-through
type voiceStream struct {
	voice *Voice
	gen   uint64
	epoch uint64
	done  bool
}

// Stream runs under engine.mu, held by Engine.Stream
func (s *voiceStream) Stream(samples [][2]float64) (n int, ok bool) {
	v := s.voice
	if s.done || s.gen != v.gen || s.epoch != v.engine.epoch {
		return 0, false
	}
	n, ok = v.vol.Stream(samples)
	if n < len(samples) || !ok {
		s.done = true
		v.playing = false
		v.engine.active--
	}
	return n, ok
}

func (s *voiceStream) Err() error { return nil }
