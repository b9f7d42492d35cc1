package audio

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/parameter"
)

// Recipe describes one procedural sound
type Recipe struct {
	Wave     WaveType
	Freq     float64
	EndFreq  float64 // 0 keeps Freq constant
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
	Gain     float64
}

// builtin recipes are matched by keyword against the asset name
var builtin = []struct {
	keyword string
	recipe  Recipe
}{
	{"explosion", Recipe{WaveNoise, 0, 0, parameter.ExplosionSoundDuration, parameter.ExplosionSoundAttack, parameter.ExplosionSoundRelease, 0.9}},
	{"impact", Recipe{WaveNoise, 0, 0, parameter.ImpactSoundDuration, parameter.ImpactSoundAttack, parameter.ImpactSoundRelease, 0.7}},
	{"bounce", Recipe{WaveSquare, 1800, 700, parameter.BounceSoundDuration, parameter.BounceSoundAttack, parameter.BounceSoundRelease, 0.35}},
	{"launch", Recipe{WaveSaw, 90, 45, parameter.LaunchSoundDuration, parameter.LaunchSoundAttack, parameter.LaunchSoundRelease, 0.6}},
}

// RecipeFor resolves the recipe for an asset: builtin keyword, else a tone derived from the name
func RecipeFor(a core.SoundAsset) Recipe {
	name := strings.ToLower(string(a))
	for _, b := range builtin {
		if strings.Contains(name, b.keyword) {
			return b.recipe
		}
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return Recipe{
		Wave:     WaveSine,
		Freq:     220 + float64(h.Sum32()%660),
		Duration: parameter.FallbackSoundDuration,
		Attack:   parameter.FallbackSoundAttack,
		Release:  parameter.FallbackSoundRelease,
		Gain:     0.5,
	}
}

// Bank stores pre-rendered unity-gain buffers per sound asset
type Bank struct {
	format beep.Format

	mu      sync.RWMutex
	recipes map[core.SoundAsset]Recipe
	store   map[core.SoundAsset]*beep.Buffer
}

func NewBank(rate beep.SampleRate) *Bank {
	return &Bank{
		format:  beep.Format{SampleRate: rate, NumChannels: parameter.AudioChannels, Precision: parameter.AudioPrecision},
		recipes: make(map[core.SoundAsset]Recipe),
		store:   make(map[core.SoundAsset]*beep.Buffer),
	}
}

func (b *Bank) Format() beep.Format { return b.format }

// Register overrides the recipe for an asset, dropping any cached render
func (b *Bank) Register(a core.SoundAsset, r Recipe) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recipes[a] = r
	delete(b.store, a)
}

// Buffer returns the cached render or generates it on demand
func (b *Bank) Buffer(a core.SoundAsset) *beep.Buffer {
	b.mu.RLock()
	if buf, ok := b.store[a]; ok {
		b.mu.RUnlock()
		return buf
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	// Double-check after acquiring write lock
	if buf, ok := b.store[a]; ok {
		return buf
	}

	r, ok := b.recipes[a]
	if !ok {
		r = RecipeFor(a)
	}
	buf := b.render(a, r)
	b.store[a] = buf
	return buf
}

// Preload renders assets ahead of first use
func (b *Bank) Preload(assets ...core.SoundAsset) {
	for _, a := range assets {
		if a.Valid() {
			b.Buffer(a)
		}
	}
}

func (b *Bank) render(a core.SoundAsset, r Recipe) *beep.Buffer {
	h := fnv.New64a()
	h.Write([]byte(a))

	rate := b.format.SampleRate
	osc := NewOscillator(r.Freq, r.EndFreq, r.Duration, r.Wave, rate, h.Sum64())
	shaped := NewEnvelope(osc, r.Duration, r.Attack, r.Release, rate)

	buf := beep.NewBuffer(b.format)
	buf.Append(newVolume(shaped, r.Gain))
	return buf
}
