package parameter

import "time"

// Audio format
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
	AudioPrecision  = 2 // Bytes per sample when encoding

	// AudioSpeakerBuffer is the speaker pull size, trading latency for underruns
	AudioSpeakerBuffer = 50 * time.Millisecond
)

// Procedural weapon sounds
const (
	// Impact: noise crack with a fast decay
	ImpactSoundDuration = 220 * time.Millisecond
	ImpactSoundAttack   = 2 * time.Millisecond
	ImpactSoundRelease  = 180 * time.Millisecond

	// Bounce: short falling square whine
	BounceSoundDuration = 140 * time.Millisecond
	BounceSoundAttack   = 3 * time.Millisecond
	BounceSoundRelease  = 90 * time.Millisecond

	// Launch: low saw thump
	LaunchSoundDuration = 160 * time.Millisecond
	LaunchSoundAttack   = 2 * time.Millisecond
	LaunchSoundRelease  = 120 * time.Millisecond

	// Explosion: long noise rumble
	ExplosionSoundDuration = 600 * time.Millisecond
	ExplosionSoundAttack   = 5 * time.Millisecond
	ExplosionSoundRelease  = 500 * time.Millisecond

	// Fallback tone for unregistered assets
	FallbackSoundDuration = 100 * time.Millisecond
	FallbackSoundAttack   = 5 * time.Millisecond
	FallbackSoundRelease  = 60 * time.Millisecond
)
