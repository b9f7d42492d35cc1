package firecontrol

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/ordnance/vmath"
)

// Mode selects the fire-mode function bound at init
type Mode uint8

const (
	ModeSingle Mode = iota
	ModeFixedBurst
	ModeRandomBurst
	modeCount
)

var modeNames = [modeCount]string{
	ModeSingle:      "single",
	ModeFixedBurst:  "burst",
	ModeRandomBurst: "random-burst",
}

func (m Mode) String() string {
	if m >= modeCount {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ParseMode accepts the names printed by String
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return Mode(i), nil
		}
	}
	return ModeSingle, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// fireFunc starts one fire action; readiness is checked by the caller
type fireFunc func(w *Weapon, aim vmath.Vec3F) FireResult

// fireModes is the dispatch table; the entry is chosen once at init
var fireModes = [modeCount]fireFunc{
	ModeSingle:      fireSingle,
	ModeFixedBurst:  fireFixedBurst,
	ModeRandomBurst: fireRandomBurst,
}

// State is the fire-control state
type State uint8

const (
	StateUninitialized State = iota // Before a successful Init; inert
	StateIdle
	StateCooldown
	StateReloading
	StateInBurst
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateCooldown:
		return "cooldown"
	case StateReloading:
		return "reloading"
	case StateInBurst:
		return "burst"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// FireResult is the outcome of a Fire request
type FireResult uint8

const (
	FireDischarged FireResult = iota
	FireBurstStarted
	FireReloadStarted
	FireBurstRefreshed // Already bursting; aim point updated, nothing fired
	FireRejectedCooldown
	FireRejectedReloading
	FireRejectedDisabled
	FireMisconfigured
	FireInvalidReference // Owner, mesh or socket vanished
)

// Accepted reports whether the request started new work
func (r FireResult) Accepted() bool {
	return r == FireDischarged || r == FireBurstStarted || r == FireReloadStarted
}

func (r FireResult) String() string {
	switch r {
	case FireDischarged:
		return "discharged"
	case FireBurstStarted:
		return "burst-started"
	case FireReloadStarted:
		return "reload-started"
	case FireBurstRefreshed:
		return "burst-refreshed"
	case FireRejectedCooldown:
		return "cooldown"
	case FireRejectedReloading:
		return "reloading"
	case FireRejectedDisabled:
		return "disabled"
	case FireMisconfigured:
		return "misconfigured"
	case FireInvalidReference:
		return "invalid-reference"
	default:
		return fmt.Sprintf("FireResult(%d)", uint8(r))
	}
}

// StopFlags selects which timers StopFire cancels besides the burst
type StopFlags uint8

const (
	StopReload StopFlags = 1 << iota
	StopCooldown

	StopBurstOnly StopFlags = 0
	StopAll                 = StopReload | StopCooldown
)
