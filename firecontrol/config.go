package firecontrol

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/status"
	"github.com/lixenwraith/ordnance/telemetry"
)

var (
	ErrInvalidOwner    = errors.New("owner reference invalid")
	ErrInvalidMesh     = errors.New("mesh reference invalid")
	ErrNoSockets       = errors.New("no fire sockets configured")
	ErrUnknownSocket   = errors.New("socket not found on mesh")
	ErrNoDischarger    = errors.New("no discharger configured")
	ErrNoScheduler     = errors.New("no scheduler configured")
	ErrInvalidMode     = errors.New("invalid fire mode")
	ErrInvalidBurst    = errors.New("invalid burst parameters")
	ErrWeaponDisabled  = errors.New("weapon disabled")
	ErrNotInitialized  = errors.New("weapon not initialized")
	ErrInvalidRangeMlt = errors.New("invalid range multiplier")
)

// BurstParams configures burst modes
type BurstParams struct {
	Count    int           `mapstructure:"count" json:"count"` // Fixed burst size
	Min      int           `mapstructure:"min" json:"min"`     // Random burst lower bound, inclusive
	Max      int           `mapstructure:"max" json:"max"`     // Random burst upper bound, inclusive
	Interval time.Duration `mapstructure:"interval" json:"interval"`
}

// Config is everything InitWeapon needs
type Config struct {
	Owner   core.Owner
	Mesh    core.Mesh
	Sockets []string

	Mode  Mode
	Burst BurstParams

	// Flux percentages applied to cooldown and reload durations; nil takes the
	// parameter default, an explicit 0 disables jitter
	CooldownFlux *float64
	ReloadFlux   *float64

	Data   armory.WeaponData
	Shells armory.ShellSet
	Shell  armory.ShellType

	Discharger Discharger
	Scheduler  engine.Scheduler

	// Optional collaborators
	Impacts   ImpactPlayer
	Launches  LaunchPlayer
	RNG       *core.RNG
	Diag      *diag.Reporter
	Registry  *status.Registry
	Telemetry *telemetry.Instruments
}

// validate checks references and parameters, returning the first problem
func (c *Config) validate() error {
	if c.Scheduler == nil {
		return ErrNoScheduler
	}
	if c.Owner == nil || !c.Owner.Valid() {
		return ErrInvalidOwner
	}
	if c.Mesh == nil || !c.Mesh.Valid() {
		return ErrInvalidMesh
	}
	if len(c.Sockets) == 0 {
		return ErrNoSockets
	}
	for _, s := range c.Sockets {
		if _, ok := c.Mesh.SocketPose(s); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSocket, s)
		}
	}
	if c.Discharger == nil {
		return ErrNoDischarger
	}
	switch c.Mode {
	case ModeSingle:
	case ModeFixedBurst:
		if c.Burst.Count < 1 {
			return fmt.Errorf("%w: count %d", ErrInvalidBurst, c.Burst.Count)
		}
	case ModeRandomBurst:
		if c.Burst.Min < 1 || c.Burst.Max < c.Burst.Min {
			return fmt.Errorf("%w: range [%d, %d]", ErrInvalidBurst, c.Burst.Min, c.Burst.Max)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMode, c.Mode)
	}
	return nil
}

// normalize fills defaults and clamps tunables into range
func (c *Config) normalize() {
	if c.Burst.Interval <= 0 {
		c.Burst.Interval = parameter.BurstIntervalDefault
	}
	c.Burst.Interval = max(c.Burst.Interval, parameter.BurstIntervalMin)
	c.Burst.Count = min(c.Burst.Count, parameter.BurstCountMax)
	c.Burst.Min = min(c.Burst.Min, parameter.BurstCountMax)
	c.Burst.Max = min(c.Burst.Max, parameter.BurstCountMax)

	c.CooldownFlux = resolveFlux(c.CooldownFlux, parameter.FireCooldownFluxDefault)
	c.ReloadFlux = resolveFlux(c.ReloadFlux, parameter.FireReloadFluxDefault)

	if c.RNG == nil {
		c.RNG = core.NewRNG(0)
	}
}

// resolveFlux returns a fresh pointer holding v, or def when unset, clamped to [0, FireFluxMax]
func resolveFlux(v *float64, def float64) *float64 {
	f := def
	if v != nil {
		f = *v
	}
	f = min(max(f, 0), parameter.FireFluxMax)
	return &f
}

// Flux returns a pointer to percent for the optional flux fields of Config
func Flux(percent float64) *float64 {
	return &percent
}
