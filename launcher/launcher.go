// Package launcher turns fire-control shots into flights: hit scans, tracers,
// arcs, splitting arcs, swinging rockets and staged vertical rockets.
// Every variant is a firecontrol.Discharger and schedules its stages on the
// owning weapon's timers, so disabling the weapon cancels them too
package launcher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/trajectory"
	"github.com/lixenwraith/ordnance/vmath"
)

var (
	ErrUnknownKind   = errors.New("unknown launcher kind")
	ErrNoTracer      = errors.New("direct launcher needs a tracer")
	ErrNoPool        = errors.New("launcher needs a projectile pool")
	ErrInvalidSplit  = errors.New("splitter needs at least one child")
	ErrInvalidSpread = errors.New("negative spread radius")
)

// Projectile is an externally owned projectile representation
type Projectile interface {
	// Fly hands the path to the projectile's mover; arrival timing stays with the launcher
	Fly(f trajectory.Flight, shot firecontrol.Shot)
}

// Pool lends projectiles; Release returns them once a flight ends or is recalled
type Pool interface {
	Acquire() (Projectile, bool)
	Release(p Projectile)
}

// Arrival describes a flight that reached its end
type Arrival struct {
	Shot      firecontrol.Shot
	Location  vmath.Vec3F
	Direction vmath.Vec3F
	Child     bool // Spawned by a splitter
	Hits      int  // Actors damaged
}

// Kind selects a launcher variant
type Kind uint8

const (
	KindDirect Kind = iota
	KindTraced
	KindArched
	KindSplitter
	KindRocket
	KindStaged
	kindCount
)

var kindNames = [kindCount]string{"direct", "traced", "arched", "splitter", "rocket", "staged"}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind accepts the lower-case kind names, case-insensitively
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Descriptor holds every variant's tunables; each variant reads its own section
type Descriptor struct {
	Arc    trajectory.ArcParams    `mapstructure:"arc" json:"arc"`
	Split  trajectory.SplitParams  `mapstructure:"split" json:"split"`
	Swing  trajectory.SwingParams  `mapstructure:"swing" json:"swing"`
	Staged trajectory.StagedParams `mapstructure:"staged" json:"staged"`

	// TracerDuration is the visual flight time of traced shots; 0 uses the default
	TracerDuration time.Duration `mapstructure:"tracerDuration" json:"tracerDuration"`
	// Instances shows one loaded rocket per socket on an instanced mesh
	Instances bool `mapstructure:"instances" json:"instances"`
}

// Deps are the collaborators a launcher may need
type Deps struct {
	Pool   Pool
	Tracer core.Tracer
	Area   core.AreaQuery
	// OnArrival observes every resolved flight
	OnArrival func(Arrival)
}

// Launcher is a Discharger with lifecycle hooks and counters
type Launcher interface {
	firecontrol.Discharger
	firecontrol.Binder
	firecontrol.TeardownHook
	Kind() Kind
	Stats() Stats
	InFlight() int
}

// New builds the launcher for kind
func New(kind Kind, desc Descriptor, deps Deps) (Launcher, error) {
	switch kind {
	case KindDirect, KindTraced:
		d, err := NewDirect(kind == KindTraced, desc.TracerDuration, deps)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindArched:
		return NewArched(desc.Arc, deps)
	case KindSplitter:
		s, err := NewSplitter(desc.Arc, desc.Split, deps)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindRocket:
		return NewRocket(desc.Swing, deps)
	case KindStaged:
		return NewStaged(desc.Staged, desc.Instances, deps)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
