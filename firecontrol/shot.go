package firecontrol

import (
	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/vmath"
)

// Shot is everything a variant needs to launch one projectile
type Shot struct {
	Aim    vmath.Vec3F
	Origin vmath.Pose
	Socket string
	// SocketIndex is the position of Socket in the configured list
	SocketIndex int
	Data        armory.WeaponData // Shell-adjusted, owned by the shot
	Shell       armory.ShellType
	// BurstIndex is the ordinal inside the current burst, 0 for single shots
	BurstIndex int
	Serial     uint64
}

// Discharger places or launches a projectile for one shot
// Implemented by the trajectory variants
type Discharger interface {
	// Discharge returns false when nothing was launched
	Discharge(shot Shot) bool
}

// Binder is implemented by dischargers that validate against or hold the weapon
type Binder interface {
	Bind(w *Weapon) error
}

// ReloadHook is called after every completed reload
type ReloadHook interface {
	OnReloaded()
}

// TeardownHook is called when the weapon is disabled or re-initialized,
// after every pending callback has been cancelled
type TeardownHook interface {
	OnTeardown()
}

// ImpactPlayer plays impact and bounce feedback
type ImpactPlayer interface {
	PlayImpact(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool
	PlayBounce(loc vmath.Vec3F, rot vmath.Rotator, effect core.EffectAsset, scale float64, sound core.SoundAsset) bool
}

// LaunchPlayer plays muzzle flash and shell casing effects at a socket
type LaunchPlayer interface {
	PlayLaunch(socket string, pose vmath.Pose, data armory.WeaponData, shell armory.ShellType)
}
