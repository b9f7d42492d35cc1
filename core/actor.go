package core

import (
	"github.com/lixenwraith/ordnance/vmath"
)

// Entity is a non-owning identifier of an object owned elsewhere
type Entity uint64

// Owner is the unit a weapon is mounted on; the weapon never owns it
type Owner interface {
	Entity() Entity
	Valid() bool
}

// Mesh resolves named fire sockets into world poses
type Mesh interface {
	Valid() bool
	SocketPose(name string) (vmath.Pose, bool)
}

// InstancedMesh can display static per-socket instances (loaded rockets on a rack)
type InstancedMesh interface {
	Mesh
	// AddInstance attaches an instance at the socket and returns its index
	AddInstance(socket string) (int, bool)
	SetInstanceHidden(index int, hidden bool)
}

// Actor is anything a shot can hit
type Actor interface {
	Entity() Entity
	Valid() bool
}

// Damage is what a hit delivers to a Damageable
type Damage struct {
	Amount      float64
	Penetration float64
	Calibre     float64
	Source      Entity
}

// Damageable actors accept damage and report whether it killed them
type Damageable interface {
	Actor
	ApplyDamage(d Damage) (killed bool)
}

// Hit is the result of a spatial query
type Hit struct {
	Location vmath.Vec3F
	Normal   vmath.Vec3F
	Distance float64
	Actor    Actor // nil for world geometry
}

// Tracer performs the single spatial query used by direct-fire weapons
type Tracer interface {
	Trace(from, to vmath.Vec3F, ignore Entity) (Hit, bool)
}

// Armored actors deflect hits whose penetration is below their armor
type Armored interface {
	Armor() float64
}

// AreaQuery finds actors overlapping a sphere, used when projectiles arrive
type AreaQuery interface {
	Overlap(center vmath.Vec3F, radius float64, ignore Entity) []Hit
}
