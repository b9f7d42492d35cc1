package event

import (
	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
)

// MagazinePayload carries the magazine count after the change
type MagazinePayload struct {
	Remaining int
	Capacity  int
}

// ShellPayload carries the newly active shell type
type ShellPayload struct {
	Shell    armory.ShellType
	Previous armory.ShellType
}

// KillPayload identifies the killed actor
type KillPayload struct {
	Actor  core.Entity
	Killer core.Entity // Owner of the weapon
}

// BurstPayload reports how many rounds the burst discharged
type BurstPayload struct {
	Fired       int
	Interrupted bool
}
