package event

// EventType represents the type of weapon notification
type EventType int

const (
	// EventMagazineConsumed reports rounds left after a discharge
	// Trigger: every discharge
	// Consumer: UI ammo counter | Payload: *MagazinePayload
	EventMagazineConsumed EventType = iota

	// EventShellChanged reports a new active shell type
	// Trigger: ChangeWeaponShellType success
	// Consumer: behaviours, launch VFX cache | Payload: *ShellPayload
	EventShellChanged

	// EventActorKilled reports a kill credited to the weapon
	// Trigger: direct hit that killed, ReportKill from a projectile
	// Consumer: kill-credit / owner logic | Payload: *KillPayload
	EventActorKilled

	// EventReloaded reports a completed reload
	// Trigger: reload timer
	// Consumer: UI, staged-rocket instance re-arm | Payload: *MagazinePayload
	EventReloaded

	// EventBurstFinished reports the end of a burst
	// Trigger: burst emptied, magazine emptied, StopFire
	// Consumer: AI fire scheduling | Payload: *BurstPayload
	EventBurstFinished

	eventTypeCount
)

func (t EventType) String() string {
	switch t {
	case EventMagazineConsumed:
		return "magazine_consumed"
	case EventShellChanged:
		return "shell_changed"
	case EventActorKilled:
		return "actor_killed"
	case EventReloaded:
		return "reloaded"
	case EventBurstFinished:
		return "burst_finished"
	default:
		return "unknown"
	}
}
