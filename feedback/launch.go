package feedback

import (
	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/event"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// shellTint colors muzzle flashes by ammunition kind
var shellTint = [...]core.RGB{
	armory.ShellNone: {R: 255, G: 230, B: 180},
	armory.ShellAP:   {R: 255, G: 230, B: 180},
	armory.ShellAPHE: {R: 255, G: 190, B: 120},
	armory.ShellAPCR: {R: 200, G: 220, B: 255},
	armory.ShellHE:   {R: 255, G: 150, B: 60},
	armory.ShellHEAT: {R: 255, G: 110, B: 90},
	armory.ShellFire: {R: 255, G: 90, B: 20},
}

// ShellTint returns the flash color for a shell, dimmed for small calibres
func ShellTint(shell armory.ShellType, calibre float64) core.RGB {
	base := shellTint[armory.ShellNone]
	if shell.Valid() {
		base = shellTint[shell]
	}
	f := vmath.Clamp(calibre/parameter.LaunchCalibreReference, parameter.LaunchTintFloor, 1)
	return base.Scale(f)
}

// socketFX is the cached launch state of one fire socket
type socketFX struct {
	flash      core.EffectComponent
	casing     core.EffectComponent
	flashAsset core.EffectAsset
	caseAsset  core.EffectAsset
	shell      armory.ShellType
	tint       core.RGB
	stale      bool
}

// LaunchCache keeps one muzzle flash and one casing component per socket
type LaunchCache struct {
	effects core.EffectFactory
	diag    *diag.Reporter
	sockets map[string]*socketFX

	bus *event.Bus
	sub event.Subscription

	stats Stats
}

func NewLaunchCache(effects core.EffectFactory, rep *diag.Reporter) *LaunchCache {
	if rep == nil {
		rep = diag.Nop()
	}
	return &LaunchCache{
		effects: effects,
		diag:    rep.With("feedback"),
		sockets: make(map[string]*socketFX),
	}
}

// Attach invalidates cached tints whenever the weapon publishing on bus changes shell
func (c *LaunchCache) Attach(bus *event.Bus) {
	c.Detach()
	c.bus = bus
	c.sub = bus.Subscribe(event.EventShellChanged, event.HandlerFunc(c.onShellChanged))
}

func (c *LaunchCache) Detach() {
	if c.bus != nil {
		c.bus.Unsubscribe(c.sub)
		c.bus = nil
	}
}

func (c *LaunchCache) onShellChanged(event.Event) {
	for _, fx := range c.sockets {
		fx.stale = true
	}
}

// PlayLaunch restarts the socket's flash and casing effects at pose
func (c *LaunchCache) PlayLaunch(socket string, pose vmath.Pose, data armory.WeaponData, shell armory.ShellType) {
	if c.effects == nil {
		return
	}
	fx, ok := c.sockets[socket]
	if !ok {
		fx = &socketFX{stale: true}
		c.sockets[socket] = fx
	}
	if fx.stale || fx.shell != shell {
		fx.shell = shell
		fx.tint = ShellTint(shell, data.Calibre)
		fx.stale = false
	}

	c.restart(&fx.flash, &fx.flashAsset, data.Visuals.LaunchEffect, pose, fx.tint)
	c.restart(&fx.casing, &fx.caseAsset, data.Visuals.ShellCaseEffect, pose, core.RGBWhite)
	c.stats.Plays++
}

func (c *LaunchCache) restart(comp *core.EffectComponent, last *core.EffectAsset, asset core.EffectAsset, pose vmath.Pose, tint core.RGB) {
	if !asset.Valid() {
		return
	}
	switch {
	case *comp == nil:
		*comp = c.effects.NewEffect(asset)
		*last = asset
		c.stats.EffectsCreated++
	case *last != asset:
		(*comp).SetAsset(asset)
		*last = asset
		c.stats.Swaps++
	}
	if *comp == nil {
		c.diag.ReportOnce("feedback.launch.factory", diag.KindTransient, "effect factory returned nil", "asset", string(asset))
		return
	}
	(*comp).Place(pose, 1)
	(*comp).SetTint(tint)
	(*comp).Restart()
}

// Tint returns the cached flash tint for a socket
func (c *LaunchCache) Tint(socket string) (core.RGB, bool) {
	fx, ok := c.sockets[socket]
	if !ok || fx.stale {
		return core.RGB{}, false
	}
	return fx.tint, true
}

func (c *LaunchCache) Stats() Stats { return c.stats }

// Release frees every cached component and detaches from the bus
func (c *LaunchCache) Release() {
	c.Detach()
	for name, fx := range c.sockets {
		if fx.flash != nil {
			fx.flash.Release()
		}
		if fx.casing != nil {
			fx.casing.Release()
		}
		delete(c.sockets, name)
	}
}
