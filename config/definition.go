package config

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/ordnance/armory"
	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/launcher"
)

// Definition describes one weapon: stats, ammunition, fire mode and launcher
type Definition struct {
	Name     string   `json:"name" mapstructure:"name"`
	Launcher string   `json:"launcher" mapstructure:"launcher"`
	Mode     string   `json:"mode" mapstructure:"mode"`
	Sockets  []string `json:"sockets" mapstructure:"sockets"`
	Shells   []string `json:"shells" mapstructure:"shells"`
	Shell    string   `json:"shell" mapstructure:"shell"`

	Burst        firecontrol.BurstParams `json:"burst" mapstructure:"burst"`
	// Flux percentages; unset takes the fire-control default
	CooldownFlux *float64                `json:"cooldownFlux,omitempty" mapstructure:"cooldownFlux"`
	ReloadFlux   *float64                `json:"reloadFlux,omitempty" mapstructure:"reloadFlux"`

	Data armory.WeaponData `json:"data" mapstructure:"data"`
	// Overrides customize shells by name; WeaponData keys them by ShellType
	Overrides  map[string]armory.ShellOverride `json:"overrides,omitempty" mapstructure:"overrides"`
	Descriptor launcher.Descriptor             `json:"descriptor" mapstructure:"descriptor"`

	// PoolCapacity sizes the impact feedback pool; 0 derives it from the fire rate
	PoolCapacity int `json:"poolCapacity" mapstructure:"poolCapacity"`
	// Aim is where the range fires this weapon
	Aim Point `json:"aim" mapstructure:"aim"`
}

// ApplyDefaults fills the launcher, mode and shell selection left empty
func (d *Definition) ApplyDefaults() {
	if d.Launcher == "" {
		d.Launcher = launcher.KindDirect.String()
	}
	if d.Mode == "" {
		d.Mode = firecontrol.ModeSingle.String()
	}
	if len(d.Shells) == 0 {
		d.Shells = []string{armory.ShellAP.String()}
	}
	if d.Shell == "" {
		d.Shell = d.Shells[0]
	}
}

// Kind parses the launcher kind
func (d Definition) Kind() (launcher.Kind, error) {
	return launcher.ParseKind(d.Launcher)
}

// FireMode parses the fire mode
func (d Definition) FireMode() (firecontrol.Mode, error) {
	return firecontrol.ParseMode(d.Mode)
}

// ShellSelection parses the allowed set and the initial shell
func (d Definition) ShellSelection() (armory.ShellSet, armory.ShellType, error) {
	var set armory.ShellSet
	for _, name := range d.Shells {
		t, err := armory.ParseShellType(name)
		if err != nil {
			return 0, armory.ShellNone, err
		}
		set = set.With(t)
	}
	current, err := armory.ParseShellType(d.Shell)
	if err != nil {
		return 0, armory.ShellNone, err
	}
	if !set.Has(current) {
		return 0, armory.ShellNone, fmt.Errorf("%w: %s", armory.ErrShellNotAllowed, current)
	}
	return set, current, nil
}

// WeaponData returns the stat block with Overrides keyed by shell type
func (d Definition) WeaponData() (armory.WeaponData, error) {
	data := d.Data
	data.ShellOverrides = nil
	if len(d.Overrides) == 0 {
		return data, nil
	}
	data.ShellOverrides = make(map[armory.ShellType]armory.ShellOverride, len(d.Overrides))
	for name, o := range d.Overrides {
		t, err := armory.ParseShellType(name)
		if err != nil {
			return armory.WeaponData{}, fmt.Errorf("override %q: %w", name, err)
		}
		data.ShellOverrides[t] = o
	}
	return data, nil
}

// FireConfig fills the parsed parts of a firecontrol.Config; collaborators are left to the caller
func (d Definition) FireConfig() (firecontrol.Config, error) {
	mode, err := d.FireMode()
	if err != nil {
		return firecontrol.Config{}, err
	}
	set, current, err := d.ShellSelection()
	if err != nil {
		return firecontrol.Config{}, err
	}
	data, err := d.WeaponData()
	if err != nil {
		return firecontrol.Config{}, err
	}
	return firecontrol.Config{
		Sockets:      append([]string(nil), d.Sockets...),
		Mode:         mode,
		Burst:        d.Burst,
		CooldownFlux: d.CooldownFlux,
		ReloadFlux:   d.ReloadFlux,
		Data:         data,
		Shells:       set,
		Shell:        current,
	}, nil
}

func (d Definition) label() string {
	if strings.TrimSpace(d.Name) == "" {
		return "<unnamed>"
	}
	return d.Name
}
