package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/ordnance/firecontrol"
	"github.com/lixenwraith/ordnance/launcher"
	"github.com/lixenwraith/ordnance/parameter"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ViewPlot = "plot"
	ViewNone = "none"
)

// ValidationError lists every problem found in a configuration
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate checks the whole file and reports every problem, not only the first
func (f *File) Validate() error {
	var p problems

	if _, err := zerolog.ParseLevel(f.Log.Level); err != nil {
		p.addf("log.level: %v", err)
	}
	if f.Log.MaxSize < 0 {
		p.addf("log.maxSize: negative")
	}

	switch f.Catalog.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if f.Catalog.DSN == "" {
			p.addf("catalog.dsn: required for postgres")
		}
	default:
		p.addf("catalog.driver: unknown %q", f.Catalog.Driver)
	}

	if f.Range.Tick <= 0 {
		p.addf("range.tick: must be positive")
	}
	if f.Range.Duration < 0 {
		p.addf("range.duration: negative")
	}
	if f.Range.View != ViewPlot && f.Range.View != ViewNone {
		p.addf("range.view: unknown %q", f.Range.View)
	}
	for i, t := range f.Range.Targets {
		if t.Health <= 0 {
			p.addf("range.targets[%d]: health must be positive", i)
		}
		if t.Armor < 0 {
			p.addf("range.targets[%d]: negative armor", i)
		}
	}

	seen := make(map[string]bool, len(f.Weapons))
	for i, d := range f.Weapons {
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if key == "" {
			p.addf("weapons[%d]: name required", i)
		} else if seen[key] {
			p.addf("weapons[%d]: duplicate name %q", i, d.Name)
		}
		seen[key] = true
		d.validate(fmt.Sprintf("weapons[%d] %s", i, d.label()), &p)
	}

	if len(p) > 0 {
		return &ValidationError{Problems: p}
	}
	return nil
}

// Validate checks one definition on its own
func (d Definition) Validate() error {
	var p problems
	if strings.TrimSpace(d.Name) == "" {
		p.addf("name required")
	}
	d.validate(d.label(), &p)
	if len(p) > 0 {
		return &ValidationError{Problems: p}
	}
	return nil
}

func (d Definition) validate(at string, p *problems) {
	kind, err := d.Kind()
	if err != nil {
		p.addf("%s: %v", at, err)
	}
	mode, err := d.FireMode()
	if err != nil {
		p.addf("%s: %v", at, err)
	}
	switch mode {
	case firecontrol.ModeFixedBurst:
		if d.Burst.Count < 1 {
			p.addf("%s: burst.count must be at least 1", at)
		}
	case firecontrol.ModeRandomBurst:
		if d.Burst.Min < 1 || d.Burst.Max < d.Burst.Min {
			p.addf("%s: burst range [%d, %d] invalid", at, d.Burst.Min, d.Burst.Max)
		}
	}
	if f := d.CooldownFlux; f != nil && (*f < 0 || *f > parameter.FireFluxMax) {
		p.addf("%s: cooldownFlux %g outside [0, %g]", at, *f, parameter.FireFluxMax)
	}
	if f := d.ReloadFlux; f != nil && (*f < 0 || *f > parameter.FireFluxMax) {
		p.addf("%s: reloadFlux %g outside [0, %g]", at, *f, parameter.FireFluxMax)
	}

	if len(d.Sockets) == 0 {
		p.addf("%s: at least one socket required", at)
	}
	if _, _, err := d.ShellSelection(); err != nil {
		p.addf("%s: %v", at, err)
	}
	if _, err := d.WeaponData(); err != nil {
		p.addf("%s: %v", at, err)
	}

	data := d.Data
	if err := data.Validate(); err != nil {
		p.addf("%s: %v", at, err)
	}
	if data.Damage < 0 {
		p.addf("%s: negative damage", at)
	}
	if data.Range < 0 {
		p.addf("%s: negative range", at)
	}
	if data.Accuracy < 0 || data.Accuracy > 1 {
		p.addf("%s: accuracy %g outside [0, 1]", at, data.Accuracy)
	}
	if data.ReloadTime < 0 || data.Cooldown < 0 {
		p.addf("%s: negative timing", at)
	}
	if d.PoolCapacity < 0 {
		p.addf("%s: negative poolCapacity", at)
	}

	if kind == launcher.KindSplitter {
		if d.Descriptor.Split.ChildCount() < 1 {
			p.addf("%s: splitter needs descriptor.split.count >= 1", at)
		}
		if d.Descriptor.Split.SpreadRadius < 0 {
			p.addf("%s: negative split spread radius", at)
		}
	}
	if (kind == launcher.KindArched || kind == launcher.KindSplitter ||
		kind == launcher.KindRocket || kind == launcher.KindStaged) && data.ProjectileSpeed < 0 {
		p.addf("%s: negative projectileSpeed", at)
	}
}
