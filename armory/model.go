package armory

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/ordnance/diag"
	"github.com/lixenwraith/ordnance/parameter"
)

// ShellListener is notified after the active shell type changes
type ShellListener func(previous, current ShellType)

// Model owns a weapon's base data, shell selection, applied deltas and upgrades
type Model struct {
	base     WeaponData
	data     WeaponData // base plus applied deltas, rebuilt on every change
	allowed  ShellSet
	current  ShellType
	rangeMlt float64

	applied   map[string][]BehaviourDelta
	listeners []ShellListener
	diag      *diag.Reporter
}

// NewModel validates the selection against the allowed set
func NewModel(data WeaponData, allowed ShellSet, current ShellType, rep *diag.Reporter) (*Model, error) {
	if allowed == 0 {
		return nil, ErrEmptyShellSet
	}
	if !allowed.Has(current) {
		return nil, fmt.Errorf("%w: %s", ErrShellNotAllowed, current)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	base := data.clone()
	return &Model{
		base:     base,
		data:     base.clone(),
		allowed:  allowed,
		current:  current,
		rangeMlt: 1,
		applied:  make(map[string][]BehaviourDelta),
		diag:     rep,
	}, nil
}

// RawData returns base stats with applied behaviour deltas and no shell adjustment
func (m *Model) RawData() WeaponData {
	return m.data.clone()
}

// ShellAdjustedData computes a fresh view for the active shell type
func (m *Model) ShellAdjustedData() WeaponData {
	return m.AdjustedFor(m.current)
}

// AdjustedFor computes the view for any shell type, allowed or not
func (m *Model) AdjustedFor(shell ShellType) WeaponData {
	d := m.data
	d.ShellOverrides = nil
	d.Range *= m.rangeMlt

	prof := DefaultShellProfile(shell)
	ov, hasOverride := m.data.ShellOverrides[shell]
	if hasOverride && ov.Profile != nil {
		prof = *ov.Profile
	}
	d = prof.apply(d)

	if hasOverride && shell.substitutesVisuals() {
		d.Visuals = d.Visuals.merge(ov.Visuals)
	}
	return d.clampView()
}

func (m *Model) CurrentShell() ShellType { return m.current }

func (m *Model) AllowedShells() ShellSet { return m.allowed }

func (m *Model) RangeMultiplier() float64 { return m.rangeMlt }

// OnShellChanged registers a listener called after every successful change
func (m *Model) OnShellChanged(fn ShellListener) {
	if fn != nil {
		m.listeners = append(m.listeners, fn)
	}
}

// ChangeShellType selects t if allowed; selecting the active type succeeds silently
func (m *Model) ChangeShellType(t ShellType) bool {
	if !m.allowed.Has(t) {
		m.diag.Report(diag.KindInvariant, "shell type not allowed",
			"shell", t.String(), "current", m.current.String())
		return false
	}
	if t == m.current {
		return true
	}
	prev := m.current
	m.current = t
	for _, fn := range m.listeners {
		fn(prev, t)
	}
	return true
}

// ApplyBehaviourDelta adds or removes a delta; removal must match a prior apply.
// Removal drops the most recent apply of that name, whatever values d carries
func (m *Model) ApplyBehaviourDelta(d BehaviourDelta, isAdd bool) error {
	if isAdd {
		m.applied[d.Name] = append(m.applied[d.Name], d)
		m.rebuild()
		return nil
	}
	stack := m.applied[d.Name]
	if len(stack) == 0 {
		m.diag.Report(diag.KindInvariant, "behaviour delta removed without apply", "delta", d.Name)
		return fmt.Errorf("%w: %q", ErrDeltaNotApplied, d.Name)
	}
	if len(stack) == 1 {
		delete(m.applied, d.Name)
	} else {
		m.applied[d.Name] = stack[:len(stack)-1]
	}
	m.rebuild()
	return nil
}

// rebuild sums applied deltas onto the base in name order so equal applied sets
// always produce bit-identical data
func (m *Model) rebuild() {
	names := make([]string, 0, len(m.applied))
	for name := range m.applied {
		names = append(names, name)
	}
	slices.Sort(names)

	d := m.base.clone()
	for _, name := range names {
		for _, bd := range m.applied[name] {
			d = bd.addTo(d)
		}
	}
	m.data = d
}

// AppliedDeltas returns how many times the named delta is currently applied
func (m *Model) AppliedDeltas(name string) int {
	return len(m.applied[name])
}

// AddShellType extends the allowed set, returns true when t was new
func (m *Model) AddShellType(t ShellType) bool {
	if !t.Valid() || m.allowed.Has(t) {
		return false
	}
	m.allowed = m.allowed.With(t)
	return true
}

// SetRangeMultiplier raises the range multiplier; lower or equal values are ignored
func (m *Model) SetRangeMultiplier(mlt float64) (bool, error) {
	if mlt < 1 {
		m.diag.Report(diag.KindInvariant, "range multiplier below one", "multiplier", mlt)
		return false, fmt.Errorf("%w: %v", ErrInvalidRangeMult, mlt)
	}
	mlt = min(mlt, parameter.RangeMultiplierMax)
	if mlt <= m.rangeMlt {
		return false, nil
	}
	m.rangeMlt = mlt
	return true, nil
}
