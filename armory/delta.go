package armory

import "time"

// BehaviourDelta is a named additive stat adjustment applied by a gameplay modifier
type BehaviourDelta struct {
	Name             string        `mapstructure:"name" json:"name"`
	Damage           float64       `mapstructure:"damage" json:"damage,omitempty"`
	Range            float64       `mapstructure:"range" json:"range,omitempty"`
	Accuracy         float64       `mapstructure:"accuracy" json:"accuracy,omitempty"`
	MagCapacity      int           `mapstructure:"magCapacity" json:"magCapacity,omitempty"`
	ArmorPen         float64       `mapstructure:"armorPen" json:"armorPen,omitempty"`
	ArmorPenMaxRange float64       `mapstructure:"armorPenMaxRange" json:"armorPenMaxRange,omitempty"`
	Cooldown         time.Duration `mapstructure:"cooldown" json:"cooldown,omitempty"`
	ReloadTime       time.Duration `mapstructure:"reloadTime" json:"reloadTime,omitempty"`
	AOERange         float64       `mapstructure:"aoeRange" json:"aoeRange,omitempty"`
	AOEDamage        float64       `mapstructure:"aoeDamage" json:"aoeDamage,omitempty"`
}

// addTo returns d with every field of the delta added
func (bd BehaviourDelta) addTo(d WeaponData) WeaponData {
	d.Damage += bd.Damage
	d.Range += bd.Range
	d.Accuracy += bd.Accuracy
	d.MagCapacity += bd.MagCapacity
	d.ArmorPen += bd.ArmorPen
	d.ArmorPenMaxRange += bd.ArmorPenMaxRange
	d.Cooldown += bd.Cooldown
	d.ReloadTime += bd.ReloadTime
	d.Explosive.AOERange += bd.AOERange
	d.Explosive.AOEDamage += bd.AOEDamage
	return d
}
