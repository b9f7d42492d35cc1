package trajectory

import (
	"math"
	"time"

	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// ArcParams tunes the apex height of arched shots
type ArcParams struct {
	// Zero values select the defaults: multiplier 1, ArcApexHeightMin, ArcBaseHeightRatio
	HeightMultiplier float64 `mapstructure:"heightMultiplier" json:"heightMultiplier"`
	HeightOffset     float64 `mapstructure:"heightOffset" json:"heightOffset"`
	MinHeight        float64 `mapstructure:"minHeight" json:"minHeight"`
	BaseHeightRatio  float64 `mapstructure:"baseHeightRatio" json:"baseHeightRatio"`
}

func (p ArcParams) withDefaults() ArcParams {
	if p.HeightMultiplier == 0 {
		p.HeightMultiplier = 1
	}
	if p.MinHeight <= 0 {
		p.MinHeight = parameter.ArcApexHeightMin
	}
	if p.BaseHeightRatio <= 0 {
		p.BaseHeightRatio = parameter.ArcBaseHeightRatio
	}
	return p
}

// ApexHeight is the clearance above the higher endpoint for a horizontal distance
func (p ArcParams) ApexHeight(horizontal float64) float64 {
	p = p.withDefaults()
	return max(horizontal*p.BaseHeightRatio*p.HeightMultiplier+p.HeightOffset, p.MinHeight)
}

// Arc is the single-stage lob: horizontal motion is linear and the vertical
// profile is the endpoint lerp plus a parabolic bump 4B·u(1-u)
type Arc struct {
	from, to vmath.Vec3F
	apex     float64 // Clearance above the higher endpoint
	bump     float64 // B, solved so the peak clears the higher endpoint by apex
	dur      time.Duration
}

// NewArc plans an arc at speed; flights shorter than FlightDurationMin resolve instantly
func NewArc(from, to vmath.Vec3F, speed float64, p ArcParams) *Arc {
	a := &Arc{from: from, to: to}
	a.apex = p.ApexHeight(vmath.V3FDist2D(from, to))
	a.bump = solveBump(to.Z-from.Z, a.apex)

	a.dur = travelTime(a.length(), speed)
	if a.dur < parameter.FlightDurationMin {
		a.dur = 0
	}
	return a
}

// solveBump finds B such that max over u of (dz·u + 4B·u(1-u)) equals max(dz, 0) + h
// The peak value is (dz+4B)²/16B, which gives a quadratic in B; the larger root keeps the peak inside [0, 1]
func solveBump(dz, h float64) float64 {
	k := max(dz, 0) + h
	if k <= 0 {
		return 0
	}
	return (2*k - dz + 2*math.Sqrt(k*(k-dz))) / 4
}

func (a *Arc) length() float64 {
	length := 0.0
	prev := a.from
	for i := 1; i <= vmath.CurveSamples; i++ {
		p := a.at(float64(i) / vmath.CurveSamples)
		length += vmath.V3FDist(prev, p)
		prev = p
	}
	return length
}

func (a *Arc) at(u float64) vmath.Vec3F {
	p := vmath.V3FLerp(a.from, a.to, u)
	p.Z += a.bump * vmath.ParabolaBump(u)
	return p
}

func (a *Arc) Duration() time.Duration { return a.dur }
func (a *Arc) Stage(time.Duration) int { return 0 }
func (a *Arc) End() vmath.Vec3F        { return a.to }

// Instant reports a flight too short to animate
func (a *Arc) Instant() bool { return a.dur == 0 }

// ApexHeight is the clearance above the higher endpoint
func (a *Arc) ApexHeight() float64 { return a.apex }

func (a *Arc) Position(t time.Duration) vmath.Vec3F {
	u := fraction(t, a.dur)
	if u >= 1 {
		return a.to
	}
	return a.at(u)
}

func (a *Arc) Direction(t time.Duration) vmath.Vec3F {
	u := fraction(t, a.dur)
	d := vmath.V3FSub(a.to, a.from)
	d.Z += a.bump * 4 * (1 - 2*u)
	return vmath.V3FSafeNormal(d, vmath.Forward3F)
}

// PeakFraction is the time fraction where the vertical profile is highest
func (a *Arc) PeakFraction() float64 {
	if a.bump <= 0 {
		if a.to.Z > a.from.Z {
			return 1
		}
		return 0
	}
	return vmath.Clamp01(0.5 + (a.to.Z-a.from.Z)/(8*a.bump))
}

// TimeToApex is when the projectile reaches PeakFraction
func (a *Arc) TimeToApex() time.Duration {
	return time.Duration(a.PeakFraction() * float64(a.dur))
}

// Apex is the highest point of the path
func (a *Arc) Apex() vmath.Vec3F {
	return a.at(a.PeakFraction())
}
