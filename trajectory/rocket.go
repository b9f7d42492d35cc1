package trajectory

import (
	"time"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// SwingParams tunes the swing-then-straight rocket
// Yaw bounds are degrees; zero speed multipliers mean 1
type SwingParams struct {
	MinYaw           float64 `mapstructure:"minYaw" json:"minYaw"`
	MaxYaw           float64 `mapstructure:"maxYaw" json:"maxYaw"`
	SwingSpeedMlt    float64 `mapstructure:"swingSpeedMlt" json:"swingSpeedMlt"`
	StraightSpeedMlt float64 `mapstructure:"straightSpeedMlt" json:"straightSpeedMlt"`
}

const (
	StageSwing = iota
	StageStraight
)

// RocketSwing opens with a yawed Bezier swing and rejoins the straight line to the target
type RocketSwing struct {
	path
	yaw float64
}

// NewRocketSwing draws a yaw magnitude in [MinYaw, MaxYaw] with a random sign
func NewRocketSwing(from, to vmath.Vec3F, speed float64, p SwingParams, rng *core.RNG) *RocketSwing {
	speed = resolveSpeed(speed)
	lo, hi := min(p.MinYaw, p.MaxYaw), max(p.MinYaw, p.MaxYaw)
	yaw := rng.Range(lo, hi) * rng.Sign()

	line := vmath.V3FSub(to, from)
	blend := vmath.V3FAdd(from, vmath.V3FScale(line, parameter.RocketSwingBlendFraction))
	reach := vmath.V3FDist(from, blend) * parameter.RocketSwingControlFraction * 2
	swingDir := vmath.V3FRotateZ(vmath.V3FSafeNormal(line, vmath.Forward3F), yaw)
	control := vmath.V3FAdd(from, vmath.V3FScale(swingDir, reach))

	r := &RocketSwing{yaw: yaw}
	r.segs = []segment{
		{p0: from, p1: control, p2: blend},
		straight(blend, to),
	}
	r.schedule([]time.Duration{
		travelTime(r.segs[StageSwing].length(), speed*speedMlt(p.SwingSpeedMlt)),
		travelTime(r.segs[StageStraight].length(), speed*speedMlt(p.StraightSpeedMlt)),
	}, time.Millisecond)
	return r
}

// Yaw is the signed opening yaw in degrees
func (r *RocketSwing) Yaw() float64 { return r.yaw }

func resolveSpeed(speed float64) float64 {
	if speed <= 0 {
		return parameter.ProjectileSpeedDefault
	}
	return speed
}

func speedMlt(m float64) float64 {
	if m <= 0 {
		return 1
	}
	return m
}
