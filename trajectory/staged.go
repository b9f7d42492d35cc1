package trajectory

import (
	"math"
	"time"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

// StagedParams tunes the three-stage vertical rocket
// Tilt is degrees from vertical toward the target; zero fields take the parameter defaults
type StagedParams struct {
	MinApexHeight    float64 `mapstructure:"minApexHeight" json:"minApexHeight"`
	MaxApexHeight    float64 `mapstructure:"maxApexHeight" json:"maxApexHeight"`
	MinTilt          float64 `mapstructure:"minTilt" json:"minTilt"`
	MaxTilt          float64 `mapstructure:"maxTilt" json:"maxTilt"`
	Curvature        float64 `mapstructure:"curvature" json:"curvature"`
	ArcDistance      float64 `mapstructure:"arcDistance" json:"arcDistance"`
	ArcHeight        float64 `mapstructure:"arcHeight" json:"arcHeight"`
	AscentSpeedMlt   float64 `mapstructure:"ascentSpeedMlt" json:"ascentSpeedMlt"`
	ArcSpeedMlt      float64 `mapstructure:"arcSpeedMlt" json:"arcSpeedMlt"`
	TerminalSpeedMlt float64 `mapstructure:"terminalSpeedMlt" json:"terminalSpeedMlt"`
}

const (
	StageAscent = iota
	StageMiniArc
	StageTerminal
)

// stagedMinLeg keeps stage boundaries strictly increasing for degenerate geometry
const stagedMinLeg = time.Millisecond

// Staged is ascent, mini-arc, then straight terminal intercept
type Staged struct {
	path
	apexHeight float64
	tilt       float64
}

// NewStaged draws apex height and tilt once, then lays out the three legs
func NewStaged(from, to vmath.Vec3F, speed float64, p StagedParams, rng *core.RNG) *Staged {
	speed = resolveSpeed(speed)
	if p.MinApexHeight <= 0 && p.MaxApexHeight <= 0 {
		p.MinApexHeight = parameter.StagedApexHeightDefault
		p.MaxApexHeight = parameter.StagedApexHeightDefault
	}
	if p.Curvature <= 0 {
		p.Curvature = parameter.StagedCurvatureDefault
	}
	if p.ArcDistance <= 0 {
		p.ArcDistance = parameter.StagedArcDistanceDefault
	}
	if p.ArcHeight <= 0 {
		p.ArcHeight = parameter.StagedArcHeightDefault
	}

	lo, hi := min(p.MinApexHeight, p.MaxApexHeight), max(p.MinApexHeight, p.MaxApexHeight)
	height := max(rng.Range(lo, hi), 0)
	tlo, thi := min(p.MinTilt, p.MaxTilt), max(p.MinTilt, p.MaxTilt)
	tilt := vmath.Clamp(rng.Range(tlo, thi), 0, 89)

	toward := vmath.V3FSafeNormal(vmath.V3FFlat(vmath.V3FSub(to, from)), vmath.Forward3F)

	// Stage 1: climb straight up, bending toward the tilted apex
	apex := vmath.V3FAdd(from, vmath.Vec3F{Z: height})
	apex = vmath.V3FAdd(apex, vmath.V3FScale(toward, height*math.Tan(tilt*vmath.DegToRad)))
	climb := vmath.V3FAdd(from, vmath.Vec3F{Z: height * vmath.Clamp01(p.Curvature)})
	ascent := segment{p0: from, p1: climb, p2: apex}

	// Stage 2: carry the ascent heading forward, then bend onto the target line
	exit := vmath.V3FSafeNormal(vmath.V3FSub(apex, climb), vmath.Up3F)
	remaining := vmath.V3FDist(apex, to)
	arcLen := min(p.ArcDistance, remaining*0.5)
	turn := vmath.V3FAdd(apex, vmath.V3FScale(vmath.V3FSafeNormal(vmath.V3FSub(to, apex), toward), arcLen))
	bend := vmath.V3FAdd(apex, vmath.V3FScale(exit, min(p.ArcHeight, arcLen)))
	miniArc := segment{p0: apex, p1: bend, p2: turn}

	s := &Staged{apexHeight: height, tilt: tilt}
	s.segs = []segment{ascent, miniArc, straight(turn, to)}
	s.schedule([]time.Duration{
		travelTime(ascent.length(), speed*speedMlt(p.AscentSpeedMlt)),
		travelTime(miniArc.length(), speed*speedMlt(p.ArcSpeedMlt)),
		travelTime(s.segs[StageTerminal].length(), speed*speedMlt(p.TerminalSpeedMlt)),
	}, stagedMinLeg)
	return s
}

func (s *Staged) ApexHeight() float64 { return s.apexHeight }
func (s *Staged) Tilt() float64       { return s.tilt }
