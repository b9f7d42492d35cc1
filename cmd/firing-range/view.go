package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/engine"
	"github.com/lixenwraith/ordnance/feedback"
	"github.com/lixenwraith/ordnance/parameter"
	"github.com/lixenwraith/ordnance/vmath"
)

const (
	glyphGround      = '_'
	glyphEmplacement = '#'
	glyphTarget      = 'T'
	glyphWreck       = 'x'
	glyphShell       = '*'
	glyphEffect      = '+'
)

var (
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleGround = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleWreck  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// plot draws a side view of the range: X down range across, Z altitude up
type plot struct {
	screen tcell.Screen
	rng    *firingRange

	minX, maxX float64
	maxZ       float64 // Grows to fit the highest arc seen
}

func newPlot(screen tcell.Screen, r *firingRange) *plot {
	p := &plot{screen: screen, rng: r, minX: -parameter.RangeViewMinSpan / 4, maxZ: parameter.RangeViewMinSpan}
	p.maxX = parameter.RangeViewMinSpan
	for _, t := range r.world.targets {
		p.maxX = math.Max(p.maxX, t.loc.X)
	}
	for _, st := range r.stations {
		p.maxX = math.Max(p.maxX, st.aim.X)
	}
	p.maxX *= 1.1
	return p
}

// header rows: one per station plus the clock line
func (p *plot) headerRows() int { return len(p.rng.stations) + 1 }

// cell maps a world location to a screen cell inside the plot area
func (p *plot) cell(loc vmath.Vec3F) (int, int, bool) {
	w, h := p.screen.Size()
	top := p.headerRows() + parameter.RangeViewMarginCells
	bottom := h - 1 - parameter.RangeViewMarginCells
	left := parameter.RangeViewMarginCells
	right := w - 1 - parameter.RangeViewMarginCells
	if bottom <= top || right <= left {
		return 0, 0, false
	}
	fx := (loc.X - p.minX) / (p.maxX - p.minX)
	fz := vmath.Clamp01(loc.Z / p.maxZ)
	if fx < 0 || fx > 1 {
		return 0, 0, false
	}
	x := left + int(math.Round(fx*float64(right-left)))
	y := bottom - int(math.Round(fz*float64(bottom-top)))
	return x, y, true
}

func (p *plot) put(x, y int, r rune, style tcell.Style) {
	p.screen.SetContent(x, y, r, nil, style)
}

func (p *plot) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		p.put(x+i, y, r, style)
	}
}

func rgbStyle(c core.RGB) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// draw renders one frame
func (p *plot) draw() {
	s := p.screen
	s.Clear()
	now := p.rng.Now()

	for i, st := range p.rng.stations {
		ws := st.weapon.Stats()
		line := fmt.Sprintf("%-12s %-8s %-10s mag %2d/%-2d shell %-5s shots %4d",
			st.def.Name, st.kind, st.weapon.State(), st.weapon.Magazine(), st.weapon.Capacity(),
			ws.Shell.Load(), ws.Shots.Load())
		if st.mesh.hidden != nil {
			line += fmt.Sprintf(" rack %d", st.mesh.Loaded())
		}
		p.text(0, i, line, styleStatus)
	}
	p.text(0, len(p.rng.stations), fmt.Sprintf("t=%-8s  space pause  esc quit", now.Truncate(10*time.Millisecond)), styleHeader)

	if x0, y0, ok := p.cell(vmath.Vec3F{X: p.minX}); ok {
		w, _ := s.Size()
		for x := x0; x < w-parameter.RangeViewMarginCells; x++ {
			p.put(x, y0, glyphGround, styleGround)
		}
	}
	if x, y, ok := p.cell(vmath.Vec3F{}); ok {
		p.put(x, y, glyphEmplacement, styleHeader)
	}
	for _, t := range p.rng.world.targets {
		if x, y, ok := p.cell(t.loc); ok {
			if t.Valid() {
				p.put(x, y, glyphTarget, styleTarget)
			} else {
				p.put(x, y, glyphWreck, styleWreck)
			}
		}
	}

	for _, sp := range p.rng.sprites.Visible(now) {
		if x, y, ok := p.cell(sp.pose.Location); ok {
			p.put(x, y, glyphEffect, rgbStyle(sp.tint))
		}
	}

	for _, st := range p.rng.stations {
		for sh := range st.shells.live {
			if sh.flight == nil {
				continue
			}
			loc := sh.Position(now)
			p.maxZ = math.Max(p.maxZ, loc.Z*1.1)
			if x, y, ok := p.cell(loc); ok {
				p.put(x, y, glyphShell, rgbStyle(feedback.ShellTint(sh.shot.Shell, sh.shot.Data.Calibre)))
			}
		}
	}

	s.Show()
}

// pollEvents forwards screen events until the screen finishes or quit closes
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// runPlot drives the range in real time on screen until d passes or the user quits
func runPlot(screen tcell.Screen, r *firingRange, d time.Duration) {
	p := newPlot(screen, r)
	done := make(chan struct{}, 1)

	driver := engine.NewFrameDriver(engine.NewMonotonicTimeProvider(), r.cfg.Tick, func(dt time.Duration) {
		if d > 0 && r.elapsed >= d {
			select {
			case done <- struct{}{}:
			default:
			}
			return
		}
		r.Step(dt)
		p.draw()
	})

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	core.Go(func() { pollEvents(screen, events, quit) })

	driver.Start()
	defer driver.Stop()

	for {
		select {
		case <-done:
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
					if driver.IsPaused() {
						driver.Resume()
					} else {
						driver.Pause()
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}
}
