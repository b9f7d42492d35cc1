package audio

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/ordnance/parameter"
)

// OpenSpeaker starts the system speaker pulling from the engine
func (e *Engine) OpenSpeaker() error {
	rate := e.Format().SampleRate
	if err := speaker.Init(rate, rate.N(parameter.AudioSpeakerBuffer)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(e)
	return nil
}

// CloseSpeaker stops playback
func (e *Engine) CloseSpeaker() {
	speaker.Clear()
	speaker.Close()
}

// Capture records the mix offline, one simulation step at a time
type Capture struct {
	engine *Engine
	buf    *beep.Buffer
	owed   float64 // Fractional samples carried between steps
}

func (e *Engine) NewCapture() *Capture {
	return &Capture{engine: e, buf: beep.NewBuffer(e.Format())}
}

// Advance pulls dt worth of mixed samples into the capture
func (c *Capture) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	exact := dt.Seconds()*float64(c.engine.Format().SampleRate) + c.owed
	n := int(exact)
	c.owed = exact - float64(n)
	if n > 0 {
		c.buf.Append(beep.Take(n, c.engine))
	}
}

// Len returns captured samples
func (c *Capture) Len() int { return c.buf.Len() }

// Peak returns the largest absolute sample in the capture
func (c *Capture) Peak() float64 {
	s := c.buf.Streamer(0, c.buf.Len())
	var chunk [512][2]float64
	peak := 0.0
	for {
		n, ok := s.Stream(chunk[:])
		for i := range n {
			peak = max(peak, math.Abs(chunk[i][0]), math.Abs(chunk[i][1]))
		}
		if !ok || n == 0 {
			return peak
		}
	}
}

// WriteWAV encodes the capture
func (c *Capture) WriteWAV(w io.WriteSeeker) error {
	if err := wav.Encode(w, c.buf.Streamer(0, c.buf.Len()), c.buf.Format()); err != nil {
		return fmt.Errorf("audio: encode wav: %w", err)
	}
	return nil
}
