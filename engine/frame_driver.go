package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/ordnance/core"
)

// FrameFunc receives the elapsed time since the previous frame
type FrameFunc func(dt time.Duration)

// FrameDriver calls a frame function on a fixed interval from its own goroutine
// Everything the frame function touches is owned by that goroutine
type FrameDriver struct {
	provider TimeProvider
	interval time.Duration
	maxDelta time.Duration
	frame    FrameFunc

	last     time.Time
	isPaused atomic.Bool

	tickCount atomic.Uint64

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewFrameDriver creates a driver; frames longer than four intervals are clamped
func NewFrameDriver(provider TimeProvider, interval time.Duration, frame FrameFunc) *FrameDriver {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &FrameDriver{
		provider: provider,
		interval: interval,
		maxDelta: interval * 4,
		frame:    frame,
		last:     provider.Now(),
		stopChan: make(chan struct{}),
	}
}

// Start begins the frame loop
func (d *FrameDriver) Start() {
	if d.running.CompareAndSwap(false, true) {
		d.wg.Add(1)
		core.Go(d.loop)
	}
}

// Stop halts the loop and waits for the in-flight frame
func (d *FrameDriver) Stop() {
	d.stopOnce.Do(func() {
		if d.running.CompareAndSwap(true, false) {
			close(d.stopChan)
			d.wg.Wait()
		}
	})
}

func (d *FrameDriver) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.Step()
		}
	}
}

// Step runs one frame synchronously; paused frames advance the reference time only
func (d *FrameDriver) Step() {
	now := d.provider.Now()
	dt := now.Sub(d.last)
	d.last = now

	if d.isPaused.Load() {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if dt > d.maxDelta {
		dt = d.maxDelta
	}
	if d.frame != nil {
		d.frame(dt)
	}
	d.tickCount.Add(1)
}

func (d *FrameDriver) Pause() { d.isPaused.Store(true) }

func (d *FrameDriver) Resume() { d.isPaused.Store(false) }

func (d *FrameDriver) IsPaused() bool { return d.isPaused.Load() }

// Ticks returns frames run since creation
func (d *FrameDriver) Ticks() uint64 { return d.tickCount.Load() }
