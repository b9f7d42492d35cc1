package engine

import (
	"container/heap"
	"time"
)

// TimerHandle identifies a scheduled callback; zero is never issued
type TimerHandle uint64

// Scheduler is the cooperative timer capability weapons consume
// Callbacks run on the caller of Advance, never concurrently
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) TimerHandle
	// Cancel returns false when the handle already fired or was cancelled
	Cancel(h TimerHandle) bool
	Active(h TimerHandle) bool
	// Now is the elapsed simulation time
	Now() time.Duration
}

type timerEntry struct {
	due    time.Duration
	seq    uint64
	handle TimerHandle
	fn     func()
	index  int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// TimerQueue is a single-threaded timer wheel advanced by frame ticks
// Due callbacks run in deadline order, FIFO among equal deadlines
type TimerQueue struct {
	now     time.Duration
	seq     uint64
	pending timerHeap
	byID    map[TimerHandle]*timerEntry
	fired   uint64
}

func NewTimerQueue() *TimerQueue {
	return &TimerQueue{
		byID: make(map[TimerHandle]*timerEntry),
	}
}

// Schedule arms fn to run after delay; negative delays run on the next Advance
func (q *TimerQueue) Schedule(delay time.Duration, fn func()) TimerHandle {
	if fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	q.seq++
	e := &timerEntry{
		due:    q.now + delay,
		seq:    q.seq,
		handle: TimerHandle(q.seq),
		fn:     fn,
	}
	heap.Push(&q.pending, e)
	q.byID[e.handle] = e
	return e.handle
}

func (q *TimerQueue) Cancel(h TimerHandle) bool {
	e, ok := q.byID[h]
	if !ok {
		return false
	}
	delete(q.byID, h)
	heap.Remove(&q.pending, e.index)
	return true
}

func (q *TimerQueue) Active(h TimerHandle) bool {
	_, ok := q.byID[h]
	return ok
}

func (q *TimerQueue) Now() time.Duration { return q.now }

// Remaining returns time until h fires, false when h is not pending
func (q *TimerQueue) Remaining(h TimerHandle) (time.Duration, bool) {
	e, ok := q.byID[h]
	if !ok {
		return 0, false
	}
	return e.due - q.now, true
}

// Advance moves time forward by dt and runs every callback due by then
// Callbacks scheduled while advancing run in the same call if they fall due
// Returns the number of callbacks run
func (q *TimerQueue) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := q.now + dt
	ran := 0
	for q.pending.Len() > 0 && q.pending[0].due <= target {
		e := heap.Pop(&q.pending).(*timerEntry)
		delete(q.byID, e.handle)
		q.now = e.due
		e.fn()
		ran++
	}
	q.now = target
	q.fired += uint64(ran)
	return ran
}

// Pending returns the number of armed timers
func (q *TimerQueue) Pending() int { return q.pending.Len() }

// Fired returns the lifetime count of callbacks run
func (q *TimerQueue) Fired() uint64 { return q.fired }

// Clear drops every pending timer without running it
func (q *TimerQueue) Clear() {
	q.pending = nil
	clear(q.byID)
}
