// Package sched implements the game-clock timer queue. Delayed work is
// scheduled as callbacks and run from Advance on the single game thread;
// nothing here blocks or spawns goroutines.
package sched

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled callback.
type TimerID uint64

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

// timerHeap orders timers by due time, then by scheduling order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].id < h[j].id
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Queue is a monotonic game clock with pending callbacks.
type Queue struct {
	now       time.Duration
	next      TimerID
	timers    timerHeap
	cancelled map[TimerID]bool
}

// New creates an empty queue at time zero.
func New() *Queue {
	return &Queue{cancelled: map[TimerID]bool{}}
}

// Now returns the current game time.
func (q *Queue) Now() time.Duration {
	return q.now
}

// After schedules fn to run once the clock has advanced by d.
// A non-positive delay runs on the next Advance.
func (q *Queue) After(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	q.next++
	heap.Push(&q.timers, &timer{id: q.next, due: q.now + d, fn: fn})
	return q.next
}

// Cancel prevents a pending callback from running. Returns false if the
// timer already ran, was already cancelled, or never existed.
func (q *Queue) Cancel(id TimerID) bool {
	if q.cancelled[id] {
		return false
	}
	for _, t := range q.timers {
		if t.id == id {
			q.cancelled[id] = true
			return true
		}
	}
	return false
}

// Advance moves the clock forward by dt and runs every callback that is
// due, in (due, schedule order). Callbacks scheduled while advancing run
// in the same call if they are already due. Returns the number run.
func (q *Queue) Advance(dt time.Duration) int {
	if dt > 0 {
		q.now += dt
	}
	ran := 0
	for len(q.timers) > 0 && q.timers[0].due <= q.now {
		t := heap.Pop(&q.timers).(*timer)
		if q.cancelled[t.id] {
			delete(q.cancelled, t.id)
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

// Len returns the number of pending, non-cancelled callbacks.
func (q *Queue) Len() int {
	return len(q.timers) - len(q.cancelled)
}

// Seconds converts a float seconds value from content into a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
