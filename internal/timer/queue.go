package timer

import (
	"container/heap"
	"time"
)

// Scheduler runs fn once, no earlier than d from now. It is fire-and-forget:
// callers guard against stale effects themselves.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Queue is a Scheduler whose callbacks fire only from RunDue.
type Queue struct {
	clock   Clock
	pending entryHeap
	seq     uint64
}

// NewQueue creates an empty queue reading time from clock.
func NewQueue(clock Clock) *Queue {
	return &Queue{clock: clock}
}

// After schedules fn to run at the first RunDue call at or after now+d.
func (q *Queue) After(d time.Duration, fn func()) {
	q.seq++
	heap.Push(&q.pending, entry{due: q.clock.Now().Add(d), seq: q.seq, fn: fn})
}

// Len returns the number of callbacks still waiting.
func (q *Queue) Len() int {
	return len(q.pending)
}

// RunDue fires every callback whose due time has passed, earliest first
// (ties in scheduling order), and returns how many ran. Callbacks scheduled
// while draining run in the same call if they are already due.
func (q *Queue) RunDue() int {
	now := q.clock.Now()
	ran := 0
	for len(q.pending) > 0 && !q.pending[0].due.After(now) {
		e := heap.Pop(&q.pending).(entry)
		e.fn()
		ran++
	}
	return ran
}

type entry struct {
	due time.Time
	seq uint64
	fn  func()
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}
