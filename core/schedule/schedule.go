// Package schedule runs deferred callbacks against an externally driven
// clock. Callbacks never run on their own goroutine, they run inside
// Advance on the caller's frame.
package schedule

import (
	"sort"
	"time"
)

// Func is a deferred callback
type Func func()

type entry struct {
	due        time.Duration
	seq        uint64
	generation uint64
	fn         Func
}

// Queue holds callbacks ordered by due time. Resetting the queue bumps a
// generation counter so callbacks queued earlier become no-ops even when
// they are already being drained.
type Queue struct {
	now        time.Duration
	seq        uint64
	generation uint64
	entries    []entry
}

// Now returns the last time the queue was advanced to
func (q *Queue) Now() time.Duration {
	return q.now
}

// Generation returns the current generation
func (q *Queue) Generation() uint64 {
	return q.generation
}

// Pending returns the amount of callbacks waiting to run
func (q *Queue) Pending() int {
	return len(q.entries)
}

// After queues fn to run once the clock passes now+delay
func (q *Queue) After(delay time.Duration, fn Func) {
	if delay < 0 {
		delay = 0
	}
	q.seq++
	q.entries = append(q.entries, entry{
		due:        q.now + delay,
		seq:        q.seq,
		generation: q.generation,
		fn:         fn,
	})
	sort.SliceStable(q.entries, func(i, j int) bool {
		if q.entries[i].due == q.entries[j].due {
			return q.entries[i].seq < q.entries[j].seq
		}
		return q.entries[i].due < q.entries[j].due
	})
}

// Advance moves the clock to now and runs every due callback in order.
// Callbacks may queue further callbacks; those run in the same call
// when they are already due.
func (q *Queue) Advance(now time.Duration) int {
	if now > q.now {
		q.now = now
	}
	ran := 0
	for len(q.entries) > 0 && q.entries[0].due <= q.now {
		e := q.entries[0]
		q.entries = q.entries[1:]
		if e.generation != q.generation {
			continue
		}
		e.fn()
		ran++
	}
	return ran
}

// Reset drops every queued callback
func (q *Queue) Reset() {
	q.generation++
	q.entries = nil
}
