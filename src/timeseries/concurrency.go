package timeseries

import (
	"iter"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"
)

// Interval is the time a single build spent running.
type Interval struct {
	Start  time.Time
	Finish time.Time
}

// Event is a change in the number of builds in flight.
type Event struct {
	At    time.Time
	Count int
}

// ConcurrencyTracker replays build intervals as a merged stream of start and
// finish events. Intervals must be appended in non-decreasing start order.
type ConcurrencyTracker struct {
	intervals []Interval
}

// NewConcurrencyTracker returns an empty tracker.
func NewConcurrencyTracker() *ConcurrencyTracker {
	return &ConcurrencyTracker{}
}

// Append records one build interval.
func (c *ConcurrencyTracker) Append(start, finish time.Time) {
	c.intervals = append(c.intervals, Interval{Start: start, Finish: finish})
}

// Len returns the number of recorded intervals.
func (c *ConcurrencyTracker) Len() int { return len(c.intervals) }

// Events yields the concurrency level after every start and finish, in time
// order. Intervals are half-open: a build finishing at or before the next
// start is retired first, so it is not counted at that start. Finishes left
// pending after the last start are drained at the end.
//
// Each call replays from scratch.
func (c *ConcurrencyTracker) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		pending := binaryheap.NewWith(utils.TimeComparator)

		for _, iv := range c.intervals {
			for {
				top, ok := pending.Peek()
				if !ok || iv.Start.Before(top.(time.Time)) {
					break
				}
				pending.Pop()
				if !yield(Event{At: top.(time.Time), Count: pending.Size()}) {
					return
				}
			}

			pending.Push(iv.Finish)
			if !yield(Event{At: iv.Start, Count: pending.Size()}) {
				return
			}
		}

		for !pending.Empty() {
			top, _ := pending.Pop()
			if !yield(Event{At: top.(time.Time), Count: pending.Size()}) {
				return
			}
		}
	}
}

// Peak returns the highest concurrency level reached and when it was first
// reached.
func (c *ConcurrencyTracker) Peak() (Event, bool) {
	var peak Event
	found := false
	for ev := range c.Events() {
		if !found || ev.Count > peak.Count {
			peak = ev
			found = true
		}
	}
	return peak, found
}
