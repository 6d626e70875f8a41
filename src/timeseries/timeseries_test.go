package timeseries

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func TestThroughputWindow(t *testing.T) {
	w := NewThroughputWindow(10 * time.Second)

	got := []int{
		w.Append(at(0)),
		w.Append(at(3)),
		w.Append(at(9)),
		w.Append(at(10)), // evicts 0
		w.Append(at(19)), // evicts 3 and 9
		w.Append(at(40)), // evicts everything older
	}
	assert.Equal(t, []int{1, 2, 3, 3, 2, 1}, got)
	assert.Equal(t, at(0), w.Start())
	assert.Equal(t, 1, w.Len())
}

func TestThroughputWindowBound(t *testing.T) {
	w := NewThroughputWindow(time.Hour)
	instants := []int{0, 100, 1800, 3599, 3600, 3601, 7000, 7000, 7200, 20000}
	for _, s := range instants {
		w.Append(at(s))
		if w.Len() > 1 {
			assert.Less(t, w.builds[len(w.builds)-1].Sub(w.builds[0]), time.Hour)
		}
	}
}

func TestThroughputNonPositiveWindow(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Minute} {
		w := NewThroughputWindow(d)
		assert.Equal(t, 1, w.Append(at(0)))
		assert.Equal(t, 1, w.Append(at(0)))
		assert.Equal(t, 1, w.Append(at(5)))
	}
}

func collect(c *ConcurrencyTracker) []Event {
	return slices.Collect(c.Events())
}

func TestConcurrencyExample(t *testing.T) {
	c := NewConcurrencyTracker()
	c.Append(at(1), at(5))
	c.Append(at(2), at(3))
	c.Append(at(6), at(8))

	assert.Equal(t, []Event{
		{at(1), 1},
		{at(2), 2},
		{at(3), 1},
		{at(5), 0},
		{at(6), 1},
		{at(8), 0},
	}, collect(c))

	// Replaying again yields the same series.
	assert.Equal(t, collect(c), collect(c))
}

func TestConcurrencyTieBreak(t *testing.T) {
	// The first build finishes exactly when the second starts: it is retired
	// before the start is counted.
	c := NewConcurrencyTracker()
	c.Append(at(0), at(5))
	c.Append(at(5), at(9))

	assert.Equal(t, []Event{
		{at(0), 1},
		{at(5), 0},
		{at(5), 1},
		{at(9), 0},
	}, collect(c))

	peak, ok := c.Peak()
	require.True(t, ok)
	assert.Equal(t, Event{at(0), 1}, peak)
}

func TestConcurrencyConservation(t *testing.T) {
	intervals := []Interval{
		{at(0), at(30)},
		{at(2), at(4)},
		{at(3), at(50)},
		{at(4), at(6)}, // starts as {2,4} finishes
		{at(10), at(11)},
		{at(12), at(20)},
		{at(12), at(13)},
		{at(20), at(25)}, // starts as {12,20} finishes
		{at(30), at(35)}, // starts as {0,30} finishes
		{at(40), at(45)},
	}
	c := NewConcurrencyTracker()
	for _, iv := range intervals {
		c.Append(iv.Start, iv.Finish)
	}

	events := collect(c)
	require.Len(t, events, 2*len(intervals))

	// The last event at each instant settles the count there.
	settled := map[time.Time]int{}
	for i, ev := range events {
		if i > 0 {
			assert.False(t, ev.At.Before(events[i-1].At), "events must be time ordered")
		}
		settled[ev.At] = ev.Count
	}
	for instant, got := range settled {
		want := 0
		for _, iv := range intervals {
			if !iv.Start.After(instant) && iv.Finish.After(instant) {
				want++
			}
		}
		assert.Equal(t, want, got, "count at %v", instant.Sub(t0))
	}
	assert.Equal(t, 0, events[len(events)-1].Count)
}

func TestConcurrencyPeak(t *testing.T) {
	c := NewConcurrencyTracker()
	_, ok := c.Peak()
	assert.False(t, ok)

	c.Append(at(1), at(5))
	c.Append(at(2), at(3))
	c.Append(at(6), at(8))

	peak, ok := c.Peak()
	require.True(t, ok)
	assert.Equal(t, Event{at(2), 2}, peak)
	assert.Equal(t, 3, c.Len())
}

func TestConcurrencyEarlyStop(t *testing.T) {
	c := NewConcurrencyTracker()
	c.Append(at(1), at(5))
	c.Append(at(2), at(3))

	var first []Event
	for ev := range c.Events() {
		first = append(first, ev)
		if len(first) == 2 {
			break
		}
	}
	assert.Len(t, first, 2)
}
