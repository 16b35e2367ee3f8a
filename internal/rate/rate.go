// Package rate turns cumulative byte counters into per-second rates.
package rate

import (
	"time"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Channel names the two counters a source can carry.
const (
	In  = "in"  // disk read / net rx
	Out = "out" // disk write / net tx
)

// minElapsed guards against a zero or negative clock delta between ticks.
const minElapsed = 1e-3

type key struct {
	src     metrics.SourceID
	channel string
}

type sample struct {
	value uint64
	at    time.Time
}

// Calculator diffs timestamped counter samples into rates. The first
// sample for a key only seeds the baseline. A counter going backwards
// (reset, wraparound, NIC switch) rebases and reports 0 for that tick.
// Not safe for concurrent use; it is owned by the sampler loop.
type Calculator struct {
	prev map[key]sample
}

func NewCalculator() *Calculator {
	return &Calculator{prev: make(map[key]sample)}
}

// Rate returns the per-second rate between value and the previous
// sample for (src, channel), then stores value as the new baseline.
func (c *Calculator) Rate(src metrics.SourceID, channel string, value uint64, at time.Time) float64 {
	k := key{src: src, channel: channel}
	prev, ok := c.prev[k]
	c.prev[k] = sample{value: value, at: at}
	if !ok {
		return 0
	}
	if value < prev.value {
		return 0
	}
	elapsed := at.Sub(prev.at).Seconds()
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return float64(value-prev.value) / elapsed
}
