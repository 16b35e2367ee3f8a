package rate

import (
	"testing"
	"time"

	"github.com/rawwerks/overmon/internal/metrics"
)

func TestRateSeedsThenDiffs(t *testing.T) {
	c := NewCalculator()
	base := time.Now()

	got := c.Rate(metrics.SourceNetwork, In, 100, base)
	if got != 0 {
		t.Errorf("first Rate() = %f, want 0 (seed)", got)
	}

	got = c.Rate(metrics.SourceNetwork, In, 150, base.Add(time.Second))
	if got != 50.0 {
		t.Errorf("second Rate() = %f, want 50.0", got)
	}
}

func TestRateCounterResetRebases(t *testing.T) {
	c := NewCalculator()
	base := time.Now()

	c.Rate(metrics.SourceNetwork, In, 500, base)
	got := c.Rate(metrics.SourceNetwork, In, 20, base.Add(time.Second))
	if got != 0 {
		t.Errorf("Rate() after reset = %f, want 0", got)
	}

	// The cache rebased to 20, so the next diff is against 20.
	got = c.Rate(metrics.SourceNetwork, In, 120, base.Add(2*time.Second))
	if got != 100.0 {
		t.Errorf("Rate() after rebase = %f, want 100.0", got)
	}
}

func TestRateZeroElapsedClamped(t *testing.T) {
	c := NewCalculator()
	now := time.Now()

	c.Rate(metrics.SourceDisk, Out, 100, now)
	got := c.Rate(metrics.SourceDisk, Out, 200, now)
	if got < 0 {
		t.Errorf("Rate() with zero elapsed = %f, want non-negative", got)
	}
}

func TestRateChannelsIndependent(t *testing.T) {
	c := NewCalculator()
	base := time.Now()

	c.Rate(metrics.SourceDisk, In, 1000, base)
	c.Rate(metrics.SourceDisk, Out, 5000, base)

	in := c.Rate(metrics.SourceDisk, In, 1100, base.Add(time.Second))
	out := c.Rate(metrics.SourceDisk, Out, 5200, base.Add(time.Second))
	if in != 100.0 {
		t.Errorf("in rate = %f, want 100.0", in)
	}
	if out != 200.0 {
		t.Errorf("out rate = %f, want 200.0", out)
	}
}
