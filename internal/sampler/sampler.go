// Package sampler drives the fixed-cadence polling loop that turns raw
// source readings into published snapshots.
package sampler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rawwerks/overmon/internal/health"
	"github.com/rawwerks/overmon/internal/metrics"
	"github.com/rawwerks/overmon/internal/rate"
	"github.com/rawwerks/overmon/internal/source"
	"github.com/rawwerks/overmon/internal/store"
)

// Options configure a Sampler. Interval and Timeout must be positive
// and at least one source must be given.
type Options struct {
	Interval time.Duration
	// Timeout bounds each individual source poll.
	Timeout time.Duration
	// RecheckTicks is how many ticks an Unavailable source is skipped
	// before it is probed again (GPU hot-plug detection). 0 uses the
	// default.
	RecheckTicks int
}

const defaultRecheckTicks = 30

// Sampler polls every registered source once per tick, assembles one
// snapshot per tick (partial on failures) and publishes it. Per-source
// failures never escape a tick; they land in the health tracker and an
// absent snapshot field.
type Sampler struct {
	opts    Options
	sources []source.Source
	rates   *rate.Calculator
	store   *store.Store
	tracker *health.Tracker
	log     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	slowTicks atomic.Uint64
	ticks     atomic.Uint64

	// ticks since an Unavailable source was last probed
	skips map[metrics.SourceID]int
	// abandoned poll goroutines that have not returned yet; a source
	// with an in-flight poll is not polled again until it finishes
	inflight map[metrics.SourceID]chan struct{}
}

// New validates opts and wires a sampler. Invalid options are a
// construction-time error; nothing is polled until Start.
func New(opts Options, sources []source.Source, st *store.Store, tracker *health.Tracker, log *zap.Logger) (*Sampler, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("sampler: interval must be positive, got %v", opts.Interval)
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("sampler: poll timeout must be positive, got %v", opts.Timeout)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sampler: no sources enabled")
	}
	if opts.RecheckTicks <= 0 {
		opts.RecheckTicks = defaultRecheckTicks
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{
		opts:     opts,
		sources:  sources,
		rates:    rate.NewCalculator(),
		store:    st,
		tracker:  tracker,
		log:      log,
		skips:    make(map[metrics.SourceID]int),
		inflight: make(map[metrics.SourceID]chan struct{}),
	}, nil
}

// Start launches the tick loop. Calling Start on a running sampler is a
// no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

// Stop cancels the loop and waits for the in-flight tick to finish, up
// to a grace period, then returns regardless. Safe to call repeatedly.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(s.opts.Timeout + time.Second):
		s.log.Warn("sampler stop grace period elapsed, abandoning tick")
	}
}

// SlowTicks reports how many ticks overran the sampling interval.
func (s *Sampler) SlowTicks() uint64 { return s.slowTicks.Load() }

// Ticks reports how many ticks have completed.
func (s *Sampler) Ticks() uint64 { return s.ticks.Load() }

// run fires ticks on a self-correcting schedule: an overrun tick is
// followed immediately by the next one instead of compounding drift,
// and is counted as slow.
func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	next := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.tick(ctx)
		s.ticks.Add(1)

		next = next.Add(s.opts.Interval)
		wait := time.Until(next)
		if wait < 0 {
			s.slowTicks.Add(1)
			s.log.Warn("slow tick", zap.Duration("overrun", -wait))
			next = time.Now()
			wait = 0
		}
		timer.Reset(wait)
	}
}

func (s *Sampler) tick(ctx context.Context) {
	snap := metrics.Snapshot{Timestamp: time.Now()}

	for _, src := range s.sources {
		if s.skipUnavailable(src.ID()) {
			continue
		}
		reading, err := s.poll(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return // shutting down; drop the half-built tick
			}
			s.tracker.ReportFailure(src.ID(), err)
			s.log.Debug("poll failed", zap.String("source", string(src.ID())), zap.Error(err))
			continue
		}
		s.tracker.ReportSuccess(src.ID())
		s.merge(&snap, reading)
	}

	s.store.Publish(snap)
}

// skipUnavailable reports whether src should be left out of this tick.
// Unavailable sources are probed again only every RecheckTicks ticks.
func (s *Sampler) skipUnavailable(id metrics.SourceID) bool {
	if s.tracker.State(id).Status != health.StatusUnavailable {
		delete(s.skips, id)
		return false
	}
	s.skips[id]++
	if s.skips[id] >= s.opts.RecheckTicks {
		s.skips[id] = 0
		return false
	}
	return true
}

// poll runs one source under the per-source timeout. A source that
// ignores its context is abandoned once the timeout fires, and stays
// off-limits until its goroutine returns: sources hold unsynchronized
// poll state, so two Poll calls must never overlap.
func (s *Sampler) poll(ctx context.Context, src source.Source) (metrics.Reading, error) {
	if prev, ok := s.inflight[src.ID()]; ok {
		select {
		case <-prev:
			delete(s.inflight, src.ID())
		default:
			return metrics.Reading{}, fmt.Errorf("poll %s: previous poll still in flight", src.ID())
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	type result struct {
		reading metrics.Reading
		err     error
	}
	ch := make(chan result, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r, err := src.Poll(ctx)
		ch <- result{reading: r, err: err}
	}()
	select {
	case res := <-ch:
		return res.reading, res.err
	case <-ctx.Done():
		s.inflight[src.ID()] = done
		return metrics.Reading{}, fmt.Errorf("poll %s: %w", src.ID(), ctx.Err())
	}
}

// merge routes one reading into the snapshot: gauges are clamped to
// [0,100], counters go through the rate calculator.
func (s *Sampler) merge(snap *metrics.Snapshot, r metrics.Reading) {
	switch r.Source {
	case metrics.SourceCPU:
		snap.CPUPercent = metrics.FieldOf(metrics.ClampPercent(r.Value))
	case metrics.SourceMemory:
		snap.MemoryPercent = metrics.FieldOf(metrics.ClampPercent(r.Value))
	case metrics.SourceDisk:
		snap.DiskReadRate = metrics.FieldOf(s.rates.Rate(r.Source, rate.In, r.InBytes, r.At))
		snap.DiskWriteRate = metrics.FieldOf(s.rates.Rate(r.Source, rate.Out, r.OutBytes, r.At))
	case metrics.SourceNetwork:
		snap.NetRxRate = metrics.FieldOf(s.rates.Rate(r.Source, rate.In, r.InBytes, r.At))
		snap.NetTxRate = metrics.FieldOf(s.rates.Rate(r.Source, rate.Out, r.OutBytes, r.At))
		snap.NetInterface = r.Label
	case metrics.SourceGPU:
		snap.GPUPercent = metrics.FieldOf(metrics.ClampPercent(r.Value))
		snap.GPUName = r.Label
	case metrics.SourceBattery:
		snap.BatteryPercent = metrics.FieldOf(metrics.ClampPercent(r.Value))
		snap.BatteryState = r.Label
	}
}
