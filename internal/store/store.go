// Package store holds the latest published snapshot plus a short
// rolling history, and bridges new snapshots to subscribers without
// ever blocking the publisher.
package store

import (
	"sync"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Store is the snapshot mailbox between the sampler and renderers.
// Publish swaps the latest value; readers always see a whole snapshot.
type Store struct {
	mu      sync.RWMutex
	latest  metrics.Snapshot
	history []metrics.Snapshot
	max     int
	subs    []chan metrics.Snapshot
}

// New creates a store keeping up to historySize snapshots.
func New(historySize int) *Store {
	if historySize < 1 {
		historySize = 1
	}
	return &Store{
		latest:  metrics.Zero(),
		history: make([]metrics.Snapshot, 0, historySize),
		max:     historySize,
	}
}

// Publish records snap as the latest snapshot, appends it to the
// rolling history (evicting the oldest at capacity) and notifies
// subscribers. A subscriber that is not keeping up misses snapshots
// rather than delaying the sampler.
func (s *Store) Publish(snap metrics.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	if len(s.history) >= s.max {
		copy(s.history, s.history[1:])
		s.history[s.max-1] = snap
	} else {
		s.history = append(s.history, snap)
	}
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Latest returns the most recently published snapshot, or the zero
// snapshot before the first tick completes.
func (s *Store) Latest() metrics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// History returns a copy of the rolling history, oldest first.
func (s *Store) History() []metrics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.Snapshot, len(s.history))
	copy(out, s.history)
	return out
}

// Subscribe registers a new snapshot channel for renderers. The channel
// is buffered; sends never block Publish.
func (s *Store) Subscribe() <-chan metrics.Snapshot {
	ch := make(chan metrics.Snapshot, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Smoothed averages each field over the last window snapshots, counting
// only snapshots where the field is present. window <= 1 returns Latest.
// Labels and the timestamp come from the latest snapshot.
func (s *Store) Smoothed(window int) metrics.Snapshot {
	if window <= 1 {
		return s.Latest()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.history)
	if n == 0 {
		return s.latest
	}
	if window > n {
		window = n
	}
	recent := s.history[n-window:]

	out := s.latest
	fields := []struct {
		get func(*metrics.Snapshot) *metrics.Field
	}{
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.CPUPercent }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.MemoryPercent }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.DiskReadRate }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.DiskWriteRate }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.NetRxRate }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.NetTxRate }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.GPUPercent }},
		{func(sn *metrics.Snapshot) *metrics.Field { return &sn.BatteryPercent }},
	}
	for _, f := range fields {
		var sum float64
		var count int
		for i := range recent {
			fld := f.get(&recent[i])
			if fld.Present {
				sum += fld.Value
				count++
			}
		}
		dst := f.get(&out)
		if count > 0 {
			*dst = metrics.FieldOf(sum / float64(count))
		} else {
			*dst = metrics.Field{}
		}
	}
	return out
}
