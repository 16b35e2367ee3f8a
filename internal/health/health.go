// Package health tracks per-source availability so the renderer can
// show N/A instead of stale or garbage values.
package health

import (
	"errors"
	"sync"

	"github.com/rawwerks/overmon/internal/metrics"
	"github.com/rawwerks/overmon/internal/source"
)

// Status is the health of one metric source.
type Status int

const (
	// StatusUnknown means the source has not been polled yet.
	StatusUnknown Status = iota
	StatusOK
	// StatusUnavailable means the source cannot work on this host
	// (no GPU, no battery, missing permissions).
	StatusUnavailable
	// StatusErrored means the last poll failed or timed out but may
	// succeed next tick.
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusErrored:
		return "errored"
	}
	return "unknown"
}

// State is the tracked health of one source.
type State struct {
	Source              metrics.SourceID
	Status              Status
	LastError           string
	ConsecutiveFailures int
}

// Tracker records poll outcomes. Status is driven solely by the most
// recent outcome: one success returns a failed source to OK.
type Tracker struct {
	mu     sync.RWMutex
	states map[metrics.SourceID]State
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[metrics.SourceID]State)}
}

// ReportSuccess marks id OK and resets its failure count.
func (t *Tracker) ReportSuccess(id metrics.SourceID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = State{Source: id, Status: StatusOK}
}

// ReportFailure records err against id. Errors wrapping
// source.ErrUnavailable mark the source Unavailable, everything else
// Errored. The consecutive failure count carries across both kinds.
func (t *Tracker) ReportFailure(id metrics.SourceID, err error) {
	status := StatusErrored
	if errors.Is(err, source.ErrUnavailable) {
		status = StatusUnavailable
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.states[id]
	t.states[id] = State{
		Source:              id,
		Status:              status,
		LastError:           err.Error(),
		ConsecutiveFailures: st.ConsecutiveFailures + 1,
	}
}

// State returns a copy of the tracked state for id. A source never
// polled reports StatusUnknown.
func (t *Tracker) State(id metrics.SourceID) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.states[id]
	if !ok {
		return State{Source: id, Status: StatusUnknown}
	}
	return st
}
