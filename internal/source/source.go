// Package source implements the pollable metric sources behind one
// common interface. Each source produces a single Reading per poll;
// failures are either permanent for this host (ErrUnavailable) or
// transient read errors.
package source

import (
	"context"
	"errors"

	"github.com/rawwerks/overmon/internal/metrics"
)

// ErrUnavailable marks a source that cannot work on this host at all:
// no GPU, no battery, restricted permissions. The sampler stops polling
// such sources except at a slow recheck backoff.
var ErrUnavailable = errors.New("source unavailable")

// Source is one pollable metric capability.
type Source interface {
	ID() metrics.SourceID
	// Poll produces one reading or fails. Implementations must honor
	// ctx so a stuck system call cannot stall the tick past its timeout.
	Poll(ctx context.Context) (metrics.Reading, error)
}

// ForIDs builds the concrete source for each requested ID, in order.
func ForIDs(ids []metrics.SourceID) []Source {
	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		switch id {
		case metrics.SourceCPU:
			out = append(out, NewCPU())
		case metrics.SourceMemory:
			out = append(out, Memory{})
		case metrics.SourceDisk:
			out = append(out, Disk{})
		case metrics.SourceNetwork:
			out = append(out, Network{})
		case metrics.SourceGPU:
			out = append(out, GPU{})
		case metrics.SourceBattery:
			out = append(out, Battery{})
		}
	}
	return out
}
