package source

import (
	"context"
	"fmt"
	"time"

	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Network reports cumulative rx/tx byte counters for the busiest NIC,
// labeled with the interface name. When the busiest NIC changes between
// polls the counter baseline jumps; the rate calculator rebases on the
// apparent reset.
type Network struct{}

func (Network) ID() metrics.SourceID { return metrics.SourceNetwork }

func (Network) Poll(ctx context.Context) (metrics.Reading, error) {
	counters, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return metrics.Reading{}, fmt.Errorf("net counters: %w", err)
	}
	var top *gnet.IOCountersStat
	var topTotal uint64
	for i := range counters {
		c := &counters[i]
		if c.Name == "lo" {
			continue
		}
		total := c.BytesRecv + c.BytesSent
		if total > topTotal {
			topTotal = total
			top = c
		}
	}
	if top == nil {
		return metrics.Reading{}, fmt.Errorf("no network interfaces: %w", ErrUnavailable)
	}
	return metrics.Reading{
		Source:   metrics.SourceNetwork,
		At:       time.Now(),
		Kind:     metrics.Counter,
		InBytes:  top.BytesRecv,
		OutBytes: top.BytesSent,
		Label:    top.Name,
	}, nil
}
