package source

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Memory reports RAM usage as a gauge percent.
type Memory struct{}

func (Memory) ID() metrics.SourceID { return metrics.SourceMemory }

func (Memory) Poll(ctx context.Context) (metrics.Reading, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return metrics.Reading{}, fmt.Errorf("virtual memory: %w", err)
	}
	return metrics.Reading{
		Source: metrics.SourceMemory,
		At:     time.Now(),
		Kind:   metrics.Gauge,
		Value:  vm.UsedPercent,
	}, nil
}
