package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Disk reports cumulative read/write byte counters summed over all real
// block devices. Virtual loop/ram devices are skipped.
type Disk struct{}

func (Disk) ID() metrics.SourceID { return metrics.SourceDisk }

func (Disk) Poll(ctx context.Context) (metrics.Reading, error) {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return metrics.Reading{}, fmt.Errorf("disk counters: %w", err)
	}
	if len(counters) == 0 {
		return metrics.Reading{}, fmt.Errorf("no block devices: %w", ErrUnavailable)
	}
	var read, write uint64
	for name, st := range counters {
		if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") {
			continue
		}
		read += st.ReadBytes
		write += st.WriteBytes
	}
	return metrics.Reading{
		Source:   metrics.SourceDisk,
		At:       time.Now(),
		Kind:     metrics.Counter,
		InBytes:  read,
		OutBytes: write,
	}, nil
}
