package source

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/rawwerks/overmon/internal/metrics"
)

// CPU reports total CPU utilization as a gauge percent, derived from
// the delta of cumulative CPU times between polls. The first poll has
// no baseline and reports 0.
type CPU struct {
	prevTotal float64
	prevIdle  float64
}

func NewCPU() *CPU { return &CPU{} }

func (c *CPU) ID() metrics.SourceID { return metrics.SourceCPU }

func (c *CPU) Poll(ctx context.Context) (metrics.Reading, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return metrics.Reading{}, fmt.Errorf("cpu times: %w", err)
	}
	if len(times) == 0 {
		return metrics.Reading{}, fmt.Errorf("cpu times: %w", ErrUnavailable)
	}
	cur := times[0]
	curTotal := cur.Total()
	curIdle := cur.Idle + cur.Iowait

	var pct float64
	if c.prevTotal > 0 {
		dt := curTotal - c.prevTotal
		di := curIdle - c.prevIdle
		if dt > 0 {
			pct = 100 * (1 - di/dt)
		}
	}
	c.prevTotal, c.prevIdle = curTotal, curIdle

	return metrics.Reading{
		Source: metrics.SourceCPU,
		At:     time.Now(),
		Kind:   metrics.Gauge,
		Value:  pct,
	}, nil
}
