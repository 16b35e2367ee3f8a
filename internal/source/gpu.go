package source

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rawwerks/overmon/internal/metrics"
)

// GPU reports utilization of the first NVIDIA GPU as a gauge percent,
// queried through nvidia-smi. Hosts without the tool (or without a GPU)
// are ErrUnavailable; the sampler then rechecks only at its slow
// backoff interval, which also picks up hot-plugged devices.
type GPU struct{}

func (GPU) ID() metrics.SourceID { return metrics.SourceGPU }

func (GPU) Poll(ctx context.Context) (metrics.Reading, error) {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return metrics.Reading{}, fmt.Errorf("nvidia-smi not found: %w", ErrUnavailable)
	}
	out, err := exec.CommandContext(ctx, "nvidia-smi",
		"--query-gpu=name,utilization.gpu",
		"--format=csv,noheader,nounits").Output()
	if ctx.Err() != nil {
		return metrics.Reading{}, fmt.Errorf("nvidia-smi: %w", ctx.Err())
	}
	if err != nil {
		return metrics.Reading{}, fmt.Errorf("nvidia-smi: %w", err)
	}
	name, util, ok := parseGPULine(string(out))
	if !ok {
		return metrics.Reading{}, fmt.Errorf("no GPU reported: %w", ErrUnavailable)
	}
	return metrics.Reading{
		Source: metrics.SourceGPU,
		At:     time.Now(),
		Kind:   metrics.Gauge,
		Value:  util,
		Label:  name,
	}, nil
}

// parseGPULine extracts name and utilization from the first line of
// nvidia-smi CSV output ("NVIDIA GeForce RTX 3080, 17").
func parseGPULine(out string) (name string, util float64, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		name = strings.TrimSpace(parts[0])
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		return name, v, true
	}
	return "", 0, false
}
