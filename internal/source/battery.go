package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Battery reports charge percent from /sys/class/power_supply, with
// the charging state as the label. Desktops without a battery are
// ErrUnavailable.
type Battery struct{}

func (Battery) ID() metrics.SourceID { return metrics.SourceBattery }

func (Battery) Poll(ctx context.Context) (metrics.Reading, error) {
	paths, _ := filepath.Glob("/sys/class/power_supply/BAT*/capacity")
	for _, capPath := range paths {
		if ctx.Err() != nil {
			return metrics.Reading{}, ctx.Err()
		}
		capBytes, err := os.ReadFile(capPath)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(string(capBytes)), 64)
		if err != nil {
			continue
		}
		stateBytes, _ := os.ReadFile(filepath.Join(filepath.Dir(capPath), "status"))
		return metrics.Reading{
			Source: metrics.SourceBattery,
			At:     time.Now(),
			Kind:   metrics.Gauge,
			Value:  pct,
			Label:  strings.TrimSpace(string(stateBytes)),
		}, nil
	}
	return metrics.Reading{}, fmt.Errorf("no battery: %w", ErrUnavailable)
}
