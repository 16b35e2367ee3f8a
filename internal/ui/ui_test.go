package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rawwerks/overmon/internal/config"
	"github.com/rawwerks/overmon/internal/health"
	"github.com/rawwerks/overmon/internal/metrics"
	"github.com/rawwerks/overmon/internal/settings"
	"github.com/rawwerks/overmon/internal/source"
	"github.com/rawwerks/overmon/internal/store"
)

func TestGaugeBar(t *testing.T) {
	if got := gaugeBar(0, 10); got != strings.Repeat(gaugeEmpty, 10) {
		t.Errorf("gaugeBar(0) = %q", got)
	}
	if got := gaugeBar(100, 10); got != strings.Repeat(gaugeFill, 10) {
		t.Errorf("gaugeBar(100) = %q", got)
	}
	got := gaugeBar(50, 10)
	if strings.Count(got, gaugeFill) != 5 {
		t.Errorf("gaugeBar(50) = %q, want 5 filled cells", got)
	}
	// Out-of-range input must not panic or overflow the bar.
	if got := gaugeBar(250, 10); strings.Count(got, gaugeFill) != 10 {
		t.Errorf("gaugeBar(250) = %q, want full bar", got)
	}
}

func TestHumanRate(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 B/s"},
		{512, "512 B/s"},
		{2048, "2.0 kB/s"},
		{3.5e6, "3.5 MB/s"},
		{1.2e9, "1.2 GB/s"},
	}
	for _, c := range cases {
		if got := humanRate(c.in); got != c.want {
			t.Errorf("humanRate(%f) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("NVIDIA GeForce RTX 3080 Ti", 10)
	if len([]rune(got)) > 10 {
		t.Errorf("truncate left %d runes: %q", len([]rune(got)), got)
	}
}

func TestTruncateMultibyte(t *testing.T) {
	got := truncate("Radeon™ RX 7900 XTX über-edition", 12)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if n := len([]rune(got)); n > 12 {
		t.Errorf("truncate left %d runes: %q", n, got)
	}
}

func TestViewOmitsDisabledSources(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []metrics.SourceID{metrics.SourceNetwork}
	m := New(cfg, store.New(4), health.NewTracker(), source.Info{}, settings.Defaults())

	view := m.View()
	if strings.Contains(view, "CPU") {
		t.Error("view shows a CPU row with cpu disabled")
	}
	if strings.Contains(view, "RAM") {
		t.Error("view shows a RAM row with memory disabled")
	}
	if !strings.Contains(view, "NET") {
		t.Error("view missing the enabled NET row")
	}
}
