// Package ui renders the overlay. It consumes published snapshots on
// its own schedule and never triggers a poll.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rawwerks/overmon/internal/config"
	"github.com/rawwerks/overmon/internal/health"
	"github.com/rawwerks/overmon/internal/metrics"
	"github.com/rawwerks/overmon/internal/settings"
	"github.com/rawwerks/overmon/internal/source"
	"github.com/rawwerks/overmon/internal/store"
)

type keyMap struct {
	Quit    key.Binding
	Theme   key.Binding
	Info    key.Binding
	Pause   key.Binding
	Compact key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Info:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Compact: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact")),
	}
}

// Model is the bubbletea overlay. Snapshots arrive over the store
// subscription on their own message turns; a separate clock tick keeps
// the time display moving between samples.
type Model struct {
	cfg      config.Config
	store    *store.Store
	tracker  *health.Tracker
	info     source.Info
	settings *settings.Settings

	sub    <-chan metrics.Snapshot
	latest metrics.Snapshot
	keys   keyMap

	width    int
	height   int
	showInfo bool
	paused   bool
}

func New(cfg config.Config, st *store.Store, tracker *health.Tracker, info source.Info, prefs *settings.Settings) *Model {
	return &Model{
		cfg:      cfg,
		store:    st,
		tracker:  tracker,
		info:     info,
		settings: prefs,
		sub:      st.Subscribe(),
		latest:   st.Latest(),
		keys:     defaultKeyMap(),
		width:    60,
		height:   20,
	}
}

type (
	clockMsg    struct{}
	snapshotMsg metrics.Snapshot
)

func (m *Model) clockCmd() tea.Cmd {
	return tea.Tick(m.cfg.RefreshRate, func(time.Time) tea.Msg { return clockMsg{} })
}

// waitForSnapshot blocks on the store subscription inside a tea.Cmd,
// delivering each published snapshot as its own message.
func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg { return snapshotMsg(<-m.sub) }
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.clockCmd(), m.waitForSnapshot())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Theme):
			if m.settings.Theme == "dark" {
				m.settings.Theme = "light"
			} else {
				m.settings.Theme = "dark"
			}
		case key.Matches(msg, m.keys.Info):
			m.showInfo = !m.showInfo
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Compact):
			m.settings.Compact = !m.settings.Compact
		}
	case snapshotMsg:
		if !m.paused {
			m.latest = m.store.Smoothed(m.cfg.SmoothWindow)
		}
		return m, m.waitForSnapshot()
	case clockMsg:
		return m, m.clockCmd()
	}
	return m, nil
}

// Styles
type theme struct {
	title  lipgloss.Style
	subtle lipgloss.Style
	label  lipgloss.Style
	card   lipgloss.Style
	na     lipgloss.Style
}

func themeFor(name string) theme {
	if name == "light" {
		return theme{
			title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("18")),
			subtle: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			label:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			card: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("250")).
				Padding(0, 1),
			na: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		}
	}
	return theme{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		subtle: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1),
		na: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
	}
}

const (
	gaugeFill  = "█"
	gaugeEmpty = "░"
)

func (m *Model) View() string {
	th := themeFor(m.settings.Theme)
	s := m.latest

	barWidth := 20
	if m.settings.SizePreset == "medium" {
		barWidth = 28
	} else if m.settings.SizePreset == "large" {
		barWidth = 36
	}

	header := th.title.Render("overmon") + "  " +
		th.subtle.Render(time.Now().Format("15:04:05"))
	if m.paused {
		header += "  " + th.na.Render("paused")
	}

	var rows []string
	if m.enabled(metrics.SourceCPU) {
		rows = append(rows, m.gaugeRow(th, "CPU", metrics.SourceCPU, s.CPUPercent, barWidth))
	}
	if m.enabled(metrics.SourceMemory) {
		rows = append(rows, m.gaugeRow(th, "RAM", metrics.SourceMemory, s.MemoryPercent, barWidth))
	}
	if m.enabled(metrics.SourceDisk) {
		rows = append(rows, m.rateRow(th, "DISK", metrics.SourceDisk, s.DiskReadRate, s.DiskWriteRate, "R", "W", ""))
	}
	if m.enabled(metrics.SourceNetwork) {
		rows = append(rows, m.rateRow(th, "NET", metrics.SourceNetwork, s.NetRxRate, s.NetTxRate, "↓", "↑", s.NetInterface))
	}
	if m.enabled(metrics.SourceGPU) {
		label := "GPU"
		if s.GPUName != "" && !m.settings.Compact {
			label = "GPU " + truncate(s.GPUName, 14)
		}
		rows = append(rows, m.gaugeRow(th, label, metrics.SourceGPU, s.GPUPercent, barWidth))
	}
	if m.enabled(metrics.SourceBattery) {
		rows = append(rows, m.batteryRow(th, s))
	}

	body := th.card.Render(strings.Join(rows, "\n"))
	out := header + "\n" + body

	if m.showInfo {
		out += "\n" + th.card.Render(m.infoPane(th))
	}
	if !m.settings.Compact {
		out += "\n" + th.subtle.Render("q quit · t theme · i info · p pause · c compact")
	}
	return out
}

func (m *Model) enabled(id metrics.SourceID) bool {
	for _, s := range m.cfg.Sources {
		if s == id {
			return true
		}
	}
	return false
}

func (m *Model) gaugeRow(th theme, label string, id metrics.SourceID, f metrics.Field, width int) string {
	name := th.label.Render(fmt.Sprintf("%-4s", label))
	if st := m.tracker.State(id); st.Status != health.StatusOK || !f.Present {
		return name + " " + th.na.Render("N/A")
	}
	return fmt.Sprintf("%s %s %5.1f%%", name, gaugeBar(f.Value, width), f.Value)
}

func (m *Model) rateRow(th theme, label string, id metrics.SourceID, in, out metrics.Field, inSym, outSym, detail string) string {
	name := th.label.Render(fmt.Sprintf("%-4s", label))
	if st := m.tracker.State(id); st.Status != health.StatusOK || !in.Present {
		return name + " " + th.na.Render("N/A")
	}
	row := fmt.Sprintf("%s %s %-10s %s %-10s", name, inSym, humanRate(in.Value), outSym, humanRate(out.Value))
	if detail != "" && !m.settings.Compact {
		row += " " + th.subtle.Render("("+detail+")")
	}
	return row
}

func (m *Model) batteryRow(th theme, s metrics.Snapshot) string {
	name := th.label.Render("BATT")
	st := m.tracker.State(metrics.SourceBattery)
	if st.Status != health.StatusOK || !s.BatteryPercent.Present {
		return name + " " + th.na.Render("N/A")
	}
	row := fmt.Sprintf("%s %3.0f%%", name, s.BatteryPercent.Value)
	if s.BatteryState != "" {
		row += " " + th.subtle.Render(s.BatteryState)
	}
	return row
}

func (m *Model) infoPane(th theme) string {
	lines := []string{
		th.label.Render("Host ") + m.info.Hostname + " (" + m.info.Platform + ")",
		fmt.Sprintf("%s %d physical / %d logical", th.label.Render("CPUs "), m.info.PhysicalCores, m.info.LogicalCores),
		fmt.Sprintf("%s %.1f GiB", th.label.Render("RAM  "), bytesToGiB(m.info.TotalRAMBytes)),
		th.label.Render("NICs ") + strings.Join(m.info.Interfaces, ", "),
		fmt.Sprintf("%s %s", th.label.Render("Up   "), (time.Duration(m.info.UptimeSecs) * time.Second).String()),
	}
	return strings.Join(lines, "\n")
}

func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return strings.Repeat(gaugeFill, filled) + strings.Repeat(gaugeEmpty, width-filled)
}

// humanRate formats a bytes/sec rate with a binary-ish unit ladder.
func humanRate(bps float64) string {
	switch {
	case bps >= 1e9:
		return fmt.Sprintf("%.1f GB/s", bps/1e9)
	case bps >= 1e6:
		return fmt.Sprintf("%.1f MB/s", bps/1e6)
	case bps >= 1e3:
		return fmt.Sprintf("%.1f kB/s", bps/1e3)
	}
	return fmt.Sprintf("%.0f B/s", bps)
}

func bytesToGiB(b uint64) float64 { return float64(b) / (1024 * 1024 * 1024) }

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
