package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rawwerks/overmon/internal/config"
	"github.com/rawwerks/overmon/internal/health"
	"github.com/rawwerks/overmon/internal/sampler"
	"github.com/rawwerks/overmon/internal/settings"
	"github.com/rawwerks/overmon/internal/source"
	"github.com/rawwerks/overmon/internal/store"
	"github.com/rawwerks/overmon/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "overmon:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	prefs, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		log.Warn("settings unreadable, using defaults", zap.Error(err))
		prefs = settings.Defaults()
	}

	infoCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	info := source.HostInfo(infoCtx)
	cancel()

	st := store.New(cfg.HistorySize)
	tracker := health.NewTracker()
	smp, err := sampler.New(sampler.Options{
		Interval:     cfg.Interval,
		Timeout:      cfg.PollTimeout,
		RecheckTicks: cfg.RecheckTicks,
	}, source.ForIDs(cfg.Sources), st, tracker, log)
	if err != nil {
		return err
	}

	smp.Start()
	defer smp.Stop()

	prog := tea.NewProgram(ui.New(cfg, st, tracker, info, prefs))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	if err := prefs.Save(cfg.SettingsPath); err != nil {
		log.Warn("saving settings", zap.Error(err))
	}
	log.Info("shutting down",
		zap.Uint64("ticks", smp.Ticks()),
		zap.Uint64("slow_ticks", smp.SlowTicks()))
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	// The terminal belongs to the overlay; keep log noise out of it.
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
