package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"svw.info/griphus/internal/config"
	"svw.info/griphus/internal/generator"
	"svw.info/griphus/internal/hint"
	"svw.info/griphus/internal/infrastructure/storage"
	"svw.info/griphus/internal/metrics"
	"svw.info/griphus/internal/ports"
	"svw.info/griphus/internal/solver"
	"svw.info/griphus/internal/usecase"
	"svw.info/griphus/internal/validator"
)

// app holds what PersistentPreRunE prepares for every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "griphus",
		Short:         "Search grid puzzles with lasers, reflectors, plates and doors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "griphus.yaml", "config file (missing file means defaults)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")

	root.AddCommand(a.solveCmd(), a.validateCmd(), a.generateCmd(), a.serveCmd())
	return root
}

func (a *app) setup(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	lvl, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) engine(rec *metrics.Recorder) *solver.Engine {
	e := solver.NewEngine(a.cfg.Search.MaxTicks, a.logger)
	e.StopOnSolve = a.cfg.Search.StopOnSolve
	e.StrictDeath = a.cfg.Search.StrictDeath
	e.Metrics = rec
	return e
}

// openStorage returns the configured backend and a function releasing it.
func (a *app) openStorage() (ports.Storage, func() error, error) {
	switch a.cfg.Storage.Backend {
	case "badger":
		b, err := storage.OpenBadger(storage.BadgerConfig{Path: a.cfg.Storage.Path, SyncWrites: true, Logger: a.logger})
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case "fs":
		if err := os.MkdirAll(a.cfg.Storage.Path, 0o755); err != nil {
			return nil, nil, err
		}
		return storage.NewFS(a.cfg.Storage.Path), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
}

// service wires providers into the use-case layer. A nil reg disables metrics.
func (a *app) service(reg prometheus.Registerer) (*usecase.Service, func() error, error) {
	var rec *metrics.Recorder
	if reg != nil {
		rec = metrics.New(reg)
	}
	st, closeFn, err := a.openStorage()
	if err != nil {
		return nil, nil, err
	}
	eng := a.engine(rec)
	uc := usecase.NewService(eng, generator.NewRoomGenerator(), validator.New(), hint.NewNextMove(eng), st)
	return uc, closeFn, nil
}
