package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecfr_analytics/internal/analytics"
	"ecfr_analytics/internal/cache"
	"ecfr_analytics/internal/config"
	"ecfr_analytics/internal/ecfr"
	"ecfr_analytics/internal/logging"
	"ecfr_analytics/internal/workspace"
)

var (
	configPath string
	dataDir    string
)

func main() {
	root := &cobra.Command{
		Use:           "ecfr",
		Short:         "Analytics over the electronic Code of Federal Regulations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data root (default ~/"+workspace.BaseDirName+")")

	root.AddCommand(serveCmd(), warmCmd(), statusCmd(), catalogCmd(), analyzeFileCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state every command starts from.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	layout workspace.Layout
}

func setup() (*app, error) {
	var (
		layout workspace.Layout
		err    error
	)
	if dataDir != "" {
		layout, err = workspace.EnsureAt(dataDir)
	} else {
		layout, err = workspace.EnsureDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("workspace initialization failed: %w", err)
	}

	path := configPath
	if path == "" {
		path = layout.ConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, layout: layout}, nil
}

func (a *app) client() ecfr.Client {
	if a.cfg.ECFR.MirrorDir != "" {
		a.logger.Info("serving eCFR data from mirror", zap.String("dir", a.cfg.ECFR.MirrorDir))
		return ecfr.NewMirrorClient(a.cfg.ECFR.MirrorDir)
	}
	return ecfr.NewWebClient(ecfr.WebConfig{
		BaseURL:     a.cfg.ECFR.BaseURL,
		Timeout:     a.cfg.ECFR.Timeout,
		MaxRequests: a.cfg.ECFR.RateRequests,
		Window:      a.cfg.ECFR.RateWindow,
	}, ecfr.WithLogger(a.logger))
}

func (a *app) cache() (*cache.Store, error) {
	return cache.Open(a.cfg.Cache.Backend, a.cfg.Cache.Location, a.logger)
}

func (a *app) engineOptions() []analytics.Option {
	return []analytics.Option{
		analytics.WithLogger(a.logger),
		analytics.WithWorkers(a.cfg.Analytics.Workers),
		analytics.WithMaxVersionsPerSection(a.cfg.Analytics.MaxVersionsPerSection),
	}
}

func (a *app) close() {
	_ = a.logger.Sync()
}
