package main

import (
	"fmt"

	"github.com/yegors/airport-readiness/internal/api"
	"github.com/yegors/airport-readiness/internal/auth"
	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/config"
	"github.com/yegors/airport-readiness/internal/metrics"
	"github.com/yegors/airport-readiness/internal/query"
	"github.com/yegors/airport-readiness/internal/report"
	"github.com/yegors/airport-readiness/internal/storage"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// app holds the wired services for one process
type app struct {
	config   *config.Config
	logger   *logger.Logger
	services api.Services
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	mode, err := checklist.ParseMode(cfg.Editor.Mode)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, log)
	if err != nil {
		return nil, err
	}

	m, err := metrics.New()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &app{
		config: cfg,
		logger: log,
		services: api.Services{
			Store:     store,
			Checklist: checklist.NewService(checklist.NewEditor(mode), store, m, log),
			Query:     query.NewService(store, m, log),
			Reports: report.NewGenerator(store, report.Config{
				RespectFieldFilter: cfg.Report.RespectFieldFilter,
				ExportDir:          cfg.Report.ExportDir,
			}, m, log),
			Selections: query.NewSelectionCache(cfg.Report.SelectionTTL()),
			Verifier:   auth.NewVerifier(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash),
			Metrics:    m,
		},
	}, nil
}

func (a *app) Close() {
	if err := a.services.Store.Close(); err != nil {
		a.logger.Warn("Failed to close store", logger.Error(err))
	}
	_ = a.logger.Sync()
}
