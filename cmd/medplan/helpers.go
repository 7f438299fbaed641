package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/config"
	"github.com/Veraticus/medplan/internal/planner"
	"github.com/Veraticus/medplan/internal/rules"
	"github.com/Veraticus/medplan/internal/service"
	"github.com/Veraticus/medplan/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.PlannerConfig) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadRules builds the rule repository from the configured source.
func loadRules(ctx context.Context, cfg *config.PlannerConfig) (*rules.Repository, error) {
	if cfg.RulesSource != config.RuleSourceDatabase {
		return rules.Open(cfg.RulesPath)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	repo, err := rules.OpenSource(ctx, store)
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("No usable rule sets in %s. Import them with: medplan rules import <file>", cfg.DatabasePath), err)
	}
	return repo, nil
}

// plannerRuntime bundles a planner with the registry its metrics live in.
type plannerRuntime struct {
	planner  *planner.Planner
	registry *prometheus.Registry
	cfg      *config.PlannerConfig
}

func newPlannerRuntime(ctx context.Context, cfg *config.PlannerConfig) (*plannerRuntime, error) {
	repo, err := loadRules(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	return &plannerRuntime{
		planner:  planner.New(repo, planner.WithMetrics(planner.NewMetrics(reg))),
		registry: reg,
		cfg:      cfg,
	}, nil
}

// flushMetrics writes the registry in textfile-collector format when configured.
func (r *plannerRuntime) flushMetrics() {
	if r.cfg.MetricsTextfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(r.cfg.MetricsTextfile, r.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", "path", r.cfg.MetricsTextfile, "error", err)
	}
}
