package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/spf13/viper"
)

// Rule sources.
const (
	RuleSourceFile     = "file"
	RuleSourceDatabase = "database"
)

// PlannerConfig holds the settings shared by every medplan command.
type PlannerConfig struct {
	AsOf            *time.Time
	RulesPath       string
	RulesSource     string
	DatabasePath    string
	ReportFormat    string
	MetricsTextfile string
	Workers         int
}

// DefaultPlannerConfig returns the configuration used when nothing is set.
func DefaultPlannerConfig() PlannerConfig {
	dbPath := "medplan.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".local", "share", "medplan", "medplan.db")
	}
	return PlannerConfig{
		RulesSource:  RuleSourceFile,
		DatabasePath: dbPath,
		ReportFormat: "text",
		Workers:      4,
	}
}

// LoadPlannerConfig loads planner configuration from Viper, which already
// layers the config file and MEDPLAN_ environment variables. Unset keys keep
// their defaults.
func LoadPlannerConfig() (*PlannerConfig, error) {
	config := DefaultPlannerConfig()

	if v := viper.GetString("rules.path"); v != "" {
		config.RulesPath = ExpandPath(v)
	}
	if v := viper.GetString("rules.source"); v != "" {
		config.RulesSource = v
	}
	if v := viper.GetString("database.path"); v != "" {
		config.DatabasePath = ExpandPath(v)
	}
	if v := viper.GetString("report.format"); v != "" {
		config.ReportFormat = v
	}
	if v := viper.GetString("metrics.textfile"); v != "" {
		config.MetricsTextfile = ExpandPath(v)
	}
	if viper.IsSet("planner.workers") {
		config.Workers = viper.GetInt("planner.workers")
	}
	if v := viper.GetString("planner.as_of"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%w: planner.as_of: %w", common.ErrInvalidConfig, err)
		}
		config.AsOf = &d.Time
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the configuration is usable.
func (c *PlannerConfig) Validate() error {
	switch c.RulesSource {
	case RuleSourceFile:
	case RuleSourceDatabase:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: database.path is required when rules.source is database", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: rules.source must be %q or %q, got %q",
			common.ErrInvalidConfig, RuleSourceFile, RuleSourceDatabase, c.RulesSource)
	}

	if c.ReportFormat != "text" && c.ReportFormat != "json" {
		return fmt.Errorf("%w: report.format must be text or json, got %q", common.ErrInvalidConfig, c.ReportFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: planner.workers must be at least 1, got %d", common.ErrInvalidConfig, c.Workers)
	}
	return nil
}
