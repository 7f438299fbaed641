package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/medplan/internal/cli"
	"github.com/Veraticus/medplan/internal/config"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/report"
	"github.com/Veraticus/medplan/internal/rules"
	"github.com/Veraticus/medplan/internal/service"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and manage jurisdiction rule sets",
		Long:  `List and show the rule sets the planner resolves against, and import rule data into the database.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(showRulesCmd())
	cmd.AddCommand(importRulesCmd())
	cmd.AddCommand(deleteRulesCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded rule sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}
			repo, err := loadRules(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.NewTextFormatter().FormatRuleSets(repo.All()))
			return nil
		},
	}
}

func showRulesCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "show <jurisdiction>",
		Short: "Show the rule set in force for a jurisdiction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}
			asOfTime, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			if asOfTime == nil {
				asOfTime = cfg.AsOf
			}

			repo, err := loadRules(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rs, err := repo.Resolve(args[0], asOfTime)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.NewTextFormatter().FormatRuleSet(rs))
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "show the set in force on this date (YYYY-MM-DD)")
	return cmd
}

func importRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <rules.json>",
		Short: "Import rule data into the database",
		Long: `Load a rule data file, check that it builds a valid repository, and store
every rule set in the database. Existing sets with the same jurisdiction and
effective date are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			repo, err := importRuleSets(ctx, store, args[0])
			if err != nil {
				return err
			}

			slog.Info("Imported rule sets", "count", len(repo.All()), "database", cfg.DatabasePath)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d rule sets for %d jurisdictions",
				len(repo.All()), len(repo.Jurisdictions()))))
			return nil
		},
	}
}

func deleteRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <jurisdiction> <effective-date>",
		Short: "Delete one stored rule set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}
			effective, err := model.ParseDate(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			key, err := deleteRuleSet(ctx, store, args[0], effective)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s rules effective %s", key, effective)))
			return nil
		},
	}
}

// importRuleSets checks that a rule data file builds a valid repository and
// stores its sets. The normalized sets are stored so keys match what the
// repository resolves.
func importRuleSets(ctx context.Context, store service.RuleStore, path string) (*rules.Repository, error) {
	sets, err := rules.LoadFile(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	repo, err := rules.NewRepository(sets)
	if err != nil {
		return nil, fmt.Errorf("invalid rule data: %w", err)
	}

	if err := store.SaveRuleSets(ctx, repo.All(), path); err != nil {
		return nil, fmt.Errorf("failed to import rule sets: %w", err)
	}
	return repo, nil
}

// deleteRuleSet removes one stored set and returns the normalized key it used.
func deleteRuleSet(ctx context.Context, store service.RuleStore, jurisdiction string, effective model.Date) (string, error) {
	key := rules.Normalize(jurisdiction)
	if err := store.DeleteRuleSet(ctx, key, effective); err != nil {
		return key, fmt.Errorf("failed to delete %s %s: %w", key, effective, err)
	}
	return key, nil
}
