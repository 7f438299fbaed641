package main

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/config"
	"github.com/Veraticus/medplan/internal/report"
	"github.com/spf13/cobra"
)

func plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Browse saved plans",
	}

	cmd.AddCommand(listPlansCmd())
	cmd.AddCommand(showPlanCmd())

	return cmd
}

func listPlansCmd() *cobra.Command {
	var (
		clientID string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			plans, err := store.ListPlans(ctx, clientID, limit)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.NewTextFormatter().FormatPlans(plans))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "only plans for this client ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of plans (0 for all)")
	return cmd
}

func showPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Print a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}
			formatter, err := report.New(cfg.ReportFormat)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			plan, err := store.GetPlan(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load plan %s: %w", args[0], err)
			}

			output, err := formatter.Format(plan)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
}
