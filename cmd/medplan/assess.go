package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/medplan/internal/cli"
	"github.com/Veraticus/medplan/internal/config"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/report"
	"github.com/spf13/cobra"
)

func assessCmd() *cobra.Command {
	var (
		clientPath   string
		jurisdiction string
		asOf         string
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Produce an eligibility plan for one client",
		Long: `Run the eligibility tests and every planning domain for the client described
in a JSON file, then print the plan.

The client file holds "profile", "snapshot" and optionally "jurisdiction" and
"as_of". Flags override the file.`,
		Example: `  medplan assess --client smith.json --jurisdiction FL
  medplan assess --client smith.json --as-of 2024-06-01 --format json --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}

			asOfTime, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			cf, err := readClientFile(clientPath)
			if err != nil {
				return err
			}
			req, err := cf.request(jurisdiction, asOfTime, cfg.AsOf)
			if err != nil {
				return err
			}

			formatter, err := report.New(cfg.ReportFormat)
			if err != nil {
				return err
			}

			rt, err := newPlannerRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.flushMetrics()

			result, runErr := rt.planner.Run(req)

			output, err := formatter.Format(result)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output)

			if save && result.Status != model.PlanError {
				store, err := initStorage(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()

				if err := store.SavePlan(ctx, result); err != nil {
					return fmt.Errorf("failed to save plan: %w", err)
				}
				slog.Info("Saved plan", "id", result.ID, "database", cfg.DatabasePath)
				if cfg.ReportFormat == report.FormatText {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Plan saved as "+result.ID))
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&clientPath, "client", "c", "", "client JSON file (required)")
	cmd.Flags().StringVarP(&jurisdiction, "jurisdiction", "j", "", "jurisdiction name or postal code")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate rules in force on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&save, "save", false, "store the plan in the database")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}
