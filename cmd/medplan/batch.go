package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/medplan/internal/cli"
	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/config"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// batchOutcome is the result of planning one client file.
type batchOutcome struct {
	err    error
	result *model.PlanningResult
	path   string
}

func batchCmd() *cobra.Command {
	var (
		jurisdiction string
		asOf         string
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "batch <client.json>...",
		Short: "Plan many clients in parallel",
		Long: `Produce plans for every client file given, running up to planner.workers
plans at a time. Ctrl-C stops after the plans already in progress.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPlannerConfig()
			if err != nil {
				return err
			}
			asOfTime, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), save)

			rt, err := newPlannerRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.flushMetrics()

			var store service.PlanStore
			if save {
				s, err := initStorage(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				store = s
			}

			outcomes := runBatch(ctx, rt, store, args, batchOptions{
				jurisdiction: jurisdiction,
				asOf:         asOfTime,
				workers:      cfg.Workers,
			})

			return printBatchSummary(cmd, outcomes, handler.WasInterrupted())
		},
	}

	cmd.Flags().StringVarP(&jurisdiction, "jurisdiction", "j", "", "jurisdiction for files that do not name one")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate rules in force on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&save, "save", false, "store each plan in the database")

	return cmd
}

type batchOptions struct {
	asOf         *time.Time
	jurisdiction string
	workers      int
}

// runBatch plans every file with at most opts.workers in flight. Files not
// started before ctx is canceled are left without an outcome.
func runBatch(ctx context.Context, rt *plannerRuntime, store service.PlanStore, paths []string, opts batchOptions) []batchOutcome {
	outcomes := make([]batchOutcome, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := planFile(ctx, rt, store, path, opts)
			if outcome.err != nil {
				common.LogError(ctx, outcome.err, "Client plan failed", common.Fields{"path": path})
			}

			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func planFile(ctx context.Context, rt *plannerRuntime, store service.PlanStore, path string, opts batchOptions) batchOutcome {
	outcome := batchOutcome{path: path}

	cf, err := readClientFile(path)
	if err != nil {
		outcome.err = err
		return outcome
	}

	// The flag only fills in a missing jurisdiction in batch mode.
	jurisdiction := ""
	if cf.Jurisdiction == "" {
		jurisdiction = opts.jurisdiction
	}
	req, err := cf.request(jurisdiction, opts.asOf, rt.cfg.AsOf)
	if err != nil {
		outcome.err = err
		return outcome
	}

	outcome.result, outcome.err = rt.planner.Run(req)
	if outcome.err != nil || store == nil {
		return outcome
	}

	if err := store.SavePlan(ctx, outcome.result); err != nil {
		outcome.err = fmt.Errorf("failed to save plan: %w", err)
	}
	return outcome
}

func printBatchSummary(cmd *cobra.Command, outcomes []batchOutcome, interrupted bool) error {
	out := cmd.OutOrStdout()
	var failed, skipped int

	for _, o := range outcomes {
		switch {
		case o.path == "":
			skipped++
		case o.err != nil:
			failed++
			fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(o.path), o.err)))
		case o.result.Status == model.PlanPartial:
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s: %s partial (%d module errors)",
				filepath.Base(o.path), o.result.ClientID, len(o.result.ModuleErrors))))
		default:
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s: %s %s",
				filepath.Base(o.path), o.result.ClientID, o.result.ID)))
		}
	}

	slog.Info("Batch complete",
		"total", len(outcomes),
		"failed", failed,
		"skipped", skipped,
		"interrupted", interrupted)

	if failed > 0 {
		return fmt.Errorf("%d of %d plans failed", failed, len(outcomes))
	}
	if interrupted {
		return context.Canceled
	}
	return nil
}
