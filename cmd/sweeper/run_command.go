package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sweeper/internal/history"
	"sweeper/internal/logging"
	"sweeper/internal/orchestrator"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Perform one ingestion pass over the incoming directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, ctx)
		},
	}
}

func runPass(cmd *cobra.Command, cmdCtx *commandContext) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []orchestrator.Option{}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			// History is an audit convenience; a broken database must not
			// block ingestion.
			logger.Warn("open history store", logging.Error(err))
		} else {
			defer store.Close()
			opts = append(opts, orchestrator.WithHistory(store))
		}
	}

	orch, err := orchestrator.New(cfg, logger, opts...)
	if err != nil {
		return err
	}

	summary, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if summary.AlreadyRunning {
		fmt.Fprintln(out, "Another pass is already running; exiting.")
		return nil
	}
	fmt.Fprintf(out, "Pass complete: %d scanned, %d succeeded, %d soft-skipped, %d quarantined, %d deferred, %d errored in %s\n",
		summary.Scanned, summary.Succeeded, summary.SoftSkipped,
		summary.Quarantined, summary.Deferred, summary.Errored,
		summary.Duration.Round(time.Millisecond))
	return nil
}
