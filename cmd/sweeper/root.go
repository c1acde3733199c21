package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "sweeper",
		Short:         "CSV ingestion orchestrator",
		Long:          "Sweeper performs one pass over the incoming directory, hands each stable CSV to the external normalization engine, and routes files by the engine's exit status.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// A bare invocation performs one full pass; per-file failures never
		// surface in the process exit status.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))

	return rootCmd
}
