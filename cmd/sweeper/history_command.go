package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sweeper/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var fileName string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			var attempts []history.Attempt
			if fileName != "" {
				attempts, err = store.ByFile(cmd.Context(), fileName)
			} else {
				attempts, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(attempts) == 0 {
				fmt.Fprintln(out, "No attempts recorded.")
				return nil
			}

			fmt.Fprintln(out, renderAttemptTable(attempts))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of attempts to show")
	cmd.Flags().StringVarP(&fileName, "file", "f", "", "Show all attempts for one filename")
	return cmd
}

func renderAttemptTable(attempts []history.Attempt) string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		status := ""
		if a.ExitStatus != nil {
			status = strconv.Itoa(*a.ExitStatus)
		}
		rows = append(rows, []string{
			a.RunToken,
			a.FileName,
			a.Result,
			status,
			a.FinishedAt.Local().Format(time.DateTime),
		})
	}
	return renderTable([]string{"Run", "File", "Result", "Status", "Finished"}, rows)
}
