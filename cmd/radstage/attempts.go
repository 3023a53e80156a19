package main

import (
	"fmt"

	"github.com/Veraticus/radstage/internal/cli"
	"github.com/Veraticus/radstage/internal/storage"
	"github.com/spf13/cobra"
)

func attemptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attempts <experiment>",
		Short: "List backend attempts that did not produce a result",
		Long: `List the attempt ledger of an experiment. By default only attempts for
records that still have no saved result are shown; re-run classify to retry
them.`,
		Args: cobra.ExactArgs(1),
		RunE: runAttempts,
	}

	cmd.Flags().Bool("all", false, "list every attempt")
	cmd.Flags().String("run", "", "only attempts from this run id")
	cmd.Flags().Int("limit", 0, "maximum rows to show (0 = no limit)")

	return cmd
}

func runAttempts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	all, _ := cmd.Flags().GetBool("all")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")

	repo, err := openRepository(args[0])
	if err != nil {
		return err
	}

	ledger, err := openLedger(ctx, repo)
	if err != nil {
		return err
	}
	defer closeLedger(ledger)

	attempts, err := ledger.ListAttempts(ctx, storage.AttemptFilter{
		RunID:           runID,
		OnlyUnpersisted: !all,
		Limit:           limit,
	})
	if err != nil {
		return err
	}

	stats, err := ledger.AttemptStats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderAttempts(attempts))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderAttemptStats(stats))
	return nil
}
