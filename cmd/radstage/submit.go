package main

import (
	"fmt"

	"github.com/Veraticus/radstage/internal/cli"
	"github.com/spf13/cobra"
)

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <experiment>",
		Short: "Compose the submission CSV from saved results",
		Long: `Collect every saved result of an experiment into
<output>/<experiment>/submission.csv with the header id,t,n,m. With --xlsx
the same table is also written to submission.xlsx.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(args[0])
			if err != nil {
				return err
			}

			path, err := repo.ComposeSubmissionFile()
			if err != nil {
				return fmt.Errorf("failed to compose submission: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved to "+path))

			if xlsx, _ := cmd.Flags().GetBool("xlsx"); xlsx {
				path, err := repo.ComposeWorkbookFile()
				if err != nil {
					return fmt.Errorf("failed to compose workbook: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved to "+path))
			}
			return nil
		},
	}

	cmd.Flags().Bool("xlsx", false, "also write submission.xlsx")

	return cmd
}
