package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/radstage/internal/cli"
	"github.com/Veraticus/radstage/internal/config"
	"github.com/Veraticus/radstage/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <experiment>",
		Short: "Publish the submission table to Google Sheets",
		Long: `Write the saved results of an experiment, as the id,t,n,m submission table,
into a Google Sheets tab. Without a configured spreadsheet id a new
spreadsheet named after the experiment is created.`,
		Args: cobra.ExactArgs(1),
		RunE: runPublish,
	}

	cmd.Flags().String("spreadsheet-id", "", "target spreadsheet id (overrides config)")
	cmd.Flags().String("sheet", "", "target tab title (overrides config)")

	_ = viper.BindPFlag("sheets.spreadsheet_id", cmd.Flags().Lookup("spreadsheet-id"))
	_ = viper.BindPFlag("sheets.sheet_title", cmd.Flags().Lookup("sheet"))

	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	experiment := args[0]
	ctx := cmd.Context()

	repo, err := openRepository(experiment)
	if err != nil {
		return err
	}

	results, err := repo.Results()
	if err != nil {
		return err
	}

	sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid sheets configuration: %w", err)
	}

	publisher, err := sheets.NewPublisher(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return err
	}

	publication, err := publisher.Publish(ctx, experiment, results)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", experiment, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Published %d rows to %s", publication.Rows, publication.URL)))
	return nil
}
