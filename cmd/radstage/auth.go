package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/radstage/internal/cli"
	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/config"
	"github.com/Veraticus/radstage/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}
	cmd.AddCommand(authSheetsCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

Your browser is opened on Google's consent page. The resulting token is
saved to sheets.token_file (default $HOME/.config/radstage/sheets-token.json)
and used by 'radstage publish'.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("listen", "localhost:8080", "address of the local redirect listener")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return common.NewUserError("OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret", nil)
	}

	tokenFile := config.ExpandPath(viper.GetString("sheets.token_file"))
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		tokenFile = filepath.Join(home, ".config", "radstage", "sheets-token.json")
	}

	listen, _ := cmd.Flags().GetString("listen")
	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	_, err := sheets.Login(ctx, sheets.LoginConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		ListenAddr:   listen,
	}, func(url string) {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo("Opening browser for authentication. If it does not open, visit:"))
		fmt.Fprintln(cmd.ErrOrStderr(), url)
		openBrowser(url)
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Authentication successful. Token saved to "+tokenFile))
	if viper.GetString("sheets.token_file") == "" {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Add this to your config.yaml:\nsheets:\n  token_file: "+tokenFile))
	}
	return nil
}
