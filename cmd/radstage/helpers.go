package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Veraticus/radstage/internal/config"
	"github.com/Veraticus/radstage/internal/repository"
	"github.com/Veraticus/radstage/internal/storage"
	"github.com/spf13/viper"
)

const (
	defaultOutputDir  = "dist/main_task"
	defaultDatasetDir = "dataset/radnlp_2024_train_val/ja/main_task"
)

// openRepository returns the result store for one experiment.
func openRepository(experiment string) (*repository.FileRepository, error) {
	root := viper.GetString("output.dir")
	if root == "" {
		root = defaultOutputDir
	}
	return repository.New(config.ExpandPath(root), experiment)
}

// openLedger opens and migrates the attempt ledger inside the experiment directory.
func openLedger(ctx context.Context, repo *repository.FileRepository) (*storage.SQLiteStorage, error) {
	ledger, err := storage.NewSQLiteStorage(filepath.Join(repo.Dir(), storage.LedgerFile))
	if err != nil {
		return nil, err
	}

	if err := ledger.Migrate(ctx); err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return ledger, nil
}

func closeLedger(ledger *storage.SQLiteStorage) {
	if err := ledger.Close(); err != nil {
		slog.Error("Failed to close attempt ledger", "error", err)
	}
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch os := runtime.GOOS; os {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
