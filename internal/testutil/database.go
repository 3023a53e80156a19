// Package testutil provides shared fixtures for radstage tests: a migrated
// attempt ledger and an on-disk dataset builder.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/radstage/internal/storage"
)

// SetupTestLedger opens a migrated attempt ledger in dir. It is closed when
// the test finishes.
//
// Example:
//
//	repo := newTestRepository(t)
//	ledger := testutil.SetupTestLedger(t, repo.Dir())
func SetupTestLedger(t *testing.T, dir string) *storage.SQLiteStorage {
	t.Helper()

	ledger, err := storage.NewSQLiteStorage(filepath.Join(dir, storage.LedgerFile))
	if err != nil {
		t.Fatalf("failed to create test ledger: %v", err)
	}
	t.Cleanup(func() {
		if err := ledger.Close(); err != nil {
			t.Errorf("failed to close test ledger: %v", err)
		}
	})

	if err := ledger.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test ledger: %v", err)
	}
	return ledger
}
