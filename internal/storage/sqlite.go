package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// LedgerFile is the attempt ledger's file name inside an experiment directory.
const LedgerFile = "attempts.db"

// SQLiteStorage is the SQLite-backed attempt ledger.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
// Call Migrate before use.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer per experiment; a single connection keeps SQLite happy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// dataSourceName builds a file: URI so that '?', '#' and '%' in the path are
// not read as URI syntax.
func dataSourceName(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	u := url.URL{Path: filepath.ToSlash(dbPath)}
	return "file:" + u.EscapedPath() + "?_journal_mode=WAL&_busy_timeout=5000"
}

// Path is the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
