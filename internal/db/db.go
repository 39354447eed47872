package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/taskbox/internal/errors"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// DefaultFileName is the store file created inside the data directory.
const DefaultFileName = "tasks.db"

// Store is a handle to the SQLite file that owns the tasks table.
//
// A Store holds no open connection. Every operation opens the file,
// runs, and closes it again before returning, so the file on disk is
// always complete and can be copied or replaced between calls.
type Store struct {
	path     string
	readOnly bool
}

// Init opens (creating if needed) the store at baseDir/tasks.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.taskbox.
func Init(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	return Open(filepath.Join(baseDir, DefaultFileName))
}

// Open opens the store file at path, creating it and applying migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{path: path}
	err := s.withDB(context.Background(), func(database *sql.DB) error {
		if err := verifyJournalMode(database); err != nil {
			return err
		}
		return migrate(database)
	})
	if err != nil {
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(path, 0600)

	return s, nil
}

// OpenExisting opens a database file that must already exist, without
// migrating or changing its journal mode. Used to inspect other database
// files (schema comparison targets).
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFound("database", path)
		}
		return nil, errors.NewStorageUnavailable(err)
	}
	if info.IsDir() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("database path is a directory: %s", path))
	}
	return &Store{path: path, readOnly: true}, nil
}

// Path returns the location of the store file.
func (s *Store) Path() string {
	return s.path
}

// dsn builds the connection string. Pragmas in the DSN apply to every connection.
// Rollback-journal mode keeps all committed state in the main file.
func (s *Store) dsn() string {
	if s.readOnly {
		return s.path + "?_pragma=busy_timeout(5000)"
	}
	return s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)&_pragma=foreign_keys(1)"
}

// withDB opens a single-connection handle, runs fn, and always closes the handle.
func (s *Store) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	database, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return errors.NewStorageUnavailable(err)
	}
	defer database.Close()
	database.SetMaxOpenConns(1)

	if err := database.PingContext(ctx); err != nil {
		return errors.NewStorageUnavailable(err)
	}

	return fn(database)
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: tasks table.
	// AUTOINCREMENT keeps deleted ids from being handed out again; PRAGMA
	// table_info reports the same layout as a plain INTEGER PRIMARY KEY.
	if version < 1 {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		defer tx.Rollback()

		if err := migrateTasksTable(tx); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(tx, 1); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
	}

	return nil
}

const tasksTableDDL = `CREATE TABLE %s (id INTEGER PRIMARY KEY AUTOINCREMENT, task TEXT)`

// migrateTasksTable creates the tasks table, or rebuilds a plain
// INTEGER PRIMARY KEY table so that ids stop being reused.
// Rows keep their ids; the sequence starts at the highest surviving id.
func migrateTasksTable(tx *sql.Tx) error {
	var ddl string
	err := tx.QueryRow(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'tasks'`).Scan(&ddl)
	if stderrors.Is(err, sql.ErrNoRows) {
		_, err = tx.Exec(fmt.Sprintf(tasksTableDDL, "tasks"))
		return err
	}
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToUpper(ddl), "AUTOINCREMENT") {
		return nil
	}

	steps := []string{
		`DROP TABLE IF EXISTS tasks_rebuild`,
		fmt.Sprintf(tasksTableDDL, "tasks_rebuild"),
		`INSERT INTO tasks_rebuild (id, task) SELECT id, task FROM tasks ORDER BY id`,
		`DROP TABLE tasks`,
		`ALTER TABLE tasks_rebuild RENAME TO tasks`,
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("rebuild tasks table: %w", err)
		}
	}
	return nil
}

// Migrate brings the file at the store's path up to CurrentSchemaVersion.
// Open does this already; call it again after the file has been replaced.
func (s *Store) Migrate(ctx context.Context) error {
	if s.readOnly {
		return errors.NewInvalidRequest("store is read-only")
	}
	return s.withDB(ctx, migrate)
}

// verifyJournalMode checks that rollback-journal mode is active (set via connection string).
func verifyJournalMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if !strings.EqualFold(journalMode, "delete") {
		return fmt.Errorf("expected delete journal mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db execer, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// SchemaVersion reports the store's user_version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.withDB(ctx, func(database *sql.DB) error {
		var err error
		version, err = GetUserVersion(database)
		return err
	})
	return version, err
}
