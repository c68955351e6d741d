package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	lerrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/migration"
	"github.com/julianstephens/liftlog/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return lerrors.Persistence("create config directory", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(context.Background()); err != nil {
		return lerrors.Persistence("run migrations", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return notInitialized(s.path)
	}

	if err := s.open(); err != nil {
		return err
	}

	// Migrations ship inside the binary, so pending ones are applied on load
	if err := s.runMigrations(context.Background()); err != nil {
		return lerrors.Persistence("run migrations", err)
	}
	return nil
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return lerrors.Persistence("open database", err)
	}
	// One writer at a time keeps SQLITE_BUSY out of the flusher
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return lerrors.Persistence("close database", err)
	}
	return nil
}

func (s *SQLiteStore) runMigrations(ctx context.Context) error {
	runner := migration.NewRunner(s.db, migration.SQLite())
	_, err := runner.Apply(ctx)
	return err
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	if s.db == nil {
		return models.Snapshot{}, lerrors.Persistence("load snapshot", errors.New("storage not loaded"))
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", constants.SnapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewSnapshot(constants.SnapshotVersion), nil
	}
	if err != nil {
		return models.Snapshot{}, lerrors.Persistence("load snapshot", err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return models.Snapshot{}, lerrors.Persistence("load snapshot", err)
	}
	return snap, nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	if s.db == nil {
		return lerrors.Persistence("save snapshot", errors.New("storage not loaded"))
	}

	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return lerrors.Persistence("save snapshot", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return lerrors.Persistence("save snapshot", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, constants.SnapshotKey, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return lerrors.Persistence("save snapshot", fmt.Errorf("upsert %s: %w", constants.SnapshotKey, err))
	}

	if err := tx.Commit(); err != nil {
		return lerrors.Persistence("save snapshot", err)
	}
	return nil
}

// SavedAt reports when the snapshot was last written
func (s *SQLiteStore) SavedAt(ctx context.Context) (time.Time, bool, error) {
	if s.db == nil {
		return time.Time{}, false, lerrors.Persistence("read snapshot timestamp", errors.New("storage not loaded"))
	}

	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM kv WHERE key = ?", constants.SnapshotKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, lerrors.Persistence("read snapshot timestamp", err)
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, lerrors.Persistence("read snapshot timestamp", err)
	}
	return at, true, nil
}

// SchemaStatus reports the applied and bundled schema versions
func (s *SQLiteStore) SchemaStatus(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, lerrors.Persistence("read schema version", errors.New("storage not loaded"))
	}

	runner := migration.NewRunner(s.db, migration.SQLite())
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, lerrors.Persistence("read schema version", err)
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, lerrors.Persistence("read schema version", err)
	}
	return current, latest, nil
}

// Ping checks that the database answers queries
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return lerrors.Persistence("ping database", errors.New("storage not loaded"))
	}
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return lerrors.Persistence("ping database", err)
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
