package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/julianstephens/liftlog/internal/constants"
	lerrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
)

// JSONStore keeps the snapshot in a single file, replaced atomically on save
type JSONStore struct {
	path   string
	loaded bool
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return lerrors.Persistence("create config directory", err)
	}

	s.loaded = true
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.SaveSnapshot(context.Background(), models.NewSnapshot(constants.SnapshotVersion))
}

func (s *JSONStore) Load() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return notInitialized(s.path)
		}
		return lerrors.Persistence("stat storage", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.loaded = false
	return nil
}

func (s *JSONStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	if !s.loaded {
		return models.Snapshot{}, lerrors.Persistence("load snapshot", errors.New("storage not loaded"))
	}
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, lerrors.Persistence("load snapshot", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewSnapshot(constants.SnapshotVersion), nil
		}
		return models.Snapshot{}, lerrors.Persistence("load snapshot", err)
	}
	if len(data) == 0 {
		return models.NewSnapshot(constants.SnapshotVersion), nil
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return models.Snapshot{}, lerrors.Persistence("load snapshot", err)
	}
	return snap, nil
}

func (s *JSONStore) SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	if !s.loaded {
		return lerrors.Persistence("save snapshot", errors.New("storage not loaded"))
	}
	if err := ctx.Err(); err != nil {
		return lerrors.Persistence("save snapshot", err)
	}

	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return lerrors.Persistence("save snapshot", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return lerrors.Persistence("save snapshot", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it
// over path, so readers see either the old or the new file
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
