// Package storage persists the engine snapshot to a local SQLite database or
// a JSON file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/liftlog/internal/constants"
	lerrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
)

// ErrNotInitialized is returned by Load when no store exists at the path
var ErrNotInitialized = errors.New("storage not initialized")

// New returns the provider for driver without opening it
func New(driver, path string) (Provider, error) {
	switch driver {
	case constants.DriverSQLite:
		return NewSQLiteStore(path), nil
	case constants.DriverJSON:
		return NewJSONStore(path), nil
	default:
		return nil, lerrors.InvalidInput("unknown storage driver %q", driver)
	}
}

func notInitialized(path string) error {
	return fmt.Errorf("%w at %s, run '%s init' first", ErrNotInitialized, path, constants.AppName)
}

func encodeSnapshot(s models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot parses a stored snapshot. Older or partial snapshots are
// filled with empty collections; newer versions are read best-effort.
func decodeSnapshot(data []byte) (models.Snapshot, error) {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	if s.Version > constants.SnapshotVersion {
		logger.Warn("Snapshot was written by a newer version, loading best-effort",
			"version", s.Version, "supported", constants.SnapshotVersion)
	}
	if s.Normalize() {
		logger.Debug("Snapshot had missing fields, filled with defaults", "version", s.Version)
	}
	if s.Version == 0 {
		s.Version = constants.SnapshotVersion
	}

	return s, nil
}
