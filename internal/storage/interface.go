package storage

import (
	"context"

	"github.com/julianstephens/liftlog/internal/models"
)

// Provider persists the engine snapshot as a single blob
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Snapshot
	LoadSnapshot(ctx context.Context) (models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error

	// Utils
	GetConfigPath() string
}
