package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-protected-text/internal/config"
	"github.com/MKhiriev/go-protected-text/internal/logger"
)

// ClientStorages groups the client-side storage repositories.
type ClientStorages struct {
	// SnapshotRepository is nil when the cache is disabled.
	SnapshotRepository SnapshotRepository

	db *DB
}

// NewClientStorages opens the SQLite database named by cfg.DB.DSN, applies
// migrations and wires the repositories. An empty DSN disables the cache:
// the returned value has a nil [SnapshotRepository].
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	if cfg.DB.DSN == "" {
		logger.Info().Msg("snapshot cache disabled")
		return &ClientStorages{}, nil
	}

	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		SnapshotRepository: NewSnapshotRepository(db, logger),
		db:                 db,
	}, nil
}

// Close releases the database connection, if any.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
