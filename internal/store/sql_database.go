package store

import (
	"database/sql"

	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/migrations"
)

// DB wraps the SQLite connection used by the snapshot cache.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies pending goose migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
