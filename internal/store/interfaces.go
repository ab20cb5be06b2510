// Package store implements the local snapshot cache of the client.
//
// A snapshot is the last encrypted blob fetched for a site together with the
// record versions reported by the remote store. Only ciphertext is kept on
// disk; blobs are zstd-compressed before they are written to SQLite.
package store

import (
	"context"

	"github.com/MKhiriev/go-protected-text/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/snapshot_repository_mock.go -package=mock

// SnapshotRepository persists one snapshot per site name.
type SnapshotRepository interface {
	// SaveSnapshot inserts the snapshot or replaces the existing one for
	// the same name.
	SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error
	// GetSnapshot returns [ErrSnapshotNotFound] when nothing is cached for
	// name.
	GetSnapshot(ctx context.Context, name string) (models.Snapshot, error)
	// DeleteSnapshot removes the cached snapshot. Removing a name that is
	// not cached is not an error.
	DeleteSnapshot(ctx context.Context, name string) error
	// ListSnapshots returns all cached snapshots ordered by name.
	ListSnapshots(ctx context.Context) ([]models.Snapshot, error)
}
