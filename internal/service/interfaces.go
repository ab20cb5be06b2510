// Package service implements the client use cases on top of the remote
// store adapter and the document model: fetching, opening, creating, saving
// and deleting protected sites, with an optional offline snapshot cache.
package service

import (
	"context"

	"github.com/MKhiriev/go-protected-text/internal/document"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/site_service_mock.go -package=mock

// SiteService is the client-side contract for working with protected sites.
type SiteService interface {
	// Get fetches the site and returns it locked. A site that was never
	// saved is returned as a new, already unlocked document. The fetched
	// blob is written to the snapshot cache when it is enabled.
	Get(ctx context.Context, name string) (*document.Document, error)

	// Open fetches and decrypts the site. Returns [ErrSiteNotFound] when the
	// site does not exist and [document.ErrDecryptionFailed] when the
	// password is wrong.
	Open(ctx context.Context, name, password string) (*document.Unlocked, error)

	// Create prepares a new site protected by password. When tabs are given
	// they become the content and the site is saved right away. Returns
	// [ErrSiteAlreadyExists] when the name is taken.
	Create(ctx context.Context, name, password string, tabs ...string) (*document.Unlocked, error)

	// Save submits the current content. After a successful save the
	// document is re-based so the caller can keep editing and save again.
	// A rejection by the remote store is reported as [ErrConflict].
	Save(ctx context.Context, site *document.Unlocked) error

	// Delete removes the site from the remote store. The handle becomes a
	// new site that keeps its password.
	Delete(ctx context.Context, site *document.Unlocked) error

	// Destroy opens the site with password and deletes it.
	Destroy(ctx context.Context, name, password string) error

	// Snapshot returns the locked copy kept in the local cache. Returns
	// [ErrCacheDisabled] without a cache and [store.ErrSnapshotNotFound]
	// when nothing was cached for name.
	Snapshot(ctx context.Context, name string) (*document.Document, error)

	// Recent lists the names of cached sites.
	Recent(ctx context.Context) ([]string, error)
}
