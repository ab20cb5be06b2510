// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"

	"github.com/MKhiriev/go-protected-text/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run must not block: implementations spawn their own goroutines, which
// exit when ctx is cancelled or Stop is called. Stop blocks until they have.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// Fetcher reads the current record of a site from the remote store.
// adapter.ServerAdapter satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (models.SiteResponse, error)
}
