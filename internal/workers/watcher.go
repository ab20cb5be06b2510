// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-protected-text/internal/logger"
)

// Change reports that the remote copy of the watched site no longer matches
// the blob the client last saw.
type Change struct {
	Name             string
	EncryptedContent string
	// Deleted is set when the site no longer exists remotely.
	Deleted bool
}

// Watcher polls the remote store for the site currently open in the client
// and reports when someone else has saved or deleted it.
type Watcher struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *logger.Logger
	changes  chan Change

	mu         sync.Mutex
	name       string
	known      string
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewWatcher returns an idle watcher. An interval of zero or less disables
// polling; Run is then a no-op.
func NewWatcher(fetcher Fetcher, interval time.Duration, logger *logger.Logger) *Watcher {
	return &Watcher{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		changes:  make(chan Change, 1),
	}
}

// Changes delivers detected changes. At most one change is buffered; later
// ones are dropped until it is received.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Watch makes name the watched site with knownBlob as the last content the
// client has seen. Call it again after every own save.
func (w *Watcher) Watch(name, knownBlob string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.name = name
	w.known = knownBlob
	w.generation++
}

// Watched returns the name of the watched site, or "" when nothing is.
func (w *Watcher) Watched() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

// Unwatch stops reporting changes until the next Watch.
func (w *Watcher) Unwatch() {
	w.Watch("", "")
}

// Run launches the polling goroutine. A running watcher is restarted.
func (w *Watcher) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Debug().Str("func", "Watcher.Run").Msg("remote change watcher disabled")
		return
	}

	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				w.poll(jobCtx)
			}
		}
	}()
}

// Stop cancels the polling goroutine and waits for it to exit. Safe to call
// when the watcher is not running.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) poll(ctx context.Context) {
	w.mu.Lock()
	name, known, generation := w.name, w.known, w.generation
	w.mu.Unlock()

	if name == "" {
		return
	}

	resp, err := w.fetcher.Fetch(ctx, name)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.ForSite(name).Warn().Err(err).Str("func", "Watcher.poll").Msg("failed to fetch site")
		}
		return
	}

	change := Change{Name: name, EncryptedContent: resp.EncryptedContent, Deleted: resp.IsNew}
	if change.Deleted {
		change.EncryptedContent = ""
	}
	if change.EncryptedContent == known {
		return
	}

	w.mu.Lock()
	// the client saved or switched sites while the fetch was in flight
	if w.generation != generation {
		w.mu.Unlock()
		return
	}
	w.known = change.EncryptedContent
	w.mu.Unlock()

	w.logger.ForSite(name).Info().Str("func", "Watcher.poll").Bool("deleted", change.Deleted).Msg("remote change detected")

	select {
	case w.changes <- change:
	default:
	}
}
