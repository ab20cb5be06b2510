package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/models"
)

// fakeFetcher отдаёт заданный ответ и считает вызовы.
type fakeFetcher struct {
	mu    sync.Mutex
	resp  models.SiteResponse
	err   error
	calls atomic.Int64
	// hook вызывается внутри Fetch, до возврата ответа
	hook func()
}

func (f *fakeFetcher) set(resp models.SiteResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp, f.err = resp, err
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (models.SiteResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	resp, err, hook := f.resp, f.err, f.hook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return resp, err
}

func existing(blob string) models.SiteResponse {
	return models.SiteResponse{EncryptedContent: blob, CurrentDBVersion: 2, ExpectedDBVersion: 2}
}

func receive(t *testing.T, w *Watcher) (Change, bool) {
	t.Helper()
	select {
	case c := <-w.Changes():
		return c, true
	default:
		return Change{}, false
	}
}

func TestWatcher_Poll(t *testing.T) {
	tests := []struct {
		name    string
		watched string
		known   string
		resp    models.SiteResponse
		err     error
		want    *Change
	}{
		{name: "unchanged", watched: "notes", known: "blob-1", resp: existing("blob-1")},
		{
			name: "saved elsewhere", watched: "notes", known: "blob-1", resp: existing("blob-2"),
			want: &Change{Name: "notes", EncryptedContent: "blob-2"},
		},
		{
			name: "deleted elsewhere", watched: "notes", known: "blob-1", resp: models.SiteResponse{IsNew: true, ExpectedDBVersion: 2},
			want: &Change{Name: "notes", Deleted: true},
		},
		{name: "still new", watched: "notes", known: "", resp: models.SiteResponse{IsNew: true}},
		{
			name: "created elsewhere", watched: "notes", known: "", resp: existing("blob-1"),
			want: &Change{Name: "notes", EncryptedContent: "blob-1"},
		},
		{name: "fetch error", watched: "notes", known: "blob-1", err: errors.New("timeout")},
		{name: "nothing watched", resp: existing("blob-2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{}
			f.set(tt.resp, tt.err)
			w := NewWatcher(f, time.Minute, logger.Nop())
			w.Watch(tt.watched, tt.known)

			w.poll(context.Background())

			got, ok := receive(t, w)
			if tt.want == nil {
				assert.False(t, ok, "unexpected change %+v", got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *tt.want, got)
		})
	}
}

func TestWatcher_ReportsEachChangeOnce(t *testing.T) {
	f := &fakeFetcher{}
	f.set(existing("blob-2"), nil)
	w := NewWatcher(f, time.Minute, logger.Nop())
	w.Watch("notes", "blob-1")

	w.poll(context.Background())
	_, ok := receive(t, w)
	require.True(t, ok)

	w.poll(context.Background())
	_, ok = receive(t, w)
	assert.False(t, ok)
}

func TestWatcher_DiscardsStaleFetch(t *testing.T) {
	f := &fakeFetcher{}
	f.set(existing("own-save"), nil)
	w := NewWatcher(f, time.Minute, logger.Nop())
	w.Watch("notes", "blob-1")

	// клиент сохраняет сайт, пока запрос ещё выполняется
	f.hook = func() { w.Watch("notes", "own-save") }

	w.poll(context.Background())
	_, ok := receive(t, w)
	assert.False(t, ok)
}

func TestWatcher_Unwatch(t *testing.T) {
	f := &fakeFetcher{}
	f.set(existing("blob-2"), nil)
	w := NewWatcher(f, time.Minute, logger.Nop())
	w.Watch("notes", "blob-1")
	w.Unwatch()

	w.poll(context.Background())
	assert.Zero(t, f.calls.Load())
}

func TestWatcher_OwnSaveIsNotReported(t *testing.T) {
	f := &fakeFetcher{}
	f.set(existing("own-save"), nil)
	w := NewWatcher(f, time.Minute, logger.Nop())
	w.Watch("notes", "blob-1")

	// опрос начался до сохранения, а ответ пришёл уже после записи на сервер
	f.hook = func() { w.Unwatch() }
	w.poll(context.Background())
	_, ok := receive(t, w)
	assert.False(t, ok)
	assert.Empty(t, w.Watched())

	// пока сохранение в пути, опросы не идут
	f.hook = nil
	w.poll(context.Background())
	assert.EqualValues(t, 1, f.calls.Load())

	w.Watch("notes", "own-save")
	w.poll(context.Background())
	_, ok = receive(t, w)
	assert.False(t, ok)
	assert.Equal(t, "notes", w.Watched())
}

func TestWatcher_RunPollsUntilStopped(t *testing.T) {
	f := &fakeFetcher{}
	f.set(existing("blob-2"), nil)
	w := NewWatcher(f, 10*time.Millisecond, logger.Nop())
	w.Watch("notes", "blob-1")

	w.Run(context.Background())

	select {
	case c := <-w.Changes():
		assert.Equal(t, "blob-2", c.EncryptedContent)
	case <-time.After(time.Second):
		t.Fatal("change was not reported")
	}

	w.Stop()
	callsAfterStop := f.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, f.calls.Load(), "после Stop новых запросов быть не должно")
}

func TestWatcher_DisabledInterval(t *testing.T) {
	f := &fakeFetcher{}
	w := NewWatcher(f, 0, logger.Nop())
	w.Watch("notes", "blob-1")

	w.Run(context.Background())
	time.Sleep(20 * time.Millisecond)
	w.Stop()

	assert.Zero(t, f.calls.Load())
}

func TestWatcher_StopWithoutRun_NoPanic(t *testing.T) {
	w := NewWatcher(&fakeFetcher{}, time.Minute, logger.Nop())

	assert.NotPanics(t, func() {
		w.Stop()
		w.Stop()
	})
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	f := &fakeFetcher{}
	f.set(existing("blob-1"), nil)
	w := NewWatcher(f, 5*time.Millisecond, logger.Nop())
	w.Watch("notes", "blob-1")

	ctx, cancel := context.WithCancel(context.Background())
	w.Run(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	w.Stop()

	calls := f.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, f.calls.Load())
}
