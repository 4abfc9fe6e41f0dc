// Package fetcher runs listing requests and publishes their outcome to a
// state.Store.
package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/marsview/internal/listings"
	"github.com/five82/marsview/internal/state"
)

// Fetcher issues one asynchronous request per Fetch call. Requests are tied to
// the owner context passed to New; Close tears them down.
type Fetcher struct {
	client listings.PropertyFetcher
	store  *state.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	last   listings.Filter
}

// New builds a Fetcher whose requests live no longer than ctx.
func New(ctx context.Context, client listings.PropertyFetcher, store *state.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Fetcher{
		client: client,
		store:  store,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		last:   listings.FilterAll,
	}
}

// Fetch publishes StatusLoading synchronously, then requests the listings for
// filter in the background. Overlapping calls all run to completion; only the
// most recently started one may publish its result.
func (f *Fetcher) Fetch(filter listings.Filter) {
	if filter == "" {
		filter = listings.FilterAll
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.logger.Debug("fetch ignored after close", "filter", filter.Value())
		return
	}
	f.last = filter
	// Counted before unlocking so Close waits for this call's writes too.
	f.wg.Add(1)
	f.mu.Unlock()

	// Subscribers run inside Begin; the lock is released so they may call
	// back into the fetcher.
	token := f.store.Begin(filter)
	go f.run(token, filter)
}

// Refresh re-issues the most recent filter.
func (f *Fetcher) Refresh() {
	f.mu.Lock()
	filter := f.last
	f.mu.Unlock()
	f.Fetch(filter)
}

// Filter returns the most recently requested filter.
func (f *Fetcher) Filter() listings.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Wait blocks until every started fetch has finished.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

// Close cancels in-flight requests and waits for them. No store write happens
// after Close returns, and a request ended by Close publishes nothing.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}

func (f *Fetcher) run(token uint64, filter listings.Filter) {
	defer f.wg.Done()

	start := time.Now()
	props, err := f.client.FetchProperties(f.ctx, filter)
	elapsed := time.Since(start)

	if f.ctx.Err() != nil {
		f.logger.Debug("fetch abandoned", "filter", filter.Value(), "generation", token)
		return
	}

	if err != nil {
		attrs := []any{
			"filter", filter.Value(),
			"generation", token,
			"kind", listings.Kind(err),
			"duration", elapsed,
			"error", err,
		}
		var netErr *listings.NetworkError
		if errors.As(err, &netErr) && netErr.StatusCode != 0 {
			attrs = append(attrs, "status", netErr.StatusCode)
		}
		f.logger.Warn("fetch failed", attrs...)
		props = nil
	}

	if !f.store.Finish(token, props, err) {
		f.logger.Debug("discarded stale response", "filter", filter.Value(), "generation", token)
		return
	}
	if err == nil {
		f.logger.Info("fetched properties", "filter", filter.Value(), "count", len(props), "duration", elapsed)
	}
}
