package app

import (
	"context"
	"time"

	"github.com/five82/marsview/internal/state"
)

const maxBackoff = 10 * time.Minute

type refresher interface {
	Refresh()
}

// StartRefresher re-issues the current filter every interval, backing off
// while fetches keep failing. It returns immediately; a non-positive interval
// disables it.
func StartRefresher(ctx context.Context, f refresher, store *state.Store, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		for {
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			f.Refresh()
		}
	}()
}

// calculateBackoff doubles base per consecutive failure, capped at
// maxBackoff (or base itself when base is already longer).
func calculateBackoff(failures int, base time.Duration) time.Duration {
	limit := max(maxBackoff, base)
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	return d
}
