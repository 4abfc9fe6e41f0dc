// Package state provides the thread-safe store shared by the fetcher and its
// consumers.
//
// # Overview
//
// The Store holds three independently observable values:
//
//   - Status: the outcome of the most recently initiated fetch
//     (loading, error, done; idle before the first fetch)
//   - Properties: the last published collection, in server order
//   - Selection: at most one property awaiting the detail view
//
// The fetcher writes, the UI reads and subscribes:
//
//	Producer (Fetcher):            Consumer (UI):
//	┌────────────────────┐        ┌──────────────────────┐
//	│ token := Begin(f)  │───────→│ Change{status}       │
//	│ FetchProperties()  │        │                      │
//	│ Finish(token, ...) │───────→│ Change{properties}   │
//	│                    │───────→│ Change{status}       │
//	└────────────────────┘        └──────────────────────┘
//
// # Generations
//
// Begin increments a generation counter and returns it as a token. Finish
// only applies when its token is still the latest generation, so a slow
// response for a superseded filter is dropped instead of overwriting the
// newer one.
//
// # Write Semantics
//
//	// Success: publish the collection, then the terminal status
//	store.Finish(token, props, nil)
//	→ Properties = props, Loaded = true
//	→ Status = done, LastError = nil, ConsecutiveFailures = 0
//
//	// Failure: publish the terminal status, then empty the collection
//	store.Finish(token, nil, err)
//	→ Status = error, LastError = err, ConsecutiveFailures++
//	→ Properties = [] (never the stale previous result)
//
// SetStatus, SetProperties, and SetSelection are plain writes with no
// coupling between fields; keeping them consistent is the writer's job.
//
// # Selection
//
// Selection is a two-state machine, EMPTY and PENDING(property):
//
//	Select(p)           EMPTY → PENDING(p), PENDING(q) → PENDING(p)
//	ConsumeSelection()  PENDING(p) → EMPTY, returns p
//	ConsumeSelection()  EMPTY → EMPTY, returns false
//
// A consumer that navigates on a pending selection takes it with
// ConsumeSelection so a replay never navigates twice.
//
// # Notification
//
// Every write notifies all current subscribers before the write returns.
// Each Change carries the field, a store-wide increasing Version, and a copy
// of the snapshot after the write. Callbacks run after the lock is released,
// on the writing goroutine; they may read or write the store. Consumers that
// hop goroutines can order changes by Version.
//
// # Defensive Copying
//
// Snapshot and Properties return copies; errors are re-wrapped so callers
// cannot share state with the store, while errors.As still reaches the
// underlying *listings.NetworkError or *listings.DecodeError.
package state
