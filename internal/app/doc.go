// Package app is the composition root for marsview.
//
// # Overview
//
// Run and RunOnce share one setup path:
//
//  1. Load config from ~/.config/marsview/config.toml and prefs
//  2. Build the slog logger (log file in TUI mode, caller-supplied otherwise)
//  3. Optionally start the local mock API and point the client at it
//  4. Build the listings client, state.Store, and fetcher.Fetcher
//  5. Pick the initial filter: flag, then saved prefs, then config default
//
// Run then issues the initial fetch, starts the refresher, and hands the
// store and fetcher to the UI. RunOnce fetches once, waits, and prints a
// table to the given writer.
//
// # Refresh Behavior
//
// StartRefresher re-issues the current filter every interval. While fetches
// keep failing the wait doubles per consecutive failure up to maxBackoff, so
// an unreachable API is not hammered. A zero interval disables it.
//
// # Shutdown
//
// Teardown runs in reverse order of construction. The fetcher is closed
// first, so no store write or log line happens after the mock server and the
// log file are gone.
package app
