// Package config loads the marsview configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marsview/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	base_url = "https://mars.udacity.com/"
//	timeout_seconds = 10
//	refresh_seconds = 0        # 0 disables auto refresh
//	default_filter = "all"     # rent, buy, or all
//	user_agent = "marsview/0.1"
//	log_level = "info"         # debug, info, warn, error
//	log_path = "~/.local/state/marsview/marsview.log"
//
// Every field is optional. An unknown default_filter is an error rather than
// a silent fallback, since it would change which listings are requested.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and invalid field values
//
// The returned Config is a plain value; nothing is cached at package level.
package config
