// Package config loads roulette's configuration from an optional YAML file
// and the environment.
//
// Config fields:
//   - Server.Port              — HTTP listen port (default 8080, env PORT)
//   - ImageMap.URLPrefix       — prefix for redirect targets (required, env IMAGE_URL_PREFIX)
//   - ImageMap.Path            — local map file; empty uses the embedded map (env IMAGE_MAP_PATH)
//   - ImageMap.Watch           — reload Path on change (env IMAGE_MAP_WATCH)
//   - Sync.URL / Sync.Interval — remote map polling (env IMAGE_MAP_SYNC_URL,
//     IMAGE_MAP_SYNC_INTERVAL in whole seconds)
//   - Metrics.Enabled          — serve /metrics (default true)
//   - Log.Level                — debug|info|warn|error (env LOG_LEVEL)
//
// Load(path) applies defaults, then the file (if path is non-empty), then
// environment overrides, then validates.
package config
