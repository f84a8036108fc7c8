// Package config provides 12-factor configuration management for the file
// workspace server.
//
// Configuration is loaded from environment variables with sensible defaults.
// A YAML or TOML file can be layered on top, and CLI flags override both.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, compression)
//   - Workspace: root directory, manifest file, recycle holding directory,
//     content checksum algorithm (blake2b or sha256)
//   - Recycle: recycle bin quota (items and bytes)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: allowed origins
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Serving %s on %s\n", cfg.Workspace.Root, cfg.Addr())
//
// Environment Variables:
//   - PORT, HOST, COMPRESS
//   - WORKSPACE_ROOT, MANIFEST_FILE, RECYCLE_DIR, WORKSPACE_CREATE,
//     CHECKSUM_ALGORITHM
//   - RECYCLE_MAX_ITEMS, RECYCLE_MAX_BYTES
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS
package config
