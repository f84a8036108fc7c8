// Package main is the entry point for the file workspace server.
//
// The server manages the files under one workspace root: an ordered index
// mirrored to a manifest file, and a quota-bounded recycle bin that holds
// deleted entries until they are restored or purged.
//
// The server provides:
//   - REST API for creating, editing, renaming, sorting and searching files
//   - Recycle bin staging, restore, purge and orphan reclaim
//   - Prometheus metrics at /metrics
//   - Rate limiting, CORS and gzip compression
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML or TOML file (-config)
//   - CLI flags (override both)
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -root /srv/files
//
//	# Development mode (colored logs, debug level)
//	./server -dev -log-level debug
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
