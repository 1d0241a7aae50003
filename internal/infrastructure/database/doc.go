// Package database manages the SQLite connection for Gatehouse.
//
// It wraps database/sql with WAL-mode configuration, a single-writer
// connection pool suited to SQLite, restrictive file permissions (the
// database stores password hashes), health checks, and an embedded
// migration runner.
//
// Migrations are plain SQL files embedded into the binary by the
// migrations package and applied in filename-version order, each in its
// own transaction.
package database
