// Package logging provides structured logging for Gatehouse.
//
// It wraps Go's standard log/slog package to give every component
// consistent, machine-parsable log output with service and version
// fields attached by default.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Security
//
// Never log secrets, tokens, passwords, or password hashes. Log token
// failures by kind (expired, malformed, type mismatch), never by value.
package logging
