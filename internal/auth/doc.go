// Package auth implements account management and token-based sessions
// for Gatehouse.
//
// It covers the full credential lifecycle: Argon2id password hashing,
// account creation and lookup through a SQLite-backed repository, and
// paired access/refresh JWTs issued and verified by TokenManager.
//
// Access tokens carry the holder's identity and role and are validated
// by signature alone (no database hit). Refresh tokens carry only the
// subject and are exchanged for fresh access tokens after a repository
// lookup, so role changes take effect on the next refresh.
package auth
