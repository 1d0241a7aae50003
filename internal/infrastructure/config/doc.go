// Package config loads and validates Gatehouse configuration.
//
// Configuration is read from a YAML file, merged over explicit defaults,
// and overridden by GATEHOUSE_* environment variables. Validation runs
// once at load time; the rest of the application receives an immutable
// *Config and never re-checks settings per request.
//
// Secrets (token signing keys, cookie domain) are expected to come from
// the environment rather than the YAML file:
//
//	GATEHOUSE_JWT_SECRET          access token signing key (required)
//	GATEHOUSE_JWT_REFRESH_SECRET  refresh token signing key (recommended)
//	GATEHOUSE_COOKIE_DOMAIN       cookie domain for production
package config
