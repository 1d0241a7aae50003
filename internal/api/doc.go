// Package api provides the HTTP REST API for Gatehouse.
//
// It exposes account registration, sign-in, token refresh, profile
// management, and admin endpoints over chi, with sessions carried in
// httpOnly cookies or an Authorization bearer header.
//
// The server follows the standard lifecycle pattern:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
