package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/finleydale/gatehouse/internal/auth"
)

// Cookie names for the two token classes.
const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// refreshCookiePath confines the long-lived refresh cookie to the
	// auth endpoints so it never rides along on ordinary API calls.
	refreshCookiePath = "/api/v1/auth"
)

// setSessionCookies writes both token cookies for a new session.
func (s *Server) setSessionCookies(w http.ResponseWriter, pair *auth.TokenPair) {
	s.setAccessCookie(w, pair.AccessToken)
	http.SetCookie(w, s.buildCookie(refreshCookieName, pair.RefreshToken, refreshCookiePath, s.tokens.RefreshTTL()))
}

// setAccessCookie writes only the access token cookie, used on refresh.
func (s *Server) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, s.buildCookie(accessCookieName, token, "/", s.tokens.AccessTTL()))
}

// clearSessionCookies expires both token cookies. Safe to call whether or
// not the cookies are present, so sign-out is idempotent.
func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	expireNow := func(name, path string) *http.Cookie {
		c := s.buildCookie(name, "", path, 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		return c
	}
	http.SetCookie(w, expireNow(accessCookieName, "/"))
	http.SetCookie(w, expireNow(refreshCookieName, refreshCookiePath))
}

// buildCookie applies the environment-dependent attributes. Cookies are
// always httpOnly; production additionally gets Secure, SameSite=Strict,
// and the configured domain. Development keeps Lax so local cross-port
// frontends work.
func (s *Server) buildCookie(name, value, path string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cfg.IsProduction() {
		c.Secure = true
		c.SameSite = http.SameSiteStrictMode
		c.Domain = s.cfg.Security.Cookie.Domain
	}
	return c
}

// readAccessToken extracts the access token from the request, preferring
// the session cookie and falling back to an Authorization bearer header.
func readAccessToken(r *http.Request) (string, bool) {
	if c, err := r.Cookie(accessCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token, true
	}

	return "", false
}

// readRefreshToken extracts the refresh token. Cookie only: refresh
// tokens are never accepted from headers.
func readRefreshToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(refreshCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
