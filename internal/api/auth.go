package api

import (
	"errors"
	"net/http"

	"github.com/finleydale/gatehouse/internal/audit"
	"github.com/finleydale/gatehouse/internal/auth"
)

// sessionResponse is the body returned when a session starts or refreshes.
// Tokens are also set as httpOnly cookies; the body copies serve clients
// that prefer the Authorization header.
type sessionResponse struct {
	User        *auth.User `json:"user"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"` // seconds
}

// handleSignup registers a new account and starts a session for it.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := s.service.CreateAccount(r.Context(), auth.NewAccount{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeConflict(w, "email already registered")
			return
		}
		s.logger.Error("signup failed", "error", err)
		writeInternalError(w, "failed to create account")
		return
	}

	pair, err := s.service.StartSession(user)
	if err != nil {
		s.logger.Error("issuing signup session failed", "error", err, "user_id", user.ID)
		writeInternalError(w, "failed to start session")
		return
	}

	s.recordAudit(r, audit.ActionSignup, user.ID, user.Email, nil)

	s.setSessionCookies(w, pair)
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:        user,
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
	})
}

// handleSignin verifies credentials and starts a session.
func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := s.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.recordAudit(r, audit.ActionSigninFailed, "", req.Email, nil)
			writeUnauthorized(w, auth.ErrInvalidCredentials.Error())
			return
		}
		s.logger.Error("signin failed", "error", err)
		writeInternalError(w, "failed to sign in")
		return
	}

	pair, err := s.service.StartSession(user)
	if err != nil {
		s.logger.Error("issuing session failed", "error", err, "user_id", user.ID)
		writeInternalError(w, "failed to start session")
		return
	}

	s.recordAudit(r, audit.ActionSignin, user.ID, user.Email, nil)

	s.setSessionCookies(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:        user,
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
	})
}

// handleRefresh exchanges a valid refresh cookie for a new access token.
// The refresh token itself is left untouched: a session lasts at most the
// refresh TTL from sign-in, it is not extended by use.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims := identityFrom(r.Context())

	access, user, err := s.service.RefreshAccess(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.clearSessionCookies(w)
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("refresh failed", "error", err, "user_id", claims.Subject)
		writeInternalError(w, "failed to refresh session")
		return
	}

	s.recordAudit(r, audit.ActionRefresh, user.ID, user.Email, nil)

	s.setAccessCookie(w, access)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:        user,
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
	})
}

// handleSignout clears the session cookies. Idempotent: succeeds whether
// or not a valid session is present.
func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	if claims := identityFrom(r.Context()); claims != nil {
		s.recordAudit(r, audit.ActionSignout, claims.Subject, claims.Email, nil)
	}

	s.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]any{"status": "signed out"})
}

// handleProfile returns the authenticated account.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := identityFrom(r.Context())

	user, err := s.service.Profile(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "account not found")
			return
		}
		s.logger.Error("profile lookup failed", "error", err, "user_id", claims.Subject)
		writeInternalError(w, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// handleUpdateProfile changes the authenticated account's name or email.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := identityFrom(r.Context())

	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Name == "" && req.Email == "" {
		writeBadRequest(w, "nothing to update")
		return
	}

	user, err := s.service.UpdateProfile(r.Context(), claims.Subject, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeConflict(w, "email already registered")
		case errors.Is(err, auth.ErrUserNotFound):
			writeNotFound(w, "account not found")
		default:
			s.logger.Error("profile update failed", "error", err, "user_id", claims.Subject)
			writeInternalError(w, "failed to update profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// handleChangePassword verifies the current password before replacing it.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := identityFrom(r.Context())

	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := s.service.ChangePassword(r.Context(), claims.Subject, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeUnauthorized(w, auth.ErrInvalidCredentials.Error())
		case errors.Is(err, auth.ErrUserNotFound):
			writeNotFound(w, "account not found")
		default:
			s.logger.Error("password change failed", "error", err, "user_id", claims.Subject)
			writeInternalError(w, "failed to change password")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "password changed"})
}

// recordAudit writes an audit event, logging rather than failing the
// request if the write does not succeed.
func (s *Server) recordAudit(r *http.Request, action, userID, email string, details map[string]any) {
	event := &audit.Event{
		Action:  action,
		UserID:  userID,
		Email:   email,
		Source:  clientIP(r),
		Details: details,
	}
	if err := s.auditLog.Record(r.Context(), event); err != nil {
		s.logger.Warn("recording audit event failed", "action", action, "error", err)
	}
}
