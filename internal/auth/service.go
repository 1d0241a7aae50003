package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finleydale/gatehouse/internal/infrastructure/logging"
)

// Service wires credential checks, account persistence, and token
// issuance into the operations the HTTP layer exposes.
type Service struct {
	users  UserRepository
	tokens *TokenManager
	log    *logging.Logger
}

// NewService creates the auth service.
func NewService(users UserRepository, tokens *TokenManager, log *logging.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

// Tokens exposes the token manager for transports that need TTLs.
func (s *Service) Tokens() *TokenManager { return s.tokens }

// NewAccount holds the fields required to register an account.
type NewAccount struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// CreateAccount registers a new account. The email is normalised to
// lowercase, the password is hashed, and the role defaults to user.
// Returns ErrEmailExists if the email is already registered.
func (s *Service) CreateAccount(ctx context.Context, acc NewAccount) (*User, error) {
	role := acc.Role
	if role == "" {
		role = RoleUser
	}
	if !IsValidRole(role) {
		return nil, fmt.Errorf("invalid role: %q", role)
	}

	hash, err := HashPassword(acc.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Name:         strings.TrimSpace(acc.Name),
		Email:        normaliseEmail(acc.Email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("account created", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// SignIn verifies an email/password pair and returns the account.
// Unknown email and wrong password both return ErrInvalidCredentials,
// so the response never reveals which part failed.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// StartSession issues a fresh access/refresh token pair for a user.
func (s *Service) StartSession(user *User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccess exchanges a verified refresh subject for a new access
// token. The account is looked up fresh so the new token reflects the
// current role and email, and deleted accounts cannot refresh.
func (s *Service) RefreshAccess(ctx context.Context, userID string) (string, *User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", nil, err
	}
	return access, user, nil
}

// Profile returns the account for an ID.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes an account's name and/or email. Empty fields are
// left unchanged.
func (s *Service) UpdateProfile(ctx context.Context, id, name, email string) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = strings.TrimSpace(name)
	}
	if email != "" {
		user.Email = normaliseEmail(email)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
