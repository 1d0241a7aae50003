package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finleydale/gatehouse/internal/infrastructure/logging"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db := testDB(t)
	tokens := NewTokenManager(testAccessSecret, testRefreshSecret,
		15*time.Minute, 7*24*time.Hour, logging.Discard())
	return NewService(NewUserRepository(db), tokens, logging.Discard())
}

func TestService_CreateAccount(t *testing.T) {
	svc := testService(t)

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Name:     "  Ada Lovelace  ",
		Email:    "Ada@Example.COM",
		Password: "difference-engine-1842",
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if user.Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want trimmed", user.Name)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
	if user.Role != RoleUser {
		t.Errorf("Role = %q, want default user", user.Role)
	}
	if user.PasswordHash == "difference-engine-1842" {
		t.Error("password must not be stored in plaintext")
	}
}

func TestService_CreateAccount_DuplicateEmail(t *testing.T) {
	svc := testService(t)

	acc := NewAccount{Name: "One", Email: "same@example.com", Password: "first-password"}
	if _, err := svc.CreateAccount(context.Background(), acc); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	acc.Name = "Two"
	if _, err := svc.CreateAccount(context.Background(), acc); !errors.Is(err, ErrEmailExists) {
		t.Errorf("CreateAccount() duplicate error = %v, want ErrEmailExists", err)
	}
}

func TestService_CreateAccount_InvalidRole(t *testing.T) {
	svc := testService(t)

	_, err := svc.CreateAccount(context.Background(), NewAccount{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "superuser-password",
		Role:     Role("superuser"),
	})
	if err == nil {
		t.Error("CreateAccount() with unknown role should fail")
	}
}

func TestService_SignIn(t *testing.T) {
	svc := testService(t)

	if _, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "correct-password",
	}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	user, err := svc.SignIn(context.Background(), "ada@example.com", "correct-password")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("SignIn() email = %q", user.Email)
	}

	// Mixed-case email signs in against the lowercased stored form.
	if _, err := svc.SignIn(context.Background(), "ADA@example.com", "correct-password"); err != nil {
		t.Errorf("SignIn() with mixed-case email error = %v", err)
	}
}

func TestService_SignIn_UniformFailure(t *testing.T) {
	svc := testService(t)

	if _, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "correct-password",
	}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPw := svc.SignIn(context.Background(), "ada@example.com", "wrong-password")
	_, noUser := svc.SignIn(context.Background(), "ghost@example.com", "any-password")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongPw)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", noUser)
	}
	if wrongPw.Error() != noUser.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPw, noUser)
	}
}

func TestService_StartSession(t *testing.T) {
	svc := testService(t)

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "correct-password", Role: RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	pair, err := svc.StartSession(user)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	claims, err := svc.Tokens().VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess() error = %v", err)
	}
	if claims.Subject != user.ID || claims.Role != RoleAdmin {
		t.Errorf("access claims = %+v", claims)
	}

	rc, err := svc.Tokens().VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh() error = %v", err)
	}
	if rc.Subject != user.ID {
		t.Errorf("refresh subject = %q, want %q", rc.Subject, user.ID)
	}
}

func TestService_RefreshAccess(t *testing.T) {
	svc := testService(t)

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	access, fresh, err := svc.RefreshAccess(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("RefreshAccess() error = %v", err)
	}
	if fresh.ID != user.ID {
		t.Errorf("RefreshAccess() user = %q, want %q", fresh.ID, user.ID)
	}
	if _, err := svc.Tokens().VerifyAccess(access); err != nil {
		t.Errorf("new access token failed verification: %v", err)
	}

	// Deleted accounts cannot refresh.
	if _, _, err := svc.RefreshAccess(context.Background(), "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("RefreshAccess(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestService_RefreshAccess_ReflectsRoleChange(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	tokens := NewTokenManager(testAccessSecret, testRefreshSecret,
		15*time.Minute, time.Hour, logging.Discard())
	svc := NewService(repo, tokens, logging.Discard())

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	user.Role = RoleAdmin
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	access, _, err := svc.RefreshAccess(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("RefreshAccess() error = %v", err)
	}
	claims, err := tokens.VerifyAccess(access)
	if err != nil {
		t.Fatalf("VerifyAccess() error = %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("refreshed token role = %q, want promoted admin role", claims.Role)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	svc := testService(t)

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "Countess Lovelace", "")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Countess Lovelace" {
		t.Errorf("Name = %q", updated.Name)
	}
	if updated.Email != "ada@example.com" {
		t.Errorf("empty email should leave stored email untouched, got %q", updated.Email)
	}
}

func TestService_ChangePassword(t *testing.T) {
	svc := testService(t)

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Name: "Ada", Email: "ada@example.com", Password: "old-password",
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong-password", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ChangePassword() with wrong current error = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.SignIn(context.Background(), "ada@example.com", "new-password"); err != nil {
		t.Errorf("SignIn() with new password error = %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "ada@example.com", "old-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() with old password error = %v, want ErrInvalidCredentials", err)
	}
}
