package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testSecret is a 32+ character secret accepted by validation.
const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != EnvDevelopment {
		t.Errorf("default environment = %q, want %q", cfg.Environment, EnvDevelopment)
	}
	if cfg.Security.JWT.AccessTokenTTL != 15 {
		t.Errorf("default access TTL = %d minutes, want 15", cfg.Security.JWT.AccessTokenTTL)
	}
	if cfg.Security.JWT.RefreshTokenTTL != 10080 {
		t.Errorf("default refresh TTL = %d minutes, want 10080", cfg.Security.JWT.RefreshTokenTTL)
	}
	if !cfg.Security.RateLimit.Enabled {
		t.Error("rate limiting should be enabled by default")
	}
}

func TestValidate_MissingAccessSecret(t *testing.T) {
	cfg := Default()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail without an access secret")
	}
	if !strings.Contains(err.Error(), "access_secret is required") {
		t.Errorf("error should name the missing secret, got %v", err)
	}
}

func TestValidate_ShortSecrets(t *testing.T) {
	cfg := Default()
	cfg.Security.JWT.AccessSecret = "too-short"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a short access secret")
	}

	cfg.Security.JWT.AccessSecret = testSecret
	cfg.Security.JWT.RefreshSecret = "also-short"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a short refresh secret")
	}
}

func TestValidate_RefreshSecretOptional(t *testing.T) {
	cfg := Default()
	cfg.Security.JWT.AccessSecret = testSecret

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with empty refresh secret should pass, got %v", err)
	}
}

func TestValidate_Environment(t *testing.T) {
	cfg := Default()
	cfg.Security.JWT.AccessSecret = testSecret
	cfg.Environment = "staging"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown environment")
	}
}

func TestValidate_TTLs(t *testing.T) {
	cfg := Default()
	cfg.Security.JWT.AccessSecret = testSecret
	cfg.Security.JWT.AccessTokenTTL = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a zero access token TTL")
	}
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("GATEHOUSE_JWT_SECRET", testSecret)
	t.Setenv("GATEHOUSE_DATABASE_PATH", "/tmp/gatehouse-test.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file should use defaults+env, got %v", err)
	}
	if cfg.Security.JWT.AccessSecret != testSecret {
		t.Error("env override for access secret not applied")
	}
	if cfg.Database.Path != "/tmp/gatehouse-test.db" {
		t.Error("env override for database path not applied")
	}
}

func TestLoad_YAMLAndOverrides(t *testing.T) {
	yaml := `
environment: production
server:
  port: 9090
security:
  jwt:
    access_token_ttl: 5
  cookie:
    domain: example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("GATEHOUSE_JWT_SECRET", testSecret)
	t.Setenv("GATEHOUSE_SERVER_PORT", "9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("environment from YAML not applied")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("env should override YAML port, got %d", cfg.Server.Port)
	}
	if cfg.Security.JWT.AccessTokenTTL != 5 {
		t.Errorf("access TTL from YAML = %d, want 5", cfg.Security.JWT.AccessTokenTTL)
	}
	if cfg.Security.Cookie.Domain != "example.com" {
		t.Errorf("cookie domain = %q, want example.com", cfg.Security.Cookie.Domain)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("GATEHOUSE_JWT_SECRET", testSecret)

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if got := cfg.Security.AccessTokenTTL().Minutes(); got != 15 {
		t.Errorf("AccessTokenTTL() = %v minutes, want 15", got)
	}
	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v seconds, want 30", got)
	}
}
