package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  path: "/var/lib/gymtrack/gymtrack.db"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "/var/lib/gymtrack/gymtrack.db" {
		t.Errorf("database.path = %q, want %q", cfg.Database.Path, "/var/lib/gymtrack/gymtrack.db")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled should default to false")
	}
}

// TestEnvOverride verifies that GYMTRACK_ env vars take precedence over YAML values.
// This ensures production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("GYMTRACK_DB_PATH", "/tmp/override.db")
	t.Setenv("GYMTRACK_SERVER_PORT", "9999")
	t.Setenv("GYMTRACK_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database.path = %q, want %q", cfg.Database.Path, "/tmp/override.db")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	// Unchanged fields should keep YAML values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
}

// TestValidationMissingPort verifies that missing required fields produce a clear error.
// Prevents starting the server with incomplete configuration.
func TestValidationMissingPort(t *testing.T) {
	yaml := `
server:
  host: "0.0.0.0"
database:
  path: "/tmp/gymtrack.db"
auth:
  api_key: "key"
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing port")
	}
}

// TestValidationMissingAPIKey verifies that a missing API key is rejected.
// Without an API key, the import and wipe endpoints would be unprotected.
func TestValidationMissingAPIKey(t *testing.T) {
	yaml := `
server:
  port: 8080
database:
  path: "/tmp/gymtrack.db"
auth: {}
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing api_key")
	}
}

// TestValidationTailscaleHostname verifies that enabling tailscale without a
// hostname is rejected.
func TestValidationTailscaleHostname(t *testing.T) {
	yaml := `
server:
  port: 8080
database:
  path: "/tmp/gymtrack.db"
auth:
  api_key: "key"
tailscale:
  enabled: true
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing tailscale hostname")
	}
}

// TestTailscalePortOptional verifies that server.port may be omitted when the
// listener comes from tsnet.
func TestTailscalePortOptional(t *testing.T) {
	yaml := `
database:
  path: "/tmp/gymtrack.db"
auth:
  api_key: "key"
tailscale:
  enabled: true
  hostname: "gymtrack"
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = false, want true")
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
