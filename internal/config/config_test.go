package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// clearEnv blanks every variable Load reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ALLINBANK_HTTP_PORT", "DB_PATH", "LOG_LEVEL", "ALLINBANK_JWT_SECRET", "ALLINBANK_TOKEN_TTL", "ALLINBANK_CURRENCY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if cfg.HTTPPort != want.HTTPPort || cfg.DBPath != want.DBPath || cfg.DefaultCurrency != "USD" {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if !cfg.DefaultBuyIn.Equal(want.DefaultBuyIn) {
		t.Errorf("DefaultBuyIn = %s, want %s", cfg.DefaultBuyIn, want.DefaultBuyIn)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9000
  log_level: debug
storage:
  db_path: /tmp/poker.db
auth:
  jwt_secret: from-file
  token_ttl: 2h
  bcrypt_cost: 4
game:
  currency: eur
  default_buy_in: "20.50"
`)
	clearEnv(t)
	t.Setenv("ALLINBANK_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort != 9000 {
		t.Errorf("HTTPPort = %d, want 9000", cfg.HTTPPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.DBPath != "/tmp/poker.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want env override", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %s, want 2h", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d, want 4", cfg.BcryptCost)
	}
	if cfg.DefaultCurrency != "EUR" {
		t.Errorf("DefaultCurrency = %q, want EUR", cfg.DefaultCurrency)
	}
	if cfg.DefaultBuyIn.String() != "20.5" {
		t.Errorf("DefaultBuyIn = %s, want 20.5", cfg.DefaultBuyIn)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "server: [unclosed"},
		{name: "bad ttl", body: "auth:\n  token_ttl: soon\n"},
		{name: "bad buy-in", body: "game:\n  default_buy_in: lots\n"},
		{name: "negative buy-in", body: "game:\n  default_buy_in: \"-5\"\n"},
		{name: "bad currency", body: "game:\n  currency: dollars\n"},
		{name: "bad port", body: "server:\n  http_port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
