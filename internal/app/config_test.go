package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/inspect-backend/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("INSIGHT_CYCLE_CHECK", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("LINK_FETCH_TITLES", "")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.DB.Driver != db.DriverPostgres {
		t.Fatalf("driver = %q", cfg.DB.Driver)
	}
	if cfg.DB.MaxOpenConns != 10 {
		t.Fatalf("max open conns = %d", cfg.DB.MaxOpenConns)
	}
	if cfg.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("access ttl = %s", cfg.AccessTokenTTL)
	}
	if !cfg.InsightCycleCheck {
		t.Fatalf("cycle check should default on")
	}
	if cfg.LinkFetchTitles {
		t.Fatalf("link title fetching should default off")
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %q", cfg.Address())
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inspect.yaml")
	body := []byte("port: \"9000\"\ndb_driver: sqlite\nsqlite_path: /tmp/inspect-test.db\nrate_limit_rps: 3\ncors_origins: \"https://a.example, https://b.example\"\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("RATE_LIMIT_RPS", "7.5")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.SQLitePath != "/tmp/inspect-test.db" {
		t.Fatalf("db = %+v", cfg.DB)
	}
	if cfg.RateLimitRPS != 7.5 {
		t.Fatalf("env should win over file, rps = %v", cfg.RateLimitRPS)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigDurations(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "3600")
	t.Setenv("LINK_FETCH_TIMEOUT", "750ms")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("bare seconds: ttl = %s", cfg.AccessTokenTTL)
	}
	if cfg.LinkFetchTimeout != 750*time.Millisecond {
		t.Fatalf("timeout = %s", cfg.LinkFetchTimeout)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"bad driver", "DB_DRIVER", "mysql"},
		{"bad duration", "CACHE_TTL", "soon"},
		{"negative duration", "ACCESS_TOKEN_TTL", "-5"},
		{"negative rps", "RATE_LIMIT_RPS", "-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "")
			t.Setenv(tc.key, tc.val)
			if _, err := LoadConfig(""); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.val)
			}
		})
	}
}

func TestValidateProductionSecret(t *testing.T) {
	cfg := Config{
		Port:         "8080",
		LogMode:      "production",
		DB:           db.Config{Driver: db.DriverPostgres},
		JWTSecretKey: devJWTSecret,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected the dev secret to be rejected in production")
	}
	cfg.JWTSecretKey = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
