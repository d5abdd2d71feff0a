package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
moderation:
  check_max_per_minute: 120
  check_max_per_10sec: 30
  log_retention: 720h
  archive_interval: 1h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Moderation.CheckMaxPerMinute != 120 {
		t.Fatalf("unexpected check_max_per_minute: %d", cfg.Moderation.CheckMaxPerMinute)
	}
	if cfg.Moderation.CheckMaxPer10Sec != 30 {
		t.Fatalf("unexpected check_max_per_10sec: %d", cfg.Moderation.CheckMaxPer10Sec)
	}
	if cfg.Moderation.LogRetention != 720*time.Hour {
		t.Fatalf("unexpected log_retention: %v", cfg.Moderation.LogRetention)
	}
	// Defaults survive where yaml is silent.
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected read timeout default: %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.Postgres.DSN == "" {
		t.Fatalf("postgres dsn default is empty")
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://env:env@db:5432/env")
	t.Setenv("MODERATION_CHECK_MAX_PER_MINUTE", "7")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
postgres:
  dsn: postgres://yaml:yaml@db:5432/yaml
moderation:
  check_max_per_minute: 99
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Postgres.DSN != "postgres://env:env@db:5432/env" {
		t.Fatalf("env override lost: %q", cfg.Postgres.DSN)
	}
	if cfg.Moderation.CheckMaxPerMinute != 7 {
		t.Fatalf("env override lost: %d", cfg.Moderation.CheckMaxPerMinute)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("MODERATION_LOG_RETENTION", "not-a-duration")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed duration override")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	def := Default()
	if cfg.HTTP.Addr != def.HTTP.Addr {
		t.Fatalf("unexpected addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Moderation.CheckMaxPerMinute != def.Moderation.CheckMaxPerMinute {
		t.Fatalf("unexpected rate default: %d", cfg.Moderation.CheckMaxPerMinute)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()

	keys := []string{
		"APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL", "POSTGRES_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
		"JWT_SECRET", "JWT_ACCESS_TTL", "REFRESH_TTL",
		"MODERATION_CHECK_MAX_PER_MINUTE", "MODERATION_CHECK_MAX_PER_10SEC",
		"MODERATION_LOG_RETENTION", "MODERATION_ARCHIVE_INTERVAL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
