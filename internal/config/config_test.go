package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio-user")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("ACCESS_SECRET_KEY", "access-secret")
	t.Setenv("REFRESH_SECRET_KEY", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("api port = %d, want 8080", cfg.API.Port)
	}
	if got := cfg.Database.DSN(); got != "host=localhost port=5432 user=resumehub password=resumehub dbname=resumehub sslmode=disable" {
		t.Errorf("dsn = %q", got)
	}
	if got := cfg.Redis.Addr(); got != "localhost:6379" {
		t.Errorf("redis addr = %q", got)
	}
	if cfg.Auth.AccessTTL() != 12*time.Hour {
		t.Errorf("access ttl = %v, want 12h", cfg.Auth.AccessTTL())
	}
	if cfg.Auth.RefreshTTL() != 7*24*time.Hour {
		t.Errorf("refresh ttl = %v, want 168h", cfg.Auth.RefreshTTL())
	}
	if cfg.API.LoginLockTTL() != 15*time.Minute {
		t.Errorf("lock ttl = %v, want 15m", cfg.API.LoginLockTTL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9001")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("POSTGRES_DB", "resumes")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("ACCESS_TTL_HOURS", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 9001 {
		t.Errorf("api port = %d, want 9001", cfg.API.Port)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Name != "resumes" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if got := cfg.Redis.Addr(); got != "cache.internal:6379" {
		t.Errorf("redis addr = %q", got)
	}
	if cfg.Auth.AccessTTL() != time.Hour {
		t.Errorf("access ttl = %v, want 1h", cfg.Auth.AccessTTL())
	}
}

func TestLoadRejectsSharedSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REFRESH_SECRET_KEY", "access-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio-user")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("ACCESS_SECRET_KEY", "")
	t.Setenv("REFRESH_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing secrets")
	}
}
