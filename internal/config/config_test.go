package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StoreBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_STORE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_STORE_BACKEND")
	}
}

func TestLoad_WebhookSinkRequiresURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WEBHOOK_SINK_ENABLED", "true")
	t.Setenv("WEBHOOK_SINK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when WEBHOOK_SINK_ENABLED=true without WEBHOOK_SINK_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_WebhookSinkConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WEBHOOK_SINK_ENABLED", "true")
	t.Setenv("WEBHOOK_SINK_URL", "https://hooks.example.com/dimba")
	t.Setenv("WEBHOOK_SINK_TIMEOUT", "7s")
	t.Setenv("WEBHOOK_SINK_MAX_RETRIES", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.WebhookSinkEnabled {
		t.Fatalf("expected WebhookSinkEnabled=true")
	}
	if cfg.WebhookSinkURL != "https://hooks.example.com/dimba" {
		t.Fatalf("unexpected WebhookSinkURL: %q", cfg.WebhookSinkURL)
	}
	if cfg.WebhookSinkTimeout != 7*time.Second {
		t.Fatalf("unexpected WebhookSinkTimeout: %s", cfg.WebhookSinkTimeout)
	}
	if cfg.WebhookSinkMaxRetries != 4 {
		t.Fatalf("unexpected WebhookSinkMaxRetries: %d", cfg.WebhookSinkMaxRetries)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StoreBackend != StorePostgres {
		t.Fatalf("unexpected StoreBackend: %q", cfg.StoreBackend)
	}
	if cfg.EventBufferSize != 50 {
		t.Fatalf("unexpected EventBufferSize: %d", cfg.EventBufferSize)
	}
	if cfg.WriteTimeout != 0 {
		t.Fatalf("expected no write timeout for SSE streams, got %s", cfg.WriteTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_CORSParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://dimba-league.co.ke, https://admin.dimba-league.co.ke")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://admin.dimba-league.co.ke" {
		t.Fatalf("unexpected second origin: %q", cfg.CORSAllowedOrigins[1])
	}
}
