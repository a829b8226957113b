package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.JWTExpiry() != 24*time.Hour {
		t.Errorf("JWTExpiry() = %v, want 24h", cfg.JWTExpiry())
	}
	if cfg.TeXLiveTimeout != time.Minute {
		t.Errorf("TeXLiveTimeout = %v, want 1m", cfg.TeXLiveTimeout)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DOCUMENT_CACHE_TTL", "15m")
	t.Setenv("MAX_DB_CONNS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.DocumentCacheTTL != 15*time.Minute {
		t.Errorf("DocumentCacheTTL = %v, want 15m", cfg.DocumentCacheTTL)
	}
	if cfg.MaxDBConns != 4 {
		t.Errorf("MaxDBConns = %d, want 4", cfg.MaxDBConns)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "many")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestCacheKeys(t *testing.T) {
	day := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	if got := CacheKey.WorksheetSequenceKey(7, day); got != "user:7:worksheets:2026-02-13:seq" {
		t.Errorf("WorksheetSequenceKey() = %q", got)
	}
	if got := CacheKey.WorksheetDocumentKey(7, "abc", "answer_key", "pdf"); got != "user:7:worksheet:abc:answer_key:pdf" {
		t.Errorf("WorksheetDocumentKey() = %q", got)
	}
}
