package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_STORE", "")
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("expected base url %s, got %s", defaultAPIBaseURL, cfg.APIBaseURL)
	}
	if cfg.TokenStore != StoreFile {
		t.Fatalf("expected file token store, got %s", cfg.TokenStore)
	}
	if cfg.APITimeout != defaultAPITimeout {
		t.Fatalf("expected api timeout %s, got %s", defaultAPITimeout, cfg.APITimeout)
	}
	if cfg.Address() != ":3000" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadTrimsBaseURLAndParsesDurations(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://bank.example.com/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://bank.example.com" {
		t.Fatalf("expected trimmed base url, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.APITimeout)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("expected 3s shutdown, got %s", cfg.ShutdownPeriod)
	}
}

func TestLoadRejectsBackendWithoutURL(t *testing.T) {
	t.Setenv("TOKEN_STORE", StoreRedis)
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "REDIS_URL") {
		t.Fatalf("expected REDIS_URL error, got %v", err)
	}
}

func TestLoadTokenStoreKey(t *testing.T) {
	t.Setenv("TOKEN_STORE_KEY", base64.StdEncoding.EncodeToString([]byte("short")))
	if _, err := Load(); err == nil {
		t.Fatalf("expected short key to be rejected")
	}

	key := make([]byte, tokenKeyLength)
	t.Setenv("TOKEN_STORE_KEY", base64.StdEncoding.EncodeToString(key))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.TokenStoreKey) != tokenKeyLength {
		t.Fatalf("expected %d byte key, got %d", tokenKeyLength, len(cfg.TokenStoreKey))
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT_SECONDS", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid timeout error")
	}
}
