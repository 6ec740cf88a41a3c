package config

import (
	"bytes"
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.BGGCollectionAttempts != 5 {
		t.Errorf("BGGCollectionAttempts = %d, want 5", cfg.BGGCollectionAttempts)
	}
	if cfg.BGGCollectionDelay != 2*time.Second {
		t.Errorf("BGGCollectionDelay = %v, want 2s", cfg.BGGCollectionDelay)
	}
	if cfg.StorageEnabled {
		t.Error("storage should be disabled without bucket config")
	}
	if len(cfg.APIKeyPepper) != 32 {
		t.Errorf("APIKeyPepper length = %d, want 32", len(cfg.APIKeyPepper))
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ENHANCE_DELAY", "250ms")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.EnhanceDelay != 250*time.Millisecond {
		t.Errorf("EnhanceDelay = %v", cfg.EnhanceDelay)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLLMEnabled(t *testing.T) {
	cfg := &Config{LLMProvider: "openai"}
	if cfg.LLMEnabled() {
		t.Error("openai without key should be disabled")
	}
	cfg.LLMAPIKey = "sk-test"
	if !cfg.LLMEnabled() {
		t.Error("openai with key should be enabled")
	}
	ollama := &Config{LLMProvider: "ollama"}
	if !ollama.LLMEnabled() {
		t.Error("ollama needs no key")
	}
}

func TestDeriveAPIKeyPepperDeterministic(t *testing.T) {
	a := deriveAPIKeyPepper("secret-one")
	b := deriveAPIKeyPepper("secret-one")
	c := deriveAPIKeyPepper("secret-two")

	if !bytes.Equal(a, b) {
		t.Error("same secret should derive the same pepper")
	}
	if bytes.Equal(a, c) {
		t.Error("different secrets should derive different peppers")
	}
}
