package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Wardrobe.Debounce() != 800*time.Millisecond {
		t.Errorf("debounce = %v, want 800ms", cfg.Wardrobe.Debounce())
	}
}

func TestWardrobeConfig_DebounceBounds(t *testing.T) {
	for _, ms := range []int{0, -5, 10001} {
		cfg := WardrobeConfig{DebounceMS: ms}
		if err := cfg.Validate(); err == nil {
			t.Errorf("debounce %d ms should fail validation", ms)
		}
	}
	cfg := WardrobeConfig{DebounceMS: 800}
	if err := cfg.Validate(); err != nil {
		t.Errorf("800 ms should pass: %v", err)
	}
}

func TestAIConfig_ModelsRequired(t *testing.T) {
	cfg := AIConfig{Model: "", ImageModel: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("missing model should fail")
	}
	// The key itself is optional; AI features degrade per-call.
	cfg = AIConfig{APIKey: "", Model: "m", ImageModel: "im"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty api key should pass: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestFullConfig_DataValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Data.SQLitePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch missing sqlite path")
	}
}
