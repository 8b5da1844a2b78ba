package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
	if cfg.ExitThreshold != 0.2 {
		t.Errorf("ExitThreshold = %v, want 0.2", cfg.ExitThreshold)
	}
	if cfg.ExitHistoryWindow != 3 {
		t.Errorf("ExitHistoryWindow = %d, want 3", cfg.ExitHistoryWindow)
	}
	if cfg.SlotPageSize != 3 {
		t.Errorf("SlotPageSize = %d, want 3", cfg.SlotPageSize)
	}
	if len(cfg.LLM.ChatModels) != 2 || cfg.LLM.ChatModels[0] != "gpt-4o" {
		t.Errorf("ChatModels = %v", cfg.LLM.ChatModels)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %v", cfg.IdempotencyTTL)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "weird")
	t.Setenv("EXIT_THRESHOLD", "0.5")
	t.Setenv("CHAT_MODELS", " gpt-4o , gpt-4o-mini ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn (normalized)", cfg.Log.Level)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release (fallback)", cfg.GinMode)
	}
	if cfg.ExitThreshold != 0.5 {
		t.Errorf("ExitThreshold = %v", cfg.ExitThreshold)
	}
	if len(cfg.LLM.ChatModels) != 2 || cfg.LLM.ChatModels[1] != "gpt-4o-mini" {
		t.Errorf("ChatModels = %v", cfg.LLM.ChatModels)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q, want /api/v2", cfg.APIBasePath)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		key, val, wantErr string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"EXIT_THRESHOLD", "1.5", "EXIT_THRESHOLD"},
		{"SLOT_PAGE_SIZE", "0", "SLOT_PAGE_SIZE"},
		{"CHAT_MODELS", " , ", "CHAT_MODELS"},
		{"RATE_BURST", "0", "RATE_BURST"},
		{"OTEL_TRACES_SAMPLER_ARG", "2", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nope")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustLoad()
}

func TestHelpers(t *testing.T) {
	if got := normalizeBasePath(""); got != "/" {
		t.Errorf("normalizeBasePath(\"\") = %q", got)
	}
	if got := normalizeBasePath("/"); got != "/" {
		t.Errorf("normalizeBasePath(\"/\") = %q", got)
	}
	t.Setenv("X_DUR", "250ms")
	if got := getdur("X_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("getdur = %v", got)
	}
	t.Setenv("X_BOOL", "on")
	if !getbool("X_BOOL", false) {
		t.Error("getbool(on) = false")
	}
}
