package infra

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "HOST", "PORT", "PUBLIC_URL", "FONTS",
		"HTTP_READ_TIMEOUT_SECONDS", "HTTP_WRITE_TIMEOUT_SECONDS", "HTTP_IDLE_TIMEOUT_SECONDS",
		"PHOTO_READ_TIMEOUT_SECONDS", "PHOTO_MAX_BYTES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.AppEnv != "development" || cfg.Addr() != "127.0.0.1:8080" {
		t.Fatalf("env %q addr %q", cfg.AppEnv, cfg.Addr())
	}
	if cfg.PublicURL != "http://localhost:8080" {
		t.Fatalf("PublicURL mismatch: got %q", cfg.PublicURL)
	}
	if cfg.Fonts != FontsSystem {
		t.Fatalf("Fonts mismatch: got %q", cfg.Fonts)
	}
	if cfg.PhotoReadTimeout != 10*time.Second || cfg.PhotoMaxBytes != 5<<20 {
		t.Fatalf("photo limits: %v, %d", cfg.PhotoReadTimeout, cfg.PhotoMaxBytes)
	}
	if cfg.HTTPReadTimeout != 15*time.Second || cfg.HTTPWriteTimeout != 30*time.Second || cfg.HTTPIdleTimeout != time.Minute {
		t.Fatalf("http timeouts: %v %v %v", cfg.HTTPReadTimeout, cfg.HTTPWriteTimeout, cfg.HTTPIdleTimeout)
	}
}

func TestLoadConfigInheritsPortInPublicURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "1919")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PublicURL != "http://localhost:1919" {
		t.Fatalf("PublicURL mismatch: got %q", cfg.PublicURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PUBLIC_URL", "https://og.example.com")
	t.Setenv("FONTS", "embedded")
	t.Setenv("PHOTO_READ_TIMEOUT_SECONDS", "3")
	t.Setenv("PHOTO_MAX_BYTES", "1024")
	t.Setenv("HTTP_WRITE_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" || cfg.PublicURL != "https://og.example.com" || cfg.Fonts != FontsEmbedded {
		t.Fatalf("config: %+v", cfg)
	}
	if cfg.PhotoReadTimeout != 3*time.Second || cfg.PhotoMaxBytes != 1024 {
		t.Fatalf("photo limits: %v, %d", cfg.PhotoReadTimeout, cfg.PhotoMaxBytes)
	}
	if cfg.HTTPWriteTimeout != 30*time.Second {
		t.Fatalf("unparseable timeout should fall back, got %v", cfg.HTTPWriteTimeout)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PUBLIC_URL", "og.example.com"},
		{"PUBLIC_URL", "ftp://og.example.com"},
		{"FONTS", "bitmap"},
		{"PORT", "http"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
