package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Font source names accepted by FONTS.
const (
	FontsSystem   = "system"
	FontsEmbedded = "embedded"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Host             string
	Port             string
	PublicURL        string
	Fonts            string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	PhotoReadTimeout time.Duration
	PhotoMaxBytes    int64
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Host:             getEnv("HOST", "127.0.0.1"),
		Port:             port,
		PublicURL:        getEnv("PUBLIC_URL", "http://localhost:"+port),
		Fonts:            getEnv("FONTS", FontsSystem),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		PhotoReadTimeout: time.Second * time.Duration(getEnvInt("PHOTO_READ_TIMEOUT_SECONDS", 10)),
		PhotoMaxBytes:    int64(getEnvInt("PHOTO_MAX_BYTES", 5<<20)),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	u, err := url.Parse(cfg.PublicURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("PUBLIC_URL must be an absolute http(s) URL, got %q", cfg.PublicURL)
	}

	if cfg.Fonts != FontsSystem && cfg.Fonts != FontsEmbedded {
		return nil, fmt.Errorf("FONTS must be %q or %q, got %q", FontsSystem, FontsEmbedded, cfg.Fonts)
	}

	return cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return c.Host + ":" + c.Port }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
