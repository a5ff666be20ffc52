package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Launcher modes for the session manager
const (
	LauncherExec   = "exec"
	LauncherDocker = "docker"
)

// Config holds everything the service reads from the process environment.
// Values are loaded once at startup and never re-read per request.
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"APP_ENV" env-default:"production"`

	StorageBucket string `env:"STORAGE_BUCKET"`

	BrowserLauncher string `env:"BROWSER_LAUNCHER" env-default:"exec"`
	ChromeImage     string `env:"CHROME_IMAGE" env-default:"browserless/chrome:latest"`

	LinkCheckCap     int `env:"LINK_CHECK_CAP" env-default:"50"`
	LinkCheckWorkers int `env:"LINK_CHECK_WORKERS" env-default:"5"`

	RateLimitPerHour int `env:"RATE_LIMIT_PER_HOUR" env-default:"100"`
	RateLimitBurst   int `env:"RATE_LIMIT_BURST" env-default:"10"`

	AxeScriptPath  string `env:"AXE_SCRIPT_PATH" env-default:"./assets/axe.min.js"`
	LighthousePath string `env:"LIGHTHOUSE_PATH" env-default:"lighthouse"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET is required")
	}
	if cfg.BrowserLauncher != LauncherExec && cfg.BrowserLauncher != LauncherDocker {
		return nil, fmt.Errorf("unknown BROWSER_LAUNCHER %q", cfg.BrowserLauncher)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
