package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultGlamourStyle is the markdown style for the detail pane.
	DefaultGlamourStyle = "dark"

	DefaultBaseURL     = "http://localhost:8080"
	DefaultRecentLimit = 20
	DefaultTimeout     = 15 * time.Second
)

type AppConfig struct {
	BaseURL     string
	ExportDir   string
	RecentLimit int
	Timeout     time.Duration
}

func Parse() (AppConfig, error) {
	var cfg AppConfig

	flag.StringVar(&cfg.BaseURL, "url", "", "base URL of the ticket backend")
	flag.StringVar(&cfg.ExportDir, "export-dir", "", "directory for downloaded export files")
	flag.IntVar(&cfg.RecentLimit, "recent", DefaultRecentLimit, "number of tickets in the recent view")
	flag.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	flag.Parse()

	return cfg.normalize()
}

func (cfg AppConfig) normalize() (AppConfig, error) {
	var err error
	cfg.BaseURL, err = resolveBaseURL(cfg.BaseURL)
	if err != nil {
		return cfg, err
	}
	cfg.ExportDir, err = resolveExportDir(cfg.ExportDir)
	if err != nil {
		return cfg, err
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg, nil
}

func resolveBaseURL(explicit string) (string, error) {
	raw := strings.TrimSpace(explicit)
	if raw == "" {
		raw = os.Getenv("CHECKDESK_URL")
	}
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid backend URL %q", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func resolveExportDir(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Clean(explicit), nil
	}
	if fromEnv := os.Getenv("CHECKDESK_EXPORT_DIR"); fromEnv != "" {
		return filepath.Clean(fromEnv), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Downloads", "checkdesk"), nil
}
