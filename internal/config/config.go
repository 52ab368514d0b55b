package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultPort             = "8080"
	defaultEditorSessionTTL = 30 * time.Minute
)

type Config struct {
	ProjectID   string
	Region      string
	LogLevel    string
	Port        string
	CatalogFile string
	// GridConfig names an optional TOML file with grid and editor settings.
	GridConfig       string
	EditorSessionTTL time.Duration
	Layout           *LayoutConfig
}

func New() (*Config, error) {
	cfg := &Config{
		ProjectID:        os.Getenv("PROJECTID"),
		Region:           os.Getenv("REGION"),
		LogLevel:         os.Getenv("LOGLEVEL"),
		Port:             getEnv("PORT", defaultPort),
		CatalogFile:      os.Getenv("CATALOGFILE"),
		GridConfig:       os.Getenv("GRIDCONFIG"),
		EditorSessionTTL: defaultEditorSessionTTL,
	}

	if v := os.Getenv("EDITORSESSIONTTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("EDITORSESSIONTTL: invalid duration %q", v)
		}
		cfg.EditorSessionTTL = ttl
	}

	layout, err := LoadLayoutFromFile(cfg.GridConfig)
	if err != nil {
		return nil, err
	}
	cfg.Layout = layout
	if layout.SessionTTL.Duration > 0 && os.Getenv("EDITORSESSIONTTL") == "" {
		cfg.EditorSessionTTL = layout.SessionTTL.Duration
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
