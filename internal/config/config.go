package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// DevtoolsAddr is where the devtools HTTP surface listens. "off"
	// disables it.
	DevtoolsAddr string `env:"DEVTOOLS_ADDR" envDefault:"127.0.0.1:8090"`
	// DevtoolsTokenHash is a bcrypt hash of the bearer token that guards
	// the mutating devtools endpoints. Empty leaves them open.
	DevtoolsTokenHash string `env:"DEVTOOLS_TOKEN_HASH"`

	DBPath   string `env:"DB_PATH" envDefault:"data/save.db"`
	SaveSlot string `env:"SAVE_SLOT" envDefault:"PlayerData"`
	SaveKey  string `env:"SAVE_KEY"`

	CatalogPath    string `env:"CATALOG_PATH" envDefault:"config/catalog.yaml"`
	StorefrontPath string `env:"STOREFRONT_PATH" envDefault:"config/storefront.yaml"`
	RequireConsent bool   `env:"REQUIRE_CONSENT" envDefault:"true"`

	IconDir       string `env:"ICON_DIR" envDefault:"assets/icons"`
	IconCacheSize int    `env:"ICON_CACHE_SIZE" envDefault:"64"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if len(cfg.SaveKey) > 64 {
		return nil, fmt.Errorf("SAVE_KEY is %d bytes, at most 64 allowed", len(cfg.SaveKey))
	}
	return &cfg, nil
}
