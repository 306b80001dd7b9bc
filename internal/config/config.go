package config

import (
	"strings"
	"time"

	"github.com/SengHong/CertSend/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	Storage     StorageConfig
	Render      RenderConfig
	Outbox      OutboxConfig
	RateLimiter RateLimiterConfig
}

type StorageConfig struct {
	// Path to the bbolt database file holding saved templates.
	Path string
}

type RenderConfig struct {
	// A path to json where it store font name and path to the font file
	FontMetadataPath string
	// Fallback font family per generic class, used when a template's font
	// cannot be realized from the metadata file.
	FallbackCursive   string
	FallbackSerif     string
	FallbackSansSerif string
}

type OutboxConfig struct {
	// Directory where dispatched certificate images are placed for the
	// operator to paste into the mail client.
	Dir string
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func GetConfig() Config {
	rateLimitTimeFrame, err := time.ParseDuration(env.GetString("RATE_LIMIT_TIME_FRAME", "1m"))
	if err != nil {
		rateLimitTimeFrame = 60 * time.Second
	}

	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		Storage: StorageConfig{
			Path: env.GetString("STORAGE_PATH", "data/certsend.db"),
		},
		Render: RenderConfig{
			FontMetadataPath:  env.GetString("FONT_METADATA_PATH", "font_metadata.json"),
			FallbackCursive:   env.GetString("FONT_FALLBACK_CURSIVE", "Great Vibes"),
			FallbackSerif:     env.GetString("FONT_FALLBACK_SERIF", "Merriweather"),
			FallbackSansSerif: env.GetString("FONT_FALLBACK_SANS_SERIF", "Poppins"),
		},
		Outbox: OutboxConfig{
			Dir: env.GetString("OUTBOX_DIR", "data/outbox"),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            rateLimitTimeFrame,
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
	}
}
