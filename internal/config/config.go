package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures environment driven configuration for the restaurant service.
// Values are read from RESTAURANT_-prefixed environment variables.
type Config struct {
	HTTPPort  int    `envconfig:"HTTP_PORT" default:"8080"`
	SQLiteDSN string `envconfig:"SQLITE_DSN" default:"file:restaurant.db?_foreign_keys=on"`

	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ResetTokenTTL time.Duration `envconfig:"RESET_TOKEN_TTL" default:"15m"`

	// CookieHashKey and CookieBlockKey feed the securecookie codec used for
	// the admin panel cookie. BlockKey is optional; without it the cookie is
	// signed but not encrypted.
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY" required:"true"`
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"`

	VenueCapacity int           `envconfig:"VENUE_CAPACITY" default:"35"`
	OpeningAt     time.Duration `envconfig:"OPENING_AT" default:"7h"`
	ClosingAt     time.Duration `envconfig:"CLOSING_AT" default:"21h"`
	SlotLength    time.Duration `envconfig:"SLOT_LENGTH" default:"1h"`
	SlotStep      time.Duration `envconfig:"SLOT_STEP" default:"30m"`
	Timezone      string        `envconfig:"TIMEZONE" default:"Local"`

	// WhatsAppPhone is the business number order links open a chat with.
	WhatsAppPhone string `envconfig:"WHATSAPP_PHONE" default:""`

	DraftTTL time.Duration `envconfig:"DRAFT_TTL" default:"30m"`
}

// Load parses configuration from the current process environment and
// validates cross-field constraints, reporting every offending variable in a
// single error.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("RESTAURANT", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	invalid := make([]string, 0, 2)

	// envconfig's required tag accepts set-but-empty variables.
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		invalid = append(invalid, "RESTAURANT_SESSION_SECRET")
	}
	if strings.TrimSpace(cfg.CookieHashKey) == "" {
		invalid = append(invalid, "RESTAURANT_COOKIE_HASH_KEY")
	}
	if cfg.HTTPPort <= 0 {
		invalid = append(invalid, "RESTAURANT_HTTP_PORT")
	}
	if cfg.SessionTTL <= 0 {
		invalid = append(invalid, "RESTAURANT_SESSION_TTL")
	}
	if cfg.ResetTokenTTL <= 0 {
		invalid = append(invalid, "RESTAURANT_RESET_TOKEN_TTL")
	}
	if cfg.VenueCapacity <= 0 {
		invalid = append(invalid, "RESTAURANT_VENUE_CAPACITY")
	}
	if cfg.SlotLength <= 0 {
		invalid = append(invalid, "RESTAURANT_SLOT_LENGTH")
	}
	if cfg.SlotStep <= 0 {
		invalid = append(invalid, "RESTAURANT_SLOT_STEP")
	}
	if cfg.DraftTTL <= 0 {
		invalid = append(invalid, "RESTAURANT_DRAFT_TTL")
	}
	if _, err := cfg.Location(); err != nil {
		invalid = append(invalid, "RESTAURANT_TIMEZONE")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured venue timezone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
