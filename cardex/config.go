package cardex

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/internal/cardgen"
	"github.com/ForTeamEffect/kap-front/internal/expiry"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

const envPrefix = "CARDEX_"

// Config is a configuration for the CardEx application
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR"`
	// PhysicalCardPrice is charged to the wallet on every physical card order.
	PhysicalCardPrice decimal.Decimal `env:"PHYS_CARD_PRICE"`
	Currency          string          `env:"CURRENCY"`
	// BINPrefix is used by the memory backend to generate PANs (6 or 8 digits).
	BINPrefix string `env:"BIN_PREFIX"`
	// ExpiryTZ is an IANA timezone name for expiry computations (e.g., "America/Mexico_City").
	ExpiryTZ  string `env:"EXPIRY_TZ"`
	CardYears int    `env:"CARD_YEARS"`
	// ReissueWindowDays flags a card for reissue that many days before it expires.
	ReissueWindowDays int `env:"REISSUE_WINDOW_DAYS"`
	// Backend selects the card backend. Only "memory" ships with this module.
	Backend        string        `env:"BACKEND"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT"`
	PANHashKey     string        `env:"PAN_HASH_KEY"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:          "localhost:9090",
		PhysicalCardPrice: policy.DefaultPhysicalCardPrice,
		Currency:          "MXNT",
		BINPrefix:         "421234",
		ExpiryTZ:          "UTC",
		CardYears:         expiry.DefaultYears,
		ReissueWindowDays: 30,
		Backend:           "memory",
		BackendTimeout:    5 * time.Second,
		PANHashKey:        "dev-secret-pepper",
	}
}

// LoadConfig reads CARDEX_* environment variables over the defaults.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()
	if err := env.ParseWithOptions(config, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if !c.PhysicalCardPrice.IsPositive() {
		return fmt.Errorf("physical card price must be positive, got %s", c.PhysicalCardPrice)
	}
	if err := cardgen.ValidateBIN(c.BINPrefix); err != nil {
		return fmt.Errorf("validating BIN prefix: %w", err)
	}
	if _, err := c.ExpiryLocation(); err != nil {
		return err
	}
	if c.ReissueWindowDays < 0 {
		return fmt.Errorf("reissue window must not be negative, got %d", c.ReissueWindowDays)
	}
	if c.Backend != "memory" {
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	return nil
}

func (c *Config) ExpiryLocation() (*time.Location, error) {
	if c.ExpiryTZ == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ExpiryTZ)
	if err != nil {
		return nil, fmt.Errorf("loading expiry timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) ExpiryPolicy() expiry.Policy {
	loc, err := c.ExpiryLocation()
	if err != nil {
		loc = time.UTC
	}
	return expiry.NewPolicy(loc, c.CardYears)
}
