package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// JWT defaults applied when the environment leaves a value unset.
const (
	DefaultJWTIssuer          = "ppt-architect"
	DefaultJWTExpirationHours = 24
)

// JWTConfig signs the session and download tokens of the API server.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig reads the token settings from JWT_SECRET, JWT_EXPIRATION_HOURS
// and JWT_ISSUER. Auth stays off when it returns an error.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required but not set")
	}

	hours, err := envInt("JWT_EXPIRATION_HOURS", DefaultJWTExpirationHours)
	if err != nil {
		return nil, err
	}

	cfg := &JWTConfig{
		Secret:          secret,
		ExpirationHours: hours,
		Issuer:          envString("JWT_ISSUER", DefaultJWTIssuer),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Lifetime is how long a session token stays valid.
func (c *JWTConfig) Lifetime() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) validate() error {
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1, got %d", c.ExpirationHours)
	}
	return nil
}
