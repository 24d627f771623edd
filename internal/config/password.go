package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyConfig holds configuration for hashing and verifying service API keys.
type APIKeyConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
	KeyHash    string // bcrypt hash of the accepted key
}

// NewAPIKeyConfig creates an API key configuration from environment variables.
// It reads BCRYPT_COST (default: 12), API_KEY_HASH and optionally API_KEY_PEPPER.
func NewAPIKeyConfig() (*APIKeyConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &APIKeyConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("API_KEY_PEPPER"),
		KeyHash:    os.Getenv("API_KEY_HASH"),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *APIKeyConfig) normalize() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be %d-14)", c.BcryptCost, bcrypt.MinCost)
	}
	return nil
}

// HashKey hashes an API key for storage in API_KEY_HASH.
func (c *APIKeyConfig) HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key+c.Pepper), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

// VerifyKey reports whether key matches the configured hash. It is false
// when no hash is configured.
func (c *APIKeyConfig) VerifyKey(key string) bool {
	if c.KeyHash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.KeyHash), []byte(key+c.Pepper)) == nil
}
