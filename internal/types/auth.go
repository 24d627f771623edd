package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// TokenRequest exchanges a service API key for a bearer token.
type TokenRequest struct {
	APIKey string `json:"api_key" validate:"required,min=8"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Validate validates the TokenRequest using the validator.
func (r *TokenRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
