package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/ingestion"
	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/schemas"
	"github.com/jonathan/ppt-architect/internal/tasks"
)

// ErrInvalidCredentials indicates an API key that does not match the configured hash
var ErrInvalidCredentials = errors.New("invalid api key")

// ErrTaskNotReady indicates a download of a task that has not completed
var ErrTaskNotReady = errors.New("文件尚未生成完成")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		schemaErr     *schemas.ValidationError
		providerErr   *llm.ProviderError
	)

	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTaskNotReady),
		errors.As(err, &validationErr),
		errors.As(err, &fieldErrs),
		errors.As(err, &schemaErr),
		errors.Is(err, pipeline.ErrNoContent),
		errors.Is(err, ingestion.ErrInvalidURL),
		errors.Is(err, ingestion.ErrNoTitle),
		errors.Is(err, convert.ErrUnsupportedConversion):
		return http.StatusBadRequest
	case errors.As(err, &providerErr):
		// unknown models and missing keys are caller errors; failed calls are upstream
		if providerErr.Cause == nil {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.Is(err, ingestion.ErrHTTPRequestFailed),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusBadGateway
	case errors.Is(err, convert.ErrToolNotFound):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
