package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/ingestion"
	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/schemas"
	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	invalidOutline := (&types.Outline{}).Validate()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"task not found", fmt.Errorf("lookup: %w", tasks.ErrNotFound), http.StatusNotFound},
		{"bad api key", ErrInvalidCredentials, http.StatusUnauthorized},
		{"not ready", ErrTaskNotReady, http.StatusBadRequest},
		{"request validation", &ErrValidation{Field: "outline", Message: "is required"}, http.StatusBadRequest},
		{"struct validation", invalidOutline, http.StatusBadRequest},
		{"schema validation", &schemas.ValidationError{}, http.StatusBadRequest},
		{"no content", pipeline.ErrNoContent, http.StatusBadRequest},
		{"invalid url", fmt.Errorf("%w: ftp://x", ingestion.ErrInvalidURL), http.StatusBadRequest},
		{"markdown without title", ingestion.ErrNoTitle, http.StatusBadRequest},
		{"unsupported conversion", convert.ErrUnsupportedConversion, http.StatusBadRequest},
		{"unknown model", &llm.ProviderError{Model: "x", Message: "unknown model"}, http.StatusBadRequest},
		{"provider call failed", &llm.ProviderError{Model: "x", Message: "call failed", Cause: errors.New("timeout")}, http.StatusBadGateway},
		{"fetch failed", ingestion.ErrHTTPRequestFailed, http.StatusBadGateway},
		{"tool missing", fmt.Errorf("soffice: %w", convert.ErrToolNotFound), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrValidation_Error(t *testing.T) {
	assert.Equal(t, "validation error: outline - is required", (&ErrValidation{Field: "outline", Message: "is required"}).Error())
	assert.Equal(t, "validation error: bad body", (&ErrValidation{Message: "bad body"}).Error())
}
