// Package convert moves documents between office formats through LibreOffice,
// unoconv and poppler, and rebuilds PDFs as image decks.
package convert

import (
	"errors"
	"fmt"
)

// ErrUnsupportedConversion is returned for a source/target pair with no converter.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// ErrToolNotFound is returned when a required command is not on PATH.
var ErrToolNotFound = errors.New("conversion tool not found")

// ConversionError represents a failed external conversion
type ConversionError struct {
	Input     string
	Target    Format
	Message   string
	LogOutput string
	Cause     error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conversion of %s to %s failed: %s: %v", e.Input, e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("conversion of %s to %s failed: %s", e.Input, e.Target, e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}
