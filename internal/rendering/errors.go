// Package rendering turns an outline into a PowerPoint deck.
package rendering

import "fmt"

// TemplateError represents a template deck that could not be opened.
// The generator logs it and falls back to a blank canvas.
type TemplateError struct {
	Path  string
	Cause error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Path)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// GenerationError is the single failure kind surfaced by Generate.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	switch {
	case e.Cause != nil && e.Message != "":
		return fmt.Sprintf("PPT 生成失败: %s: %v", e.Message, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("PPT 生成失败: %v", e.Cause)
	default:
		return fmt.Sprintf("PPT 生成失败: %s", e.Message)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
