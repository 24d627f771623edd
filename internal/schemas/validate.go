// Package schemas validates JSON documents against the JSON Schemas shipped
// under the repo's schemas/ directory.
package schemas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ResolveSchemaPath looks for relativePath in the working directory and up to
// two parents, so commands and package tests find the same schema file.
// It returns "" when nothing matches.
func ResolveSchemaPath(relativePath string) string {
	dir := ""
	for range 3 {
		candidate, err := filepath.Abs(filepath.Join(dir, relativePath))
		if err == nil {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		dir = filepath.Join(dir, "..")
	}
	return ""
}

// FieldError is one schema violation. Field is a dotted path such as
// "slides.0.title", or "(root)".
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError means the schema itself could not be read or compiled.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var compiled sync.Map // absolute path -> *gojsonschema.Schema

// Compile returns the compiled schema at path. Schemas are compiled once per
// process and shared.
func Compile(path string) (*gojsonschema.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if s, ok := compiled.Load(abs); ok {
		return s.(*gojsonschema.Schema), nil
	}

	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("schema file not found: %s", abs)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs)))
	if err != nil {
		return nil, &SchemaLoadError{Path: abs, Message: "compile", Cause: err}
	}
	s, _ := compiled.LoadOrStore(abs, schema)
	return s.(*gojsonschema.Schema), nil
}

// ValidateJSONBytes validates an in-memory document against a schema file.
func ValidateJSONBytes(schemaPath string, data []byte) error {
	schema, err := Compile(schemaPath)
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewBytesLoader(data))
}

// ValidateJSON validates a JSON file against a schema file.
func ValidateJSON(schemaPath, jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("JSON file not found: %s", jsonPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}
	return ValidateJSONBytes(schemaPath, data)
}

// ValidateJSONString validates a document against an inline schema.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "compile", Cause: err}
	}
	return check(schema, gojsonschema.NewStringLoader(jsonContent))
}

func check(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("invalid JSON document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
