// Package schemas provides JSON Schema validation for generated section payloads.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-wizard/internal/types"
)

//go:embed defs/*.json
var schemaFS embed.FS

var (
	compiledMu sync.Mutex
	compiled   = make(map[types.SectionType]*gojsonschema.Schema)
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	SectionType types.SectionType
	Errors      []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed for section %q:\n", ve.SectionType))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing a schema itself
type SchemaLoadError struct {
	SectionType types.SectionType
	Message     string
	Cause       error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema for section %q: %s: %v", e.SectionType, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema for section %q: %s", e.SectionType, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// schemaFor returns the compiled schema for a section type, compiling and
// caching it on first use.
func schemaFor(sectionType types.SectionType) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[sectionType]; ok {
		return schema, nil
	}

	content, err := schemaFS.ReadFile(fmt.Sprintf("defs/%s.json", sectionType))
	if err != nil {
		return nil, &SchemaLoadError{
			SectionType: sectionType,
			Message:     "no schema defined",
			Cause:       err,
		}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{
			SectionType: sectionType,
			Message:     "schema failed to compile",
			Cause:       err,
		}
	}

	compiled[sectionType] = schema
	return schema, nil
}

// ValidateSection validates a candidate JSON payload against the section
// type's schema. A nil return means the payload is schema-shaped; validation
// failures return a *ValidationError naming the offending fields.
func ValidateSection(sectionType types.SectionType, payload []byte) error {
	if !sectionType.Valid() {
		return &SchemaLoadError{
			SectionType: sectionType,
			Message:     "unknown section type",
		}
	}

	schema, err := schemaFor(sectionType)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &SchemaLoadError{
			SectionType: sectionType,
			Message:     "payload could not be loaded",
			Cause:       err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		SectionType: sectionType,
		Errors:      make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
