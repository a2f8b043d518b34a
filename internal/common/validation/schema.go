package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "escrow-wizard/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema for one step's form data.
type Schema struct {
	schema *gojsonschema.Schema
}

// CompileSchema compiles a schema definition as found in the wizard registry.
func CompileSchema(def map[string]interface{}) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def))
	if err != nil {
		return nil, apperrors.NewSchemaInvalidError(err)
	}
	return &Schema{schema: s}, nil
}

// GetSchemaFromJSON compiles a schema from its JSON text.
func GetSchemaFromJSON(schemaJSON string) (*Schema, error) {
	var def map[string]interface{}
	if err := json.Unmarshal([]byte(schemaJSON), &def); err != nil {
		return nil, apperrors.NewSchemaInvalidError(err)
	}
	return CompileSchema(def)
}

// Validate checks doc (any JSON-marshalable value) against the schema.
func (s *Schema) Validate(doc interface{}) *ValidationResult {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: fmt.Sprintf("document could not be validated: %v", err),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(desc),
			Message: messageOf(desc),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// fieldOf turns gojsonschema's dotted context into the bracketed form used
// by the presentation layer, e.g. milestones.0.title -> milestones[0].title.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY || field == "" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
	}

	parts := strings.Split(field, ".")
	var b strings.Builder
	for i, p := range parts {
		if isIndex(p) {
			b.WriteString("[" + p + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(p)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func messageOf(desc gojsonschema.ResultError) string {
	switch desc.Type() {
	case "required":
		return "is required"
	case "string_gte":
		return "must not be empty"
	case "enum":
		return fmt.Sprintf("must be one of %v", desc.Details()["allowed"])
	case "pattern":
		return "has an invalid format"
	case "invalid_type":
		if fmt.Sprint(desc.Details()["given"]) == "null" {
			return "is required"
		}
		return desc.Description()
	default:
		return desc.Description()
	}
}

// Merge appends the errors of other to vr. A field already reported in vr
// keeps its first message.
func (vr *ValidationResult) Merge(other *ValidationResult) *ValidationResult {
	if other == nil {
		return vr
	}
	for _, e := range other.Errors {
		if !vr.HasErrors(e.Field) {
			vr.Errors = append(vr.Errors, e)
		}
	}
	vr.Valid = vr.Valid && other.Valid && len(vr.Errors) == 0
	return vr
}

// Add records a failed check for field.
func (vr *ValidationResult) Add(field, message, code string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message, Code: code})
	vr.Valid = false
}

// RequireText records field as empty when value is blank after trimming
// Unicode white space. Schema patterns such as \S only know ASCII spaces.
func (vr *ValidationResult) RequireText(field, value string) {
	if strings.TrimSpace(value) == "" {
		vr.Add(field, "must not be empty", "STRING_GTE")
	}
}

// Ok returns an empty, valid result.
func Ok() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// FieldErrors converts the result into the error package's field messages.
func (vr *ValidationResult) FieldErrors() []apperrors.FieldError {
	if len(vr.Errors) == 0 {
		return nil
	}
	out := make([]apperrors.FieldError, len(vr.Errors))
	for i, e := range vr.Errors {
		out[i] = apperrors.FieldError{Field: e.Field, Message: e.Message}
	}
	return out
}
