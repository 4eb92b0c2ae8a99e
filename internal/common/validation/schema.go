package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Enum        []interface{}       `json:"enum,omitempty"`
	Pattern     string              `json:"pattern,omitempty"`
	Format      string              `json:"format,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validate checks document against schema using gojsonschema.
// The error return is reserved for a schema that cannot be compiled.
func Validate(document map[string]interface{}, schema JSONSchema) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   errorField(desc),
			Message: desc.Description(),
			Code:    errorCode(desc.Type()),
		})
	}
	return out, nil
}

// errorField names the offending property. Required errors are reported on the
// parent object, so the missing property comes from the error details.
func errorField(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	prop, _ := desc.Details()["property"].(string)
	if field == "" || field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return prop
	}
	return field + "." + prop
}

func errorCode(errType string) string {
	switch errType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "enum":
		return "INVALID_ENUM_VALUE"
	case "format":
		return "INVALID_FORMAT"
	case "pattern":
		return "PATTERN_MISMATCH"
	case "string_gte":
		return "MIN_LENGTH_VIOLATION"
	case "string_lte":
		return "MAX_LENGTH_VIOLATION"
	case "invalid_type":
		return "INVALID_TYPE"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	default:
		return strings.ToUpper(errType)
	}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Fields returns the distinct offending field names in error order.
func (vr *ValidationResult) Fields() []string {
	seen := make(map[string]bool, len(vr.Errors))
	var out []string
	for _, err := range vr.Errors {
		if !seen[err.Field] {
			seen[err.Field] = true
			out = append(out, err.Field)
		}
	}
	return out
}
