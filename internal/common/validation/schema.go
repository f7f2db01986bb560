package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is the subset of JSON Schema used to shape-check request bodies.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Pattern     *string  `json:"pattern,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
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

// ValidateDocument checks a raw JSON document against schema.
// A non-nil error means the document (or schema) could not be parsed at all.
func ValidateDocument(raw []byte, schema JSONSchema) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			field = "body"
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for a specific field.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether email has the local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// RequiredText appends a problem when value is blank or longer than maxLen characters.
func RequiredText(problems []string, label, value string, maxLen int) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return append(problems, fmt.Sprintf("%s is required", label))
	}
	return OptionalText(problems, label, value, maxLen)
}

// OptionalText appends a problem only when value exceeds maxLen characters.
func OptionalText(problems []string, label, value string, maxLen int) []string {
	if n := utf8.RuneCountInString(strings.TrimSpace(value)); n > maxLen {
		return append(problems, fmt.Sprintf("%s must be %d characters or fewer", label, maxLen))
	}
	return problems
}

// StringProp builds a string property with an optional max length.
func StringProp(description string, maxLength int) Property {
	p := Property{Type: "string", Description: description}
	if maxLength > 0 {
		p.MaxLength = &maxLength
	}
	return p
}

// BoolProp builds a boolean property.
func BoolProp(description string) Property {
	return Property{Type: "boolean", Description: description}
}
