// Package validation checks CLI parameters and loaded prompt collections.
//
// Parameters are validated against named schemas before they reach the
// service layer; collections are checked once per load so that duplicate ids
// and empty records are reported instead of silently rendered.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dpshade/prompt-overflow/internal/errors"
	"github.com/dpshade/prompt-overflow/internal/models"
	"github.com/dpshade/prompt-overflow/internal/renderer"
)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Name      string
	Required  bool
	Type      string
	MinLength int
	MaxLength int
	Options   []string
	Custom    func(interface{}) error
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Errors   []ValidationError      `json:"errors,omitempty"`
	Warnings []ValidationWarning    `json:"warnings,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationWarning represents a field validation warning
type ValidationWarning struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
}

// Validator provides centralized validation functionality
type Validator struct {
	schemas map[string]*Schema
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := &Validator{
		schemas: make(map[string]*Schema),
	}
	v.registerBuiltinSchemas()
	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Validate validates data against a schema
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Code:    "SCHEMA_NOT_FOUND",
				Message: fmt.Sprintf("Validation schema '%s' not found", schemaName),
			}},
		}
	}

	result := newResult()

	for fieldName, validator := range schema.Fields {
		v.validateField(fieldName, validator, data, result)
	}

	for _, rule := range schema.Rules {
		if err := rule(data); err != nil {
			result.addError("schema", "SCHEMA_RULE_VIOLATION", err.Error(), nil)
		}
	}

	return result
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
		Data:     make(map[string]interface{}),
	}
}

func (r *ValidationResult) addError(field, code, message string, value interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
		Value:   value,
	})
}

func (r *ValidationResult) addWarning(field, message string, value interface{}) {
	r.Warnings = append(r.Warnings, ValidationWarning{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

// validateField validates a single field
func (v *Validator) validateField(fieldName string, validator FieldValidator, data map[string]interface{}, result *ValidationResult) {
	value, exists := data[fieldName]

	if validator.Required && (!exists || value == nil || value == "") {
		result.addError(fieldName, "REQUIRED_FIELD_MISSING", fmt.Sprintf("Field '%s' is required", fieldName), nil)
		return
	}

	if !exists || value == nil {
		return
	}

	convertedValue, err := v.validateAndConvertType(fieldName, validator.Type, value)
	if err != nil {
		result.addError(fieldName, "INVALID_TYPE", err.Error(), value)
		return
	}

	result.Data[fieldName] = convertedValue

	if strValue, ok := convertedValue.(string); ok && validator.Type == "string" {
		if validator.MinLength > 0 && len(strValue) < validator.MinLength {
			result.addError(fieldName, "MIN_LENGTH_VIOLATION",
				fmt.Sprintf("Field '%s' must be at least %d characters long", fieldName, validator.MinLength), strValue)
		}

		if validator.MaxLength > 0 && len(strValue) > validator.MaxLength {
			result.addError(fieldName, "MAX_LENGTH_VIOLATION",
				fmt.Sprintf("Field '%s' must be at most %d characters long", fieldName, validator.MaxLength), strValue)
		}

		if len(validator.Options) > 0 && !contains(validator.Options, strValue) {
			result.addError(fieldName, "INVALID_OPTION",
				fmt.Sprintf("Field '%s' must be one of: %s", fieldName, strings.Join(validator.Options, ", ")), strValue)
		}
	}

	if validator.Custom != nil {
		if err := validator.Custom(convertedValue); err != nil {
			result.addError(fieldName, "CUSTOM_VALIDATION_FAILED",
				fmt.Sprintf("Field '%s': %s", fieldName, err.Error()), convertedValue)
		}
	}
}

// validateAndConvertType validates and converts value to the specified type
func (v *Validator) validateAndConvertType(fieldName, expectedType string, value interface{}) (interface{}, error) {
	switch expectedType {
	case "string":
		if str, ok := value.(string); ok {
			return str, nil
		}
		return fmt.Sprintf("%v", value), nil

	case "int":
		switch val := value.(type) {
		case int:
			return val, nil
		case float64:
			return int(val), nil
		case string:
			if intVal, err := strconv.Atoi(val); err == nil {
				return intVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be an integer", fieldName)

	case "bool":
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			if boolVal, err := strconv.ParseBool(val); err == nil {
				return boolVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be a boolean", fieldName)

	case "array":
		switch val := value.(type) {
		case []string:
			return val, nil
		case []interface{}:
			result := make([]string, len(val))
			for i, item := range val {
				result[i] = fmt.Sprintf("%v", item)
			}
			return result, nil
		}
		return nil, fmt.Errorf("field '%s' must be an array", fieldName)

	default:
		return value, nil
	}
}

// Output formats accepted by listing commands
var outputFormats = []string{"text", "table", "json", "ids"}

// registerBuiltinSchemas registers the CLI parameter schemas
func (v *Validator) registerBuiltinSchemas() {
	v.RegisterSchema(&Schema{
		Name: "list_prompts",
		Fields: map[string]FieldValidator{
			"category": {
				Name:      "category",
				Type:      "string",
				MaxLength: 200,
			},
			"format": {
				Name:    "format",
				Type:    "string",
				Options: outputFormats,
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "search_prompts",
		Fields: map[string]FieldValidator{
			"query": {
				Name:      "query",
				Type:      "string",
				MaxLength: 1000,
			},
			"category": {
				Name:      "category",
				Type:      "string",
				MaxLength: 200,
			},
			"format": {
				Name:    "format",
				Type:    "string",
				Options: outputFormats,
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "suggest",
		Fields: map[string]FieldValidator{
			"query": {
				Name:      "query",
				Type:      "string",
				Required:  true,
				MaxLength: 1000,
			},
			"limit": {
				Name: "limit",
				Type: "int",
				Custom: func(value interface{}) error {
					if n, ok := value.(int); ok && n < 0 {
						return fmt.Errorf("limit must not be negative")
					}
					return nil
				},
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "get_prompt",
		Fields: map[string]FieldValidator{
			"id": {
				Name:      "id",
				Type:      "string",
				Required:  true,
				MinLength: 1,
				MaxLength: 200,
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "render_prompt",
		Fields: map[string]FieldValidator{
			"id": {
				Name:      "id",
				Type:      "string",
				Required:  true,
				MinLength: 1,
				MaxLength: 200,
			},
			"vars": {
				Name: "vars",
				Type: "array",
				Custom: func(value interface{}) error {
					assignments, _ := value.([]string)
					for i, assignment := range assignments {
						if _, _, err := ParseAssignment(assignment); err != nil {
							return fmt.Errorf("variable at position %d: %w", i, err)
						}
					}
					return nil
				},
			},
		},
	})
}

// ParseAssignment splits a label=value pair. The label is trimmed the same
// way placeholder labels are; the value is kept verbatim.
func ParseAssignment(assignment string) (string, string, error) {
	label, value, found := strings.Cut(assignment, "=")
	if !found {
		return "", "", fmt.Errorf("expected label=value, got %q", assignment)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "", "", fmt.Errorf("empty label in %q", assignment)
	}
	return label, value, nil
}

// ValidateCollection checks a freshly loaded collection. Duplicate or empty
// ids are errors; records that will render poorly are warnings.
func ValidateCollection(prompts []models.Prompt) *ValidationResult {
	result := newResult()
	seen := make(map[string]int, len(prompts))

	for i, p := range prompts {
		field := fmt.Sprintf("prompts[%d]", i)

		if p.ID == "" {
			result.addError(field+".id", "REQUIRED_FIELD_MISSING", "prompt has no id", p.Name)
		} else if first, dup := seen[p.ID]; dup {
			result.addError(field+".id", "DUPLICATE_ID",
				fmt.Sprintf("id %q already used by prompts[%d]", p.ID, first), p.ID)
		} else {
			seen[p.ID] = i
		}

		if strings.TrimSpace(p.Name) == "" {
			result.addWarning(field+".title", "prompt has no title", p.ID)
		}
		if strings.TrimSpace(p.Body) == "" {
			result.addWarning(field+".prompt", "prompt has an empty body", p.ID)
		}
		if strings.TrimSpace(p.Category) == "" {
			result.addWarning(field+".category", "prompt has no category", p.ID)
		}

		fields := renderer.ExtractFields(p.Body)
		for _, label := range fields {
			if label == "" {
				result.addWarning(field+".prompt", "placeholder has an empty label", p.ID)
			}
		}
		for _, group := range renderer.CaseCollisions(fields) {
			result.addWarning(field+".prompt",
				fmt.Sprintf("placeholders differ only by case: %s", strings.Join(group, ", ")), p.ID)
		}
	}

	result.Data["count"] = len(prompts)
	result.Data["unique_ids"] = len(seen)
	return result
}

// UniqueByID keeps the first prompt for each non-empty id and returns the
// ids of the records it dropped
func UniqueByID(prompts []models.Prompt) ([]models.Prompt, []string) {
	kept := make([]models.Prompt, 0, len(prompts))
	seen := make(map[string]bool, len(prompts))
	var dropped []string

	for _, p := range prompts {
		if p.ID == "" || seen[p.ID] {
			dropped = append(dropped, p.ID)
			continue
		}
		seen[p.ID] = true
		kept = append(kept, p)
	}
	return kept, dropped
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	firstError := result.Errors[0]
	code := errors.ErrCodeValidation
	if firstError.Code == "DUPLICATE_ID" {
		code = errors.ErrCodeDuplicateID
	}
	appErr := errors.NewAppError(code, firstError.Message)

	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}

	appErr.WithDetails(strings.Join(details, "; "))

	appErr.WithContext("validation_errors", len(result.Errors))
	if len(result.Warnings) > 0 {
		appErr.WithContext("validation_warnings", len(result.Warnings))
	}

	return appErr
}

// GetValidatedData returns the validated and converted data
func (result *ValidationResult) GetValidatedData() map[string]interface{} {
	if !result.Valid {
		return nil
	}
	return result.Data
}
