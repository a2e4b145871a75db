package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages.
// Fields are named by their full path so nested list entries stay identifiable.
func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
