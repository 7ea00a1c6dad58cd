// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Roles accepted by the "role" struct tag.
var roles = map[string]bool{"FREELANCER": true, "EMPLOYER": true, "ADMIN": true}

// FieldError is a single field failure. It is the shape placed in the
// "details" of a VALIDATION_ERROR response.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error returns the human-readable message.
func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError is a collection of field failures produced either
// by ValidateStruct or by Check.
type RequestValidationError struct {
	errors []FieldError
}

// NewRequestValidationError wraps field errors. It returns nil for an empty slice.
func NewRequestValidationError(errs []FieldError) *RequestValidationError {
	if len(errs) == 0 {
		return nil
	}
	return &RequestValidationError{errors: errs}
}

// Errors returns the field errors.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Messages returns one message per failing field.
func (ve *RequestValidationError) Messages() []string {
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.Message
	}
	return messages
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.Messages(), "; ")
}

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// role: one of the marketplace session roles
		_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return roles[fl.Field().String()]
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return verr // classified as VALIDATION_ERROR by apierror
//	}
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return NewRequestValidationError([]FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}})
	}

	return FromValidator(validationErrs)
}

// FromValidator converts validator field errors into a RequestValidationError.
func FromValidator(errs validator.ValidationErrors) *RequestValidationError {
	fieldErrors := make([]FieldError, len(errs))
	for i, fieldErr := range errs {
		fieldErrors[i] = FieldError{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Param:   fieldErr.Param(),
			Message: translateError(fieldErr),
		}
	}
	return NewRequestValidationError(fieldErrors)
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"url":      "%s must be a valid URL",
	"http_url": "%s must be a valid http or https URL",
	"uuid4":    "%s must be a valid UUID",
	"role":     "%s must be one of FREELANCER, EMPLOYER, ADMIN",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind().String() == "string"

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
