// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package apierror

import (
	"fmt"
	"net/http"
	"time"
)

// Type is the error taxonomy.
type Type string

const (
	TypeValidation     Type = "VALIDATION_ERROR"
	TypeAuthentication Type = "AUTHENTICATION_ERROR"
	TypeAuthorization  Type = "AUTHORIZATION_ERROR"
	TypeNotFound       Type = "NOT_FOUND"
	TypeRateLimit      Type = "RATE_LIMIT_EXCEEDED"
	TypeDatabase       Type = "DATABASE_ERROR"
	TypeExternalAPI    Type = "EXTERNAL_API_ERROR"
	TypeFileUpload     Type = "FILE_UPLOAD_ERROR"
	TypePayment        Type = "PAYMENT_ERROR"
	TypeInternal       Type = "INTERNAL_ERROR"
)

// Severity drives the log level, detail stripping and paging.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type defaults struct {
	status   int
	severity Severity
	message  string
}

var typeDefaults = map[Type]defaults{
	TypeValidation:     {http.StatusBadRequest, SeverityLow, "Validation failed"},
	TypeAuthentication: {http.StatusUnauthorized, SeverityMedium, "Authentication required"},
	TypeAuthorization:  {http.StatusForbidden, SeverityMedium, "Insufficient permissions"},
	TypeNotFound:       {http.StatusNotFound, SeverityLow, "Resource not found"},
	TypeRateLimit:      {http.StatusTooManyRequests, SeverityMedium, "Too many requests, please try again later."},
	TypeDatabase:       {http.StatusInternalServerError, SeverityHigh, "Database operation failed"},
	TypeExternalAPI:    {http.StatusBadGateway, SeverityMedium, "External service unavailable"},
	TypeFileUpload:     {http.StatusBadRequest, SeverityLow, "File upload failed"},
	TypePayment:        {http.StatusPaymentRequired, SeverityHigh, "Payment processing failed"},
	TypeInternal:       {http.StatusInternalServerError, SeverityCritical, "Internal server error"},
}

// DefaultStatus returns the HTTP status a Type maps to.
func DefaultStatus(t Type) int {
	if d, ok := typeDefaults[t]; ok {
		return d.status
	}
	return http.StatusInternalServerError
}

// DefaultSeverity returns the severity a Type maps to.
func DefaultSeverity(t Type) Severity {
	if d, ok := typeDefaults[t]; ok {
		return d.severity
	}
	return SeverityCritical
}

// APIError is a classified failure. It is created per failed operation and
// never persisted beyond the response and the log line.
type APIError struct {
	Type      Type
	Severity  Severity
	Message   string
	Details   any
	Code      string
	Status    int
	Timestamp time.Time
	RequestID string
	UserID    string

	cause error
}

// New creates an error of type t with its default status and severity. An
// empty message selects the type's default message.
func New(t Type, message string) *APIError {
	d, ok := typeDefaults[t]
	if !ok {
		d = typeDefaults[TypeInternal]
	}
	if message == "" {
		message = d.message
	}
	return &APIError{
		Type:      t,
		Severity:  d.severity,
		Message:   message,
		Status:    d.status,
		Timestamp: time.Now().UTC(),
	}
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// WithDetails sets client-visible details.
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// WithCode sets a stable machine-readable code.
func (e *APIError) WithCode(code string) *APIError {
	e.Code = code
	return e
}

// WithCause records the underlying error. It is logged, never sent.
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// WithStatus overrides the default status.
func (e *APIError) WithStatus(status int) *APIError {
	e.Status = status
	return e
}

// WithSeverity overrides the default severity.
func (e *APIError) WithSeverity(s Severity) *APIError {
	e.Severity = s
	return e
}

func Validation(message string, details any) *APIError {
	return New(TypeValidation, message).WithDetails(details)
}

func Authentication(message string) *APIError {
	return New(TypeAuthentication, message)
}

func Authorization(message string) *APIError {
	return New(TypeAuthorization, message)
}

// NotFound builds a NOT_FOUND error for the named resource.
func NotFound(resource string) *APIError {
	if resource == "" {
		return New(TypeNotFound, "")
	}
	return New(TypeNotFound, resource+" not found")
}

func RateLimit(message string) *APIError {
	return New(TypeRateLimit, message)
}

func Database(message string, cause error) *APIError {
	return New(TypeDatabase, message).WithCause(cause)
}

func ExternalAPI(service string, cause error) *APIError {
	msg := ""
	if service != "" {
		msg = service + " is unavailable"
	}
	return New(TypeExternalAPI, msg).WithCause(cause)
}

func FileUpload(message string) *APIError {
	return New(TypeFileUpload, message)
}

func Payment(message string, cause error) *APIError {
	return New(TypePayment, message).WithCause(cause)
}

func Internal(message string, cause error) *APIError {
	return New(TypeInternal, message).WithCause(cause)
}
