// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tomtom215/gigmarket/internal/validation"
)

// Postgres SQLSTATE codes with a specific mapping.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

var (
	paymentKeywords = []string{"stripe", "payment", "card", "charge"}
	networkKeywords = []string{"fetch", "network", "timeout", "econnrefused", "connection refused", "dial tcp"}
	uploadKeywords  = []string{"upload", "file", "multipart"}
)

// Transform classifies any failure value into an *APIError. Rules apply in
// order and the first match wins:
//
//  1. *APIError anywhere in the chain is returned as is
//  2. request validation failures become VALIDATION
//  3. known database errors become DATABASE with a specific status
//  4. ORM validation errors become VALIDATION
//  5. payment, network and upload keywords in the message
//  6. anything else is INTERNAL/CRITICAL
//
// Non-error values (recovered panics) are INTERNAL with the value captured.
func Transform(v any) *APIError {
	if v == nil {
		return Internal("", nil)
	}

	err, ok := v.(error)
	if !ok {
		return Internal("", nil).WithDetails(map[string]any{"value": fmt.Sprintf("%v", v)})
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if e := fromValidation(err); e != nil {
		return e
	}
	if e := fromDatabase(err); e != nil {
		return e
	}
	if isORMValidation(err) {
		return Validation("Invalid data", nil).WithCause(err)
	}
	if e := fromMessage(err); e != nil {
		return e
	}

	return Internal("", err).WithDetails(map[string]any{"error": err.Error()})
}

func fromValidation(err error) *APIError {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return Validation("Validation failed", verr.Errors()).WithCause(err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return Validation("Validation failed", validation.FromValidator(fieldErrs).Errors()).WithCause(err)
	}
	return nil
}

func fromDatabase(err error) *APIError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		e := Database("", err).WithCode(pgErr.Code)
		switch pgErr.Code {
		case pgUniqueViolation:
			e.Message = "Resource already exists"
			return e.WithStatus(http.StatusConflict).WithSeverity(SeverityLow).
				WithDetails(map[string]any{"constraint": pgErr.ConstraintName})
		case pgForeignKeyViolation:
			e.Message = "Related resource not found"
			return e.WithStatus(http.StatusBadRequest).WithSeverity(SeverityMedium)
		case pgInvalidTextRepr:
			e.Message = "Invalid identifier"
			return e.WithStatus(http.StatusBadRequest).WithSeverity(SeverityLow)
		}
		return e
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		e := Database("Resource already exists", err)
		return e.WithStatus(http.StatusConflict).WithSeverity(SeverityLow)
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, pgx.ErrNoRows):
		e := Database("Resource not found", err)
		return e.WithStatus(http.StatusNotFound).WithSeverity(SeverityLow)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		e := Database("Related resource not found", err)
		return e.WithStatus(http.StatusBadRequest).WithSeverity(SeverityMedium)
	case errors.Is(err, gorm.ErrPrimaryKeyRequired):
		e := Database("Invalid identifier", err)
		return e.WithStatus(http.StatusBadRequest).WithSeverity(SeverityLow)
	}
	return nil
}

func isORMValidation(err error) bool {
	for _, target := range []error{
		gorm.ErrInvalidData,
		gorm.ErrInvalidField,
		gorm.ErrInvalidValue,
		gorm.ErrInvalidValueOfLength,
		gorm.ErrModelValueRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func fromMessage(err error) *APIError {
	msg := strings.ToLower(err.Error())

	if containsAny(msg, paymentKeywords) {
		return Payment("", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || containsAny(msg, networkKeywords) {
		return ExternalAPI("", err)
	}

	if containsAny(msg, uploadKeywords) {
		return FileUpload("").WithCause(err)
	}
	return nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
