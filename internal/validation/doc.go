// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package validation provides request input validation in two forms.
//
// Struct validation wraps go-playground/validator v10 behind a thread-safe
// singleton with friendly messages and a custom "role" tag:
//
//	type CreateJobRequest struct {
//	    Title  string  `validate:"required,min=5,max=120"`
//	    Budget float64 `validate:"gt=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return verr
//	}
//
// Declarative rules validate decoded JSON maps where no struct exists:
//
//	msgs := validation.Validate(body, []validation.Rule{
//	    {Field: "message", Required: true, Type: validation.TypeString, MaxLength: 2000},
//	})
//
// Both produce *RequestValidationError, which the apierror package classifies
// as VALIDATION_ERROR with the field errors as details.
package validation
