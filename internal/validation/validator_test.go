// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type jobRequest struct {
	Title    string  `validate:"required,min=5,max=120"`
	Budget   float64 `validate:"gt=0,lte=1000000"`
	Contact  string  `validate:"omitempty,email"`
	Role     string  `validate:"omitempty,role"`
	Category string  `validate:"omitempty,oneof=design development writing"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     jobRequest
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: jobRequest{Title: "Logo design", Budget: 250, Contact: "a@b.io", Role: "EMPLOYER", Category: "design"},
		},
		{
			name:      "missing title",
			input:     jobRequest{Budget: 10},
			wantField: "Title",
			wantMsg:   "Title is required",
		},
		{
			name:      "short title",
			input:     jobRequest{Title: "abc", Budget: 10},
			wantField: "Title",
			wantMsg:   "Title must be at least 5 characters",
		},
		{
			name:      "zero budget",
			input:     jobRequest{Title: "Logo design"},
			wantField: "Budget",
			wantMsg:   "Budget must be greater than 0",
		},
		{
			name:      "bad email",
			input:     jobRequest{Title: "Logo design", Budget: 1, Contact: "nope"},
			wantField: "Contact",
			wantMsg:   "Contact must be a valid email address",
		},
		{
			name:      "unknown role",
			input:     jobRequest{Title: "Logo design", Budget: 1, Role: "OWNER"},
			wantField: "Role",
			wantMsg:   "Role must be one of FREELANCER, EMPLOYER, ADMIN",
		},
		{
			name:      "oneof",
			input:     jobRequest{Title: "Logo design", Budget: 1, Category: "music"},
			wantField: "Category",
			wantMsg:   "Category must be one of: design development writing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), verr)
			}
			if errs[0].Field != tt.wantField || errs[0].Message != tt.wantMsg {
				t.Errorf("got %s %q, want %s %q", errs[0].Field, errs[0].Message, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Error(t *testing.T) {
	verr := ValidateStruct(&jobRequest{Contact: "x"})
	if verr == nil {
		t.Fatal("expected errors")
	}
	msg := verr.Error()
	for _, want := range []string{"Title is required", "Budget must be greater than 0", "Contact must be a valid email address"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if NewRequestValidationError(nil) != nil {
		t.Error("empty error list should produce nil")
	}
}
