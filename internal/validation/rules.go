// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// Type constrains the dynamic type of a field checked by a Rule.
type Type string

const (
	TypeAny     Type = ""
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeEmail   Type = "email"
	TypeURL     Type = "url"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Rule is a declarative check on one field of a decoded request body.
// Zero values disable the corresponding check.
type Rule struct {
	Field     string
	Required  bool
	Type      Type
	Min       *float64 // numbers
	Max       *float64 // numbers
	MinLength int      // strings and arrays
	MaxLength int      // strings and arrays
	Pattern   *regexp.Regexp
	// Custom returns a non-nil error whose message is reported for the field.
	Custom func(value any) error
}

// Bound is a convenience for Rule.Min and Rule.Max.
func Bound(v float64) *float64 { return &v }

// Validate applies rules to data and returns one message per failing field,
// in rule order. Only the first failing check of a field is reported.
//
//	errs := validation.Validate(body, []validation.Rule{
//	    {Field: "title", Required: true, Type: validation.TypeString, MinLength: 5, MaxLength: 120},
//	    {Field: "budget", Required: true, Type: validation.TypeNumber, Min: validation.Bound(1)},
//	})
func Validate(data map[string]any, rules []Rule) []string {
	verr := Check(data, rules)
	if verr == nil {
		return nil
	}
	return verr.Messages()
}

// Check is Validate returning a *RequestValidationError (nil when valid).
func Check(data map[string]any, rules []Rule) *RequestValidationError {
	var errs []FieldError
	for i := range rules {
		if fe, failed := checkRule(data, &rules[i]); failed {
			errs = append(errs, fe)
		}
	}
	return NewRequestValidationError(errs)
}

func checkRule(data map[string]any, rule *Rule) (FieldError, bool) {
	fail := func(tag, format string, args ...any) (FieldError, bool) {
		return FieldError{
			Field:   rule.Field,
			Tag:     tag,
			Message: rule.Field + " " + fmt.Sprintf(format, args...),
		}, true
	}

	value, present := data[rule.Field]
	if !present || value == nil || value == "" {
		if rule.Required {
			return fail("required", "is required")
		}
		return FieldError{}, false
	}

	if !typeMatches(rule.Type, value) {
		if rule.Type == TypeEmail || rule.Type == TypeURL {
			return fail(string(rule.Type), "must be a valid %s", rule.Type)
		}
		return fail("type", "must be a %s", rule.Type)
	}

	if length, unit, ok := lengthOf(value); ok {
		if rule.MinLength > 0 && length < rule.MinLength {
			return fail("min", "must be at least %d %s", rule.MinLength, unit)
		}
		if rule.MaxLength > 0 && length > rule.MaxLength {
			return fail("max", "must be at most %d %s", rule.MaxLength, unit)
		}
	}

	if n, ok := toFloat(value); ok {
		if rule.Min != nil && n < *rule.Min {
			return fail("min", "must be at least %s", formatFloat(*rule.Min))
		}
		if rule.Max != nil && n > *rule.Max {
			return fail("max", "must be at most %s", formatFloat(*rule.Max))
		}
	}

	if rule.Pattern != nil {
		if s, ok := value.(string); ok && !rule.Pattern.MatchString(s) {
			return fail("pattern", "format is invalid")
		}
	}

	if rule.Custom != nil {
		if err := rule.Custom(value); err != nil {
			return FieldError{Field: rule.Field, Tag: "custom", Message: err.Error()}, true
		}
	}
	return FieldError{}, false
}

func typeMatches(t Type, value any) bool {
	switch t {
	case TypeAny:
		return true
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		_, ok := toFloat(value)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeEmail:
		s, ok := value.(string)
		return ok && GetValidator().Var(s, "email") == nil
	case TypeURL:
		s, ok := value.(string)
		return ok && GetValidator().Var(s, "http_url") == nil
	case TypeArray:
		_, ok := value.([]any)
		return ok
	case TypeObject:
		_, ok := value.(map[string]any)
		return ok
	}
	return false
}

func lengthOf(value any) (length int, unit string, ok bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), "characters", true
	case []any:
		return len(v), "items", true
	}
	return 0, "", false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
