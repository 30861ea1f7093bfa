// Package validator checks plain JSON documents against small
// declarative schemas before the admin tool writes them out. It is a
// shallow recursive checker, not a general-purpose validation
// framework: unknown document fields pass silently and the walk follows
// the schema shape, not the document shape.
package validator

import (
	"fmt"
	"regexp"
)

type FieldSchema struct {
	// Type is one of "string", "number", "boolean", "object", "array".
	// Empty means any type.
	Type       string
	Required   bool
	MinLength  int
	MaxLength  int
	Min        *float64
	Max        *float64
	Pattern    *regexp.Regexp
	Properties map[string]FieldSchema
	Items      *FieldSchema
}

type Schema map[string]FieldSchema

type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Result struct {
	IsValid bool    `json:"isValid"`
	Errors  []Error `json:"errors"`
}

// Validate walks the schema depth-first and collects every violation;
// it never stops at the first error. A type mismatch short-circuits the
// remaining checks for that field only.
func Validate(doc map[string]any, schema Schema) Result {
	var errs []Error
	for key, rule := range schema {
		errs = validateField(doc[key], rule, key, errs)
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func validateField(value any, rule FieldSchema, path string, errs []Error) []Error {
	// An empty string is missing for the required check, but an optional
	// field holding "" still runs its constraint checks below.
	if rule.Required && (value == nil || value == "") {
		return append(errs, Error{Path: path, Message: "field is required"})
	}
	if value == nil {
		return errs
	}

	if rule.Type != "" {
		actual := typeName(value)
		if actual != rule.Type {
			return append(errs, Error{
				Path:    path,
				Message: fmt.Sprintf("expected type %s, got %s", rule.Type, actual),
			})
		}
	}

	if s, ok := value.(string); ok {
		if rule.MinLength > 0 && len([]rune(s)) < rule.MinLength {
			errs = append(errs, Error{Path: path, Message: fmt.Sprintf("must be at least %d characters", rule.MinLength)})
		}
		if rule.MaxLength > 0 && len([]rune(s)) > rule.MaxLength {
			errs = append(errs, Error{Path: path, Message: fmt.Sprintf("must be at most %d characters", rule.MaxLength)})
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
			errs = append(errs, Error{Path: path, Message: "invalid format"})
		}
	}

	if n, ok := numericValue(value); ok {
		if rule.Min != nil && n < *rule.Min {
			errs = append(errs, Error{Path: path, Message: fmt.Sprintf("must not be less than %v", *rule.Min)})
		}
		if rule.Max != nil && n > *rule.Max {
			errs = append(errs, Error{Path: path, Message: fmt.Sprintf("must not be greater than %v", *rule.Max)})
		}
	}

	if obj, ok := value.(map[string]any); ok && rule.Properties != nil {
		for key, sub := range rule.Properties {
			errs = validateField(obj[key], sub, path+"."+key, errs)
		}
	}

	if arr, ok := value.([]any); ok && rule.Items != nil {
		for i, item := range arr {
			errs = validateField(item, *rule.Items, fmt.Sprintf("%s[%d]", path, i), errs)
		}
	}

	return errs
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func numericValue(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
