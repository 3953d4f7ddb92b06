package errors

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError reports a malformed shape or canvas at construction time.
// Index is the shape's position in its layout or document, or -1 when the
// shape was built standalone.
type ValidationError struct {
	Index  int
	Kind   string // shape kind ("rect", "circle", ...) or "canvas"
	Field  string // offending field, e.g. "radius" or "points"
	Value  any
	Reason string
}

// Invalid creates a ValidationError for a standalone shape (Index -1).
func Invalid(kind, field string, value any, reason string) *ValidationError {
	return &ValidationError{Index: -1, Kind: kind, Field: field, Value: value, Reason: reason}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.code(), e.describe())
}

// Unwrap exposes the coded error so Is(err, ErrCodeInvalidShape) matches.
func (e *ValidationError) Unwrap() error {
	return &Error{Code: e.code(), Message: e.describe()}
}

// AtIndex returns a copy of e bound to shape index i.
func (e *ValidationError) AtIndex(i int) *ValidationError {
	c := *e
	c.Index = i
	return &c
}

func (e *ValidationError) code() Code {
	if e.Kind == "canvas" {
		return ErrCodeInvalidCanvas
	}
	return ErrCodeInvalidShape
}

func (e *ValidationError) describe() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "shape %d ", e.Index)
	}
	if e.Kind != "" {
		fmt.Fprintf(&b, "(%s) ", e.Kind)
	}
	fmt.Fprintf(&b, "field %q", e.Field)
	if e.Value != nil {
		fmt.Fprintf(&b, " = %v", e.Value)
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	return b.String()
}

// ValidateLayoutName validates a layout name before it is persisted.
//
// Rules:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateLayoutName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "layout name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "layout name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "layout name contains invalid control characters")
		}
	}
	return nil
}

// ValidateLayoutID validates an opaque layout identifier received from a
// client. IDs are used as file names by the file store, so path separators
// and traversal sequences are rejected.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "layout id too long (max 64 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layout id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "layout id contains invalid characters")
	}
	return nil
}
