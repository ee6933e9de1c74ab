package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrFormat indicates the document could not be parsed as YAML or JSON.
	ErrFormat = errors.New("format error")

	// ErrDanglingReference indicates a $ref whose target does not exist.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrSchema indicates a contradictory or malformed schema.
	ErrSchema = errors.New("schema error")

	// ErrOperation indicates a path template and its parameters disagree.
	ErrOperation = errors.New("operation error")

	// ErrCompilation indicates one or more fatal errors were collected.
	ErrCompilation = errors.New("compilation error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// position renders a " at line L, column C" suffix, or "" when unknown.
func position(line, column int) string {
	if line <= 0 {
		return ""
	}
	if column > 0 {
		return fmt.Sprintf(" (line %d, column %d)", line, column)
	}
	return fmt.Sprintf(" (line %d)", line)
}

// FormatError represents a document that is neither well-formed YAML nor
// well-formed JSON. It is always fatal: no partial IR is produced.
type FormatError struct {
	// Source is the file path or source identifier
	Source string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the failure
	Message string
	// Cause is the underlying decoder error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FormatError) Error() string {
	msg := "format error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// DanglingReferenceError represents a $ref whose target does not exist in
// the document.
type DanglingReferenceError struct {
	// Pointer is the unresolvable reference target (e.g. "#/components/schemas/Ghost")
	Pointer string
	// Location is the JSON pointer of the node holding the $ref
	Location string
	// Line is the 1-based line of the $ref value (0 if unknown)
	Line int
	// Column is the 1-based column of the $ref value (0 if unknown)
	Column int
	// Reason optionally explains why the target could not be used
	Reason string
}

// Error returns a human-readable error message.
func (e *DanglingReferenceError) Error() string {
	msg := "dangling reference"
	if e.Pointer != "" {
		msg += " " + e.Pointer
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	msg += position(e.Line, e.Column)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// SchemaError represents a self-contradictory or malformed schema, or a
// request/response body that points at a schema that never resolved.
type SchemaError struct {
	// Reason describes what is wrong with the schema
	Reason string
	// Location is the JSON pointer of the offending schema
	Location string
	// Line is the 1-based line of the schema (0 if unknown)
	Line int
	// Column is the 1-based column of the schema (0 if unknown)
	Column int
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaError) Error() string {
	msg := "schema error"
	if e.Location != "" {
		msg += " at " + e.Location
	}
	msg += position(e.Line, e.Column)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// OperationError represents a path template and parameter declarations that
// disagree, or an operation that cannot be compiled.
type OperationError struct {
	// Method is the upper-case HTTP method (may be empty for path-item level issues)
	Method string
	// Path is the path template (e.g. "/users/{id}")
	Path string
	// Location is the JSON pointer of the operation or parameter
	Location string
	// Line is the 1-based line (0 if unknown)
	Line int
	// Column is the 1-based column (0 if unknown)
	Column int
	// Message describes the mismatch
	Message string
}

// Error returns a human-readable error message.
func (e *OperationError) Error() string {
	msg := "operation error"
	switch {
	case e.Method != "" && e.Path != "":
		msg += " in " + e.Method + " " + e.Path
	case e.Path != "":
		msg += " in " + e.Path
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	msg += position(e.Line, e.Column)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperation
}

// CompilationError aggregates every fatal error collected across the
// resolver, normalizer, and operation compiler for one document.
type CompilationError struct {
	// Source is the file path or source identifier
	Source string
	// Errors holds the collected errors in pipeline order
	Errors []error
	// Resolved lists the component schema pointers that normalized cleanly
	// despite the failure, so callers can see nothing valid was dropped.
	Resolved []string
}

// Error returns a human-readable error message.
func (e *CompilationError) Error() string {
	msg := "compilation failed"
	if e.Source != "" {
		msg += " for " + e.Source
	}
	switch len(e.Errors) {
	case 0:
		return msg
	case 1:
		return msg + ": " + e.Errors[0].Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%s with %d errors:\n  %s", msg, len(e.Errors), strings.Join(parts, "\n  "))
}

// Unwrap returns the collected errors so errors.Is and errors.As see each one.
func (e *CompilationError) Unwrap() []error {
	return e.Errors
}

// Is reports whether target matches this error type.
func (e *CompilationError) Is(target error) bool {
	return target == ErrCompilation
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
