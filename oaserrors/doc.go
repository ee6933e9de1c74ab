// Package oaserrors provides structured error types for the oasir compiler.
//
// Import path: github.com/erraggy/oasir/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between the fatal error categories of a
// compilation.
//
// # Error Types
//
//   - [FormatError]: the input is neither well-formed YAML nor well-formed JSON
//   - [DanglingReferenceError]: a $ref points at a node that does not exist
//   - [SchemaError]: a schema contradicts itself or cannot be normalized
//   - [OperationError]: a path template and its parameters disagree
//   - [CompilationError]: the aggregate of every error collected for one document
//   - [ConfigError]: invalid configuration or input options
//
// A FormatError aborts immediately. The other three categories are collected
// across the whole document and returned together in one [CompilationError],
// so a user sees every dangling reference in a single pass.
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrFormat]: Matches any [FormatError]
//   - [ErrDanglingReference]: Matches any [DanglingReferenceError]
//   - [ErrSchema]: Matches any [SchemaError]
//   - [ErrOperation]: Matches any [OperationError]
//   - [ErrCompilation]: Matches any [CompilationError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// Because [CompilationError] unwraps to its collected errors, errors.Is and
// errors.As see through it:
//
//	_, err := compiler.CompileWithOptions(compiler.WithFilePath("api.yaml"))
//	if errors.Is(err, oaserrors.ErrDanglingReference) {
//	    // at least one $ref points nowhere
//	}
//
//	var dangling *oaserrors.DanglingReferenceError
//	if errors.As(err, &dangling) {
//	    fmt.Printf("first dangling ref: %s at %s\n", dangling.Pointer, dangling.Location)
//	}
package oaserrors
