// Package naming provides the case conversions used to derive generator
// friendly names from OpenAPI identifiers.
//
// Functions include ToPascalCase, ToCamelCase, ToSnakeCase, ToKebabCase,
// Pluralize, and FunctionName. They back the read-only naming helpers of the
// ir package (ir.ClassName, ir.TableName, Operation.FunctionName) and the
// relationship inferencer's foreign-key naming heuristic.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
