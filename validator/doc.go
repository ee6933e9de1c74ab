// Package validator checks a compiled [ir.Model] against a fixed, ordered
// rule set and produces an [ir.ValidationReport].
//
// Validation never fails: every finding is a diagnostic. Diagnostics are
// produced only for a structurally valid model, so callers run the validator
// after compilation succeeded.
//
// # Validation Rules
//
// Rules run in this order. Each diagnostic carries the rule id.
//
//   - schema-reference-orphan (error): a schema points at an id that is not
//     in the arena
//   - response-schema-orphan (error): a parameter, request body, response, or
//     header points at an id that is not in the arena
//   - required-property-declared (error): a required name is not a property
//   - entity-empty (warning): an object entity declares no properties
//   - operation-no-responses (warning): an operation declares no responses
//   - operation-id-unique (error): two operations share an operationId
//   - security-scheme-declared (error): a security requirement names an
//     undeclared scheme
//   - components-present (warning): the document declares no component
//     schemas
//   - duplicate-key (warning): a mapping defines the same key twice
//
// # Validation Levels
//
// Warnings can be suppressed by setting IncludeWarnings to false. StrictMode
// promotes every warning to an error. Individual rules can be disabled by id.
//
// The report is sorted by line, column, pointer, and rule order, so output is
// stable across runs.
//
// # Usage
//
//	v := validator.New()
//	v.StrictMode = true
//	report := v.Validate(model)
//	if !report.IsValid() {
//	    for _, d := range report.Diagnostics {
//	        fmt.Println(d)
//	    }
//	}
package validator
