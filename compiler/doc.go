// Package compiler runs the full pipeline that turns an OpenAPI 3.x document
// into an [ir.Model].
//
// The stages run strictly in order: load, resolve, normalize, compile
// operations, infer relationships, validate. A malformed document fails
// immediately with an *oaserrors.FormatError. Dangling references,
// contradictory schemas, and path/parameter mismatches from every stage are
// collected and returned together in one *oaserrors.CompilationError, whose
// Resolved field lists the component schemas that still normalized cleanly.
//
// Validation diagnostics never abort compilation; they are attached to the
// returned model as Model.Report.
//
// # Usage
//
//	model, err := compiler.CompileWithOptions(
//	    compiler.WithFilePath("openapi.yaml"),
//	    compiler.WithStrictMode(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !model.Report.IsValid() {
//	    for _, d := range model.Report.Diagnostics {
//	        fmt.Println(d)
//	    }
//	}
//
// A Compiler holds no state between calls and may be shared across
// goroutines.
package compiler
