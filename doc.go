// Package oasir compiles OpenAPI 3.x documents into a normalized,
// generator-agnostic intermediate representation (IR).
//
// The compiler runs a strictly linear pipeline. Each stage produces a new,
// richer structure and never mutates the output of the stage before it:
//
//   - loader: read YAML or JSON into an ordered node tree with positions
//   - resolver: index every node by JSON pointer, record $ref edges, detect cycles
//   - normalizer: turn every schema into a canonical ir.Schema stored in an arena
//   - relations: infer entity relationships for persistence-model generation
//   - operations: compile every path × method pair into an ir.Operation
//   - validator: run a fixed rule set and produce an ir.ValidationReport
//
// The compiler package wires the stages together:
//
//	model, err := compiler.CompileWithOptions(compiler.WithFilePath("openapi.yaml"))
//	if err != nil {
//		var cerr *oaserrors.CompilationError
//		if errors.As(err, &cerr) {
//			for _, e := range cerr.Errors {
//				fmt.Println(e)
//			}
//		}
//		log.Fatal(err)
//	}
//	for _, d := range model.Report.Diagnostics {
//		fmt.Println(d)
//	}
//
// # Errors
//
// Malformed input fails immediately with an oaserrors.FormatError. Dangling
// references, contradictory schemas, and path/parameter mismatches are
// collected across the whole document and returned together in a single
// oaserrors.CompilationError, so one run reports every problem.
//
// Validation diagnostics are separate: they are produced only once a
// structurally valid IR exists, and never abort compilation. Callers decide
// whether warnings block further processing; the generator package refuses to
// run on error-severity diagnostics but tolerates warnings.
//
// # Relationship inference
//
// Relationships are inferred heuristically from schema shape and property
// names. They are a generation aid, not a source of truth for foreign-key
// constraints. In particular, two entities that each hold an array of the
// other always collapse into one many-to-many edge, even if the author meant
// two independent one-to-many relationships.
//
// # Concurrency
//
// A compilation is single-threaded and synchronous. Independent documents may
// be compiled concurrently; no package in the pipeline holds mutable state
// between calls. A returned ir.Model is immutable by convention and safe to
// share across goroutines. Consumers that need a mutable view call Model.Copy.
package oasir
