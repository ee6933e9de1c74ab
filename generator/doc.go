// Package generator defines the extension point for code generation backends
// that consume a compiled [ir.Model].
//
// A [Backend] turns a model into [Files], text keyed by output path relative
// to an output directory. [Run] refuses models whose validation report holds
// error diagnostics and tolerates warnings, logging each one.
//
// The package ships one reference backend, [GoModels], which renders one Go
// struct per object entity and formats the result with goimports-equivalent
// processing so the output compiles without further tooling:
//
//	files, err := generator.Run(ctx, generator.GoModels{PackageName: "models"}, model)
//	if err != nil {
//	    return err
//	}
//	return files.Write("./gen")
//
// Backends must not mutate the model. A backend that needs a derived view
// calls Model.Copy.
package generator
