// Package pathutil provides JSON pointer and path template utilities shared by
// the resolver, normalizer, and operation compiler.
//
// # JSON Pointers
//
// Every node of a loaded document is addressed by a canonical JSON pointer
// fragment ("#", "#/components/schemas/User"). Tokens are escaped per RFC 6901
// (~0 for "~", ~1 for "/"):
//
//	ptr := pathutil.Append("#/paths", "/users/{id}") // "#/paths/~1users~1{id}"
//	tokens, err := pathutil.Split(ptr)              // ["paths", "/users/{id}"]
//
// [PointerBuilder] uses push/pop semantics during recursive traversal and only
// materializes a string when one is needed.
//
// # Reference Builders
//
//	ref := pathutil.SchemaRef("Pet") // "#/components/schemas/Pet"
//	name, ok := pathutil.ComponentName(ref, pathutil.RefPrefixSchemas)
//
// # Path Templates
//
// [TemplateParams] extracts "{name}" segments from a path template in order.
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for the CLI and
// generator. It rejects symlinks.
package pathutil
