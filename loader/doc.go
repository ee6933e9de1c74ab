// Package loader reads OpenAPI documents in YAML or JSON form into an ordered
// tree of [Node] values that carry 1-based line and column positions.
//
// The loader performs no semantic checks. It fails with an
// [oaserrors.FormatError] when the input is empty, exceeds the size limit, is
// neither well-formed YAML nor well-formed JSON, or has a non-mapping root.
//
// # Format detection
//
// The file extension decides first (.json, .yaml, .yml). Otherwise content
// beginning with '{' or '[' is JSON and anything else is YAML. JSON is checked
// strictly with github.com/goccy/go-json so a syntax error reports the JSON
// line and column. Both forms are then decoded through go.yaml.in/yaml/v4
// node trees, which keeps key order and positions identical across formats.
//
// # Aliases
//
// YAML aliases and merge keys are expanded in place. Alias nesting and the
// total expanded size are bounded to defeat exponential expansion.
//
// # Usage
//
//	doc, err := loader.Load(loader.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    return err
//	}
//	title := doc.Root.Get("info").Text("title")
//
// The [Logger] interface defined here is shared by every pipeline stage.
package loader
