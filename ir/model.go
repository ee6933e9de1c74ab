package ir

import (
	"strings"

	"github.com/erraggy/oasir/internal/naming"
)

// ServerVariable is a substitution variable of a server URL template.
type ServerVariable struct {
	Name        string   `json:"name" yaml:"name"`
	Default     string   `json:"default" yaml:"default"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Server is a declared API server.
type Server struct {
	URL         string           `json:"url" yaml:"url"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Variables   []ServerVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Tag is a declared operation tag.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OAuthFlow is one OAuth 2 flow of a security scheme.
type OAuthFlow struct {
	Kind             string   `json:"kind" yaml:"kind"`
	AuthorizationURL string   `json:"authorizationUrl,omitempty" yaml:"authorizationUrl,omitempty"`
	TokenURL         string   `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
	RefreshURL       string   `json:"refreshUrl,omitempty" yaml:"refreshUrl,omitempty"`
	Scopes           []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// SecurityScheme is a declared component security scheme.
type SecurityScheme struct {
	Name             string      `json:"name" yaml:"name"`
	Type             string      `json:"type" yaml:"type"`
	Description      string      `json:"description,omitempty" yaml:"description,omitempty"`
	Scheme           string      `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	BearerFormat     string      `json:"bearerFormat,omitempty" yaml:"bearerFormat,omitempty"`
	In               string      `json:"in,omitempty" yaml:"in,omitempty"`
	ParameterName    string      `json:"parameterName,omitempty" yaml:"parameterName,omitempty"`
	OpenIDConnectURL string      `json:"openIdConnectUrl,omitempty" yaml:"openIdConnectUrl,omitempty"`
	Flows            []OAuthFlow `json:"flows,omitempty" yaml:"flows,omitempty"`
}

// DuplicateKey is a mapping key the document defines more than once. The
// later value is the one compiled.
type DuplicateKey struct {
	Key      string   `json:"key" yaml:"key"`
	Location Location `json:"location" yaml:"location"`
}

// EntityRef names a component schema and its id in the arena.
type EntityRef struct {
	Name   string `json:"name" yaml:"name"`
	Schema string `json:"schema" yaml:"schema"`
}

// Model is the compiled intermediate representation of one document.
//
// A Model is read-only by convention: consumers that need a mutable derived
// view call Copy.
type Model struct {
	Title           string           `json:"title" yaml:"title"`
	Version         string           `json:"version" yaml:"version"`
	Description     string           `json:"description,omitempty" yaml:"description,omitempty"`
	OpenAPI         string           `json:"openapi" yaml:"openapi"`
	Servers         []Server         `json:"servers,omitempty" yaml:"servers,omitempty"`
	Tags            []Tag            `json:"tags,omitempty" yaml:"tags,omitempty"`
	SecuritySchemes []SecurityScheme `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
	// Entities lists the component schemas in declaration order.
	Entities      []EntityRef        `json:"entities" yaml:"entities"`
	Schemas       *SchemaSet         `json:"schemas" yaml:"schemas"`
	Relationships []RelationshipEdge `json:"relationships" yaml:"relationships"`
	Operations    []Operation        `json:"operations" yaml:"operations"`
	DuplicateKeys []DuplicateKey     `json:"duplicateKeys,omitempty" yaml:"duplicateKeys,omitempty"`
	Report        ValidationReport   `json:"report" yaml:"report"`
	SourcePath    string             `json:"sourcePath,omitempty" yaml:"sourcePath,omitempty"`
}

// Entity returns the component schema whose name or class name is name.
func (m *Model) Entity(name string) (*Schema, bool) {
	for _, e := range m.Entities {
		if e.Name == name || ClassName(e.Name) == name {
			return m.Schemas.Get(e.Schema)
		}
	}
	return nil, false
}

// EntityNames returns the component schema names in declaration order.
func (m *Model) EntityNames() []string {
	out := make([]string, len(m.Entities))
	for i, e := range m.Entities {
		out[i] = e.Name
	}
	return out
}

// OperationsByTag returns the operations tagged with tag, in model order.
func (m *Model) OperationsByTag(tag string) []Operation {
	var out []Operation
	for i := range m.Operations {
		if m.Operations[i].HasTag(tag) {
			out = append(out, m.Operations[i])
		}
	}
	return out
}

// Operation returns the operation for a method and path template.
func (m *Model) Operation(method, path string) (Operation, bool) {
	for _, op := range m.Operations {
		if strings.EqualFold(op.Method, method) && op.Path == path {
			return op, true
		}
	}
	return Operation{}, false
}

// SecurityScheme returns the declared security scheme called name.
func (m *Model) SecurityScheme(name string) (SecurityScheme, bool) {
	for _, s := range m.SecuritySchemes {
		if s.Name == name {
			return s, true
		}
	}
	return SecurityScheme{}, false
}

// ProjectName derives a snake_case project name from the title.
func (m *Model) ProjectName() string {
	return naming.ToSnakeCase(m.Title)
}

// ClassName converts a component name to a PascalCase type name.
func ClassName(name string) string {
	return naming.ToPascalCase(name)
}

// TableName converts a component name to a plural snake_case table name.
func TableName(name string) string {
	return naming.Pluralize(naming.ToSnakeCase(name))
}
