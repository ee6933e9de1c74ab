package ir

import (
	"strings"

	"github.com/erraggy/oasir/internal/naming"
)

// Parameter is one compiled operation parameter.
type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	In          string   `json:"in" yaml:"in"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Style       string   `json:"style,omitempty" yaml:"style,omitempty"`
	Explode     *bool    `json:"explode,omitempty" yaml:"explode,omitempty"`
	Schema      string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Location    Location `json:"location" yaml:"location"`
}

// MediaType pairs a content type with its schema id.
type MediaType struct {
	ContentType string `json:"contentType" yaml:"contentType"`
	Schema      string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody is a compiled request body.
type RequestBody struct {
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Content     []MediaType `json:"content,omitempty" yaml:"content,omitempty"`
	Location    Location    `json:"location" yaml:"location"`
}

// Header is a compiled response header.
type Header struct {
	Name        string `json:"name" yaml:"name"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response is one compiled response, keyed by status code or "default".
type Response struct {
	StatusCode  string      `json:"statusCode" yaml:"statusCode"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Content     []MediaType `json:"content,omitempty" yaml:"content,omitempty"`
	Headers     []Header    `json:"headers,omitempty" yaml:"headers,omitempty"`
	Location    Location    `json:"location" yaml:"location"`
}

// Schema returns the schema id of the response body: the application/json
// media type when present, else the first one. Empty means no content.
func (r Response) Schema() string {
	for _, m := range r.Content {
		if m.ContentType == "application/json" {
			return m.Schema
		}
	}
	if len(r.Content) > 0 {
		return r.Content[0].Schema
	}
	return ""
}

// IsSuccess reports whether the status code is 2xx (including "2XX").
func (r Response) IsSuccess() bool {
	return len(r.StatusCode) == 3 && r.StatusCode[0] == '2'
}

// SecurityScope names a security scheme and the scopes it requires.
type SecurityScope struct {
	Scheme string   `json:"scheme" yaml:"scheme"`
	Scopes []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// SecurityRequirement is one alternative: all of its schemes must be satisfied.
type SecurityRequirement struct {
	Schemes []SecurityScope `json:"schemes" yaml:"schemes"`
}

// Operation is one compiled path × method pair.
type Operation struct {
	Method           string                `json:"method" yaml:"method"`
	Path             string                `json:"path" yaml:"path"`
	OperationID      string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary          string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description      string                `json:"description,omitempty" yaml:"description,omitempty"`
	Tags             []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated       bool                  `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	PathParameters   []Parameter           `json:"pathParameters,omitempty" yaml:"pathParameters,omitempty"`
	QueryParameters  []Parameter           `json:"queryParameters,omitempty" yaml:"queryParameters,omitempty"`
	HeaderParameters []Parameter           `json:"headerParameters,omitempty" yaml:"headerParameters,omitempty"`
	CookieParameters []Parameter           `json:"cookieParameters,omitempty" yaml:"cookieParameters,omitempty"`
	RequestBody      *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses        []Response            `json:"responses,omitempty" yaml:"responses,omitempty"`
	Security         []SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`
	Location         Location              `json:"location" yaml:"location"`
}

// FunctionName returns a snake_case function name: the lower-cased
// operationId, or one derived from the method and literal path segments.
func (o *Operation) FunctionName() string {
	return naming.FunctionName(o.OperationID, o.Method, o.Path)
}

// Parameters returns every parameter in path, query, header, cookie order.
func (o *Operation) Parameters() []Parameter {
	out := make([]Parameter, 0, len(o.PathParameters)+len(o.QueryParameters)+len(o.HeaderParameters)+len(o.CookieParameters))
	out = append(out, o.PathParameters...)
	out = append(out, o.QueryParameters...)
	out = append(out, o.HeaderParameters...)
	out = append(out, o.CookieParameters...)
	return out
}

// SuccessResponse returns the first 2xx response that carries a schema.
func (o *Operation) SuccessResponse() (Response, bool) {
	for _, r := range o.Responses {
		if r.IsSuccess() && r.Schema() != "" {
			return r, true
		}
	}
	return Response{}, false
}

// Response returns the response for a status code.
func (o *Operation) Response(code string) (Response, bool) {
	for _, r := range o.Responses {
		if strings.EqualFold(r.StatusCode, code) {
			return r, true
		}
	}
	return Response{}, false
}

// HasTag reports whether the operation is tagged with tag.
func (o *Operation) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
