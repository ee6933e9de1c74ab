package operations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/normalizer"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/resolver"
)

// Parameter locations
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Option configures Compile.
type Option func(*config) error

type config struct {
	logger loader.Logger
}

// WithLogger sets the logger. Nil selects NopLogger.
func WithLogger(l loader.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

type compiler struct {
	g        *resolver.Graph
	res      *normalizer.Result
	log      loader.Logger
	security []ir.SecurityRequirement
	errs     []error
}

// Compile returns every operation of the document in path then method order.
// The operations are returned even on error; the error joins every
// *oaserrors.OperationError and *oaserrors.SchemaError found.
func Compile(g *resolver.Graph, res *normalizer.Result, opts ...Option) ([]ir.Operation, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("operations: invalid options: %w", err)
		}
	}
	if g == nil || res == nil {
		return nil, &oaserrors.ConfigError{Option: "graph", Message: "operations: reference graph and normalized schemas are required"}
	}

	c := &compiler{g: g, res: res, log: loader.OrNop(cfg.logger)}
	root := g.Root()
	c.security = security(root.Get("security"))

	var ops []ir.Operation
	paths := root.Get("paths")
	if paths.IsMapping() {
		for _, e := range paths.Entries {
			ops = append(ops, c.pathItem(e.Key, pathutil.Append(pathutil.RefPrefixPaths, e.Key))...)
		}
	}
	c.log.Debug("compiled operations", "operations", len(ops), "errors", len(c.errs))
	return ops, errors.Join(c.errs...)
}

func (c *compiler) pathItem(path, ptr string) []ir.Operation {
	item, itemPtr, ok := c.g.Follow(ptr)
	if !ok || !item.IsMapping() {
		return nil
	}
	shared := c.parameters(path, "", item.Get("parameters"), pathutil.Append(itemPtr, "parameters"))

	var ops []ir.Operation
	for _, e := range item.Entries {
		if !normalizer.IsMethod(e.Key) || !e.Value.IsMapping() {
			continue
		}
		ops = append(ops, c.operation(path, e.Key, e.Value, pathutil.Append(itemPtr, e.Key), shared))
	}
	return ops
}

func (c *compiler) operation(path, method string, n *loader.Node, ptr string, shared []ir.Parameter) ir.Operation {
	method = strings.ToUpper(method)
	op := ir.Operation{
		Method:      method,
		Path:        path,
		OperationID: n.Text("operationId"),
		Summary:     n.Text("summary"),
		Description: n.Text("description"),
		Deprecated:  n.Flag("deprecated"),
		Location:    location(ptr, n),
	}
	if tags := n.Get("tags"); tags.IsSequence() {
		for _, t := range tags.Items {
			if s, ok := t.Str(); ok {
				op.Tags = append(op.Tags, s)
			}
		}
	}

	params := override(shared, c.parameters(path, method, n.Get("parameters"), pathutil.Append(ptr, "parameters")))
	for _, p := range params {
		switch p.In {
		case InPath:
			op.PathParameters = append(op.PathParameters, p)
		case InQuery:
			op.QueryParameters = append(op.QueryParameters, p)
		case InHeader:
			op.HeaderParameters = append(op.HeaderParameters, p)
		case InCookie:
			op.CookieParameters = append(op.CookieParameters, p)
		}
	}
	c.checkTemplate(&op)

	if n.Has("requestBody") {
		op.RequestBody = c.requestBody(pathutil.Append(ptr, "requestBody"))
	}
	if responses := n.Get("responses"); responses.IsMapping() {
		base := pathutil.Append(ptr, "responses")
		for _, e := range responses.Entries {
			if r, ok := c.response(e.Key, pathutil.Append(base, e.Key)); ok {
				op.Responses = append(op.Responses, r)
			}
		}
	}

	if sec, ok := n.Lookup("security"); ok {
		op.Security = security(sec)
	} else {
		op.Security = c.security
	}
	return op
}

func (c *compiler) operationError(op *ir.Operation, format string, args ...any) {
	c.errs = append(c.errs, &oaserrors.OperationError{
		Method:   op.Method,
		Path:     op.Path,
		Location: op.Location.Pointer,
		Line:     op.Location.Line,
		Column:   op.Location.Column,
		Message:  fmt.Sprintf(format, args...),
	})
}

// checkTemplate compares the {name} segments of the path with the declared
// path parameters.
func (c *compiler) checkTemplate(op *ir.Operation) {
	seen := make(map[string]bool)
	for _, name := range pathutil.TemplateParams(op.Path) {
		if seen[name] {
			c.operationError(op, "path template repeats parameter %q", name)
			continue
		}
		seen[name] = true
		if !declared(op.PathParameters, name) {
			c.operationError(op, "path template parameter %q is not declared", name)
		}
	}
	for _, p := range op.PathParameters {
		if !seen[p.Name] {
			c.operationError(op, "path parameter %q does not appear in the template", p.Name)
		}
	}
}

func declared(params []ir.Parameter, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func location(ptr string, n *loader.Node) ir.Location {
	loc := ir.Location{Pointer: ptr}
	if n != nil {
		loc.Line, loc.Column = n.Line, n.Column
	}
	return loc
}

// schemaID returns the arena id for the schema position ptr.
func (c *compiler) schemaID(ptr string) string {
	if id, ok := c.res.Schemas.IDFor(ptr); ok {
		return id
	}
	n, exists := c.g.Node(ptr)
	if !exists || c.res.Failed(ptr) {
		return ""
	}
	loc := location(ptr, n)
	c.errs = append(c.errs, &oaserrors.SchemaError{
		Reason:   "schema was not normalized",
		Location: ptr,
		Line:     loc.Line,
		Column:   loc.Column,
	})
	return ""
}

// content compiles the media types of the content map under the node at ptr.
func (c *compiler) content(n *loader.Node, ptr string) []ir.MediaType {
	content := n.Get("content")
	if !content.IsMapping() {
		return nil
	}
	base := pathutil.Append(ptr, "content")
	out := make([]ir.MediaType, 0, len(content.Entries))
	for _, e := range content.Entries {
		mt := ir.MediaType{ContentType: e.Key}
		if e.Value.Has("schema") {
			mt.Schema = c.schemaID(pathutil.Append(pathutil.Append(base, e.Key), "schema"))
		}
		out = append(out, mt)
	}
	return out
}

func (c *compiler) requestBody(ptr string) *ir.RequestBody {
	n, final, ok := c.g.Follow(ptr)
	if !ok || !n.IsMapping() {
		return nil
	}
	return &ir.RequestBody{
		Required:    n.Flag("required"),
		Description: n.Text("description"),
		Content:     c.content(n, final),
		Location:    location(final, n),
	}
}

func (c *compiler) response(code, ptr string) (ir.Response, bool) {
	n, final, ok := c.g.Follow(ptr)
	if !ok || !n.IsMapping() {
		return ir.Response{}, false
	}
	r := ir.Response{
		StatusCode:  code,
		Description: n.Text("description"),
		Content:     c.content(n, final),
		Location:    location(final, n),
	}
	if headers := n.Get("headers"); headers.IsMapping() {
		base := pathutil.Append(final, "headers")
		for _, e := range headers.Entries {
			h, hPtr, ok := c.g.Follow(pathutil.Append(base, e.Key))
			if !ok || !h.IsMapping() {
				continue
			}
			header := ir.Header{
				Name:        e.Key,
				Required:    h.Flag("required"),
				Description: h.Text("description"),
			}
			if h.Has("schema") {
				header.Schema = c.schemaID(pathutil.Append(hPtr, "schema"))
			} else if mts := c.content(h, hPtr); len(mts) > 0 {
				header.Schema = mts[0].Schema
			}
			r.Headers = append(r.Headers, header)
		}
	}
	return r, true
}

// security converts a list of security requirement objects.
func security(n *loader.Node) []ir.SecurityRequirement {
	if !n.IsSequence() {
		return nil
	}
	out := make([]ir.SecurityRequirement, 0, len(n.Items))
	for _, item := range n.Items {
		req := ir.SecurityRequirement{}
		for _, e := range item.Entries {
			scope := ir.SecurityScope{Scheme: e.Key}
			for _, s := range e.Value.Items {
				if v, ok := s.Str(); ok {
					scope.Scopes = append(scope.Scopes, v)
				}
			}
			req.Schemes = append(req.Schemes, scope)
		}
		out = append(out, req)
	}
	return out
}
