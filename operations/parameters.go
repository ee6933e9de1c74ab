package operations

import (
	"fmt"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/oaserrors"
)

var validLocations = map[string]bool{
	InPath:   true,
	InQuery:  true,
	InHeader: true,
	InCookie: true,
}

// parameters compiles one level of parameter declarations. Within the level a
// later declaration of the same name and location replaces the earlier one.
func (c *compiler) parameters(path, method string, list *loader.Node, ptr string) []ir.Parameter {
	if !list.IsSequence() {
		return nil
	}
	var out []ir.Parameter
	for i := range list.Items {
		if p, ok := c.parameter(path, method, fmt.Sprintf("%s/%d", ptr, i)); ok {
			out = override(out, []ir.Parameter{p})
		}
	}
	return out
}

func (c *compiler) parameter(path, method, ptr string) (ir.Parameter, bool) {
	n, final, ok := c.g.Follow(ptr)
	if !ok {
		// dangling, reported by the resolver
		return ir.Parameter{}, false
	}
	loc := location(final, n)
	fail := func(format string, args ...any) (ir.Parameter, bool) {
		c.errs = append(c.errs, &oaserrors.OperationError{
			Method:   method,
			Path:     path,
			Location: final,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  fmt.Sprintf(format, args...),
		})
		return ir.Parameter{}, false
	}
	if !n.IsMapping() {
		return fail("parameter must be a mapping")
	}
	name := n.Text("name")
	if name == "" {
		return fail("parameter has no name")
	}
	in := n.Text("in")
	if !validLocations[in] {
		return fail("parameter %q has invalid location %q", name, in)
	}

	p := ir.Parameter{
		Name:        name,
		In:          in,
		Required:    in == InPath || n.Flag("required"),
		Deprecated:  n.Flag("deprecated"),
		Description: n.Text("description"),
		Style:       n.Text("style"),
		Location:    loc,
	}
	if explode, ok := n.Get("explode").Bool(); ok {
		p.Explode = &explode
	}
	if n.Has("schema") {
		p.Schema = c.schemaID(pathutil.Append(final, "schema"))
	} else if mts := c.content(n, final); len(mts) > 0 {
		p.Schema = mts[0].Schema
	}
	return p, true
}

// override applies later parameters over earlier ones by (name, in). A
// replaced parameter keeps its original position.
func override(base, later []ir.Parameter) []ir.Parameter {
	out := make([]ir.Parameter, len(base), len(base)+len(later))
	copy(out, base)
	for _, p := range later {
		replaced := false
		for i := range out {
			if out[i].Name == p.Name && out[i].In == p.In {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}
