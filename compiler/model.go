package compiler

import (
	"strings"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/resolver"
)

func servers(n *loader.Node) []ir.Server {
	if !n.IsSequence() {
		return nil
	}
	out := make([]ir.Server, 0, len(n.Items))
	for _, item := range n.Items {
		s := ir.Server{URL: item.Text("url"), Description: item.Text("description")}
		if vars := item.Get("variables"); vars.IsMapping() {
			for _, e := range vars.Entries {
				v := ir.ServerVariable{
					Name:        e.Key,
					Default:     scalarText(e.Value.Get("default")),
					Description: e.Value.Text("description"),
				}
				for _, opt := range e.Value.Get("enum").Items {
					v.Enum = append(v.Enum, scalarText(opt))
				}
				s.Variables = append(s.Variables, v)
			}
		}
		out = append(out, s)
	}
	return out
}

func tags(n *loader.Node) []ir.Tag {
	if !n.IsSequence() {
		return nil
	}
	out := make([]ir.Tag, 0, len(n.Items))
	for _, item := range n.Items {
		out = append(out, ir.Tag{Name: item.Text("name"), Description: item.Text("description")})
	}
	return out
}

// oauthFlows lists the OAuth 2 flow kinds in the order they are reported.
var oauthFlows = []string{"implicit", "password", "clientCredentials", "authorizationCode"}

func securitySchemes(g *resolver.Graph) []ir.SecurityScheme {
	schemes := g.Root().Get("components").Get("securitySchemes")
	if !schemes.IsMapping() {
		return nil
	}
	out := make([]ir.SecurityScheme, 0, len(schemes.Entries))
	for _, e := range schemes.Entries {
		n, _, ok := g.Follow(pathutil.SecuritySchemeRef(e.Key))
		if !ok || !n.IsMapping() {
			continue
		}
		s := ir.SecurityScheme{
			Name:             e.Key,
			Type:             n.Text("type"),
			Description:      n.Text("description"),
			Scheme:           n.Text("scheme"),
			BearerFormat:     n.Text("bearerFormat"),
			In:               n.Text("in"),
			ParameterName:    n.Text("name"),
			OpenIDConnectURL: n.Text("openIdConnectUrl"),
		}
		flows := n.Get("flows")
		for _, kind := range oauthFlows {
			f, ok := flows.Lookup(kind)
			if !ok {
				continue
			}
			s.Flows = append(s.Flows, ir.OAuthFlow{
				Kind:             kind,
				AuthorizationURL: f.Text("authorizationUrl"),
				TokenURL:         f.Text("tokenUrl"),
				RefreshURL:       f.Text("refreshUrl"),
				Scopes:           f.Get("scopes").Keys(),
			})
		}
		out = append(out, s)
	}
	return out
}

func duplicateKeys(dups []loader.DuplicateKey) []ir.DuplicateKey {
	if len(dups) == 0 {
		return nil
	}
	out := make([]ir.DuplicateKey, len(dups))
	for i, d := range dups {
		out[i] = ir.DuplicateKey{
			Key:      pathutil.Unescape(d.Pointer[strings.LastIndex(d.Pointer, "/")+1:]),
			Location: ir.Location{Pointer: d.Pointer, Line: d.Line, Column: d.Column},
		}
	}
	return out
}
