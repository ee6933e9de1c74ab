package pathutil

import "strings"

// OAS 3.x reference prefixes
const (
	RefPrefixComponents      = "#/components"
	RefPrefixSchemas         = "#/components/schemas/"
	RefPrefixParameters      = "#/components/parameters/"
	RefPrefixResponses       = "#/components/responses/"
	RefPrefixRequestBodies   = "#/components/requestBodies/"
	RefPrefixHeaders         = "#/components/headers/"
	RefPrefixSecuritySchemes = "#/components/securitySchemes/"
	RefPrefixPaths           = "#/paths"
)

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + Escape(name)
}

// SecuritySchemeRef builds "#/components/securitySchemes/{name}".
func SecuritySchemeRef(name string) string {
	return RefPrefixSecuritySchemes + Escape(name)
}

// ComponentName returns the component name when ref is exactly one token
// below prefix (e.g. "#/components/schemas/User" -> "User").
func ComponentName(ref, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return Unescape(rest), true
}
