package generator

import (
	"strings"
	"unicode"

	"github.com/erraggy/oasir/internal/naming"
)

// maxDescriptionLength is the maximum length for descriptions in Go comments
// before truncation.
const maxDescriptionLength = 200

// goReservedWords contains Go reserved keywords that cannot be used as identifiers.
// Predeclared identifiers like "error" are left out; they can be shadowed and
// are common type names.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// escapeReservedWord appends an underscore to Go keywords. The check is
// case-insensitive so PascalCase names like "Type" are escaped too.
func escapeReservedWord(name string) string {
	if goReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// toTypeName converts an OpenAPI name to an exported Go identifier.
// Exported names never collide with keywords, so no escaping is needed.
func toTypeName(s string) string {
	var b strings.Builder
	for _, r := range naming.ToPascalCase(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "Model"
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "T" + name
	}
	return name
}

// toPackageName converts a name to a lower-case Go package name.
func toPackageName(s string) string {
	name := strings.ReplaceAll(naming.ToSnakeCase(s), "_", "")
	if name == "" {
		return "models"
	}
	return escapeReservedWord(name)
}

// cleanDescription flattens a description onto one comment line.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxDescriptionLength {
		s = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return s
}
