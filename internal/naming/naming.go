package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' ' || r == '{' || r == '}'
}

// Words splits s into words on separators and case boundaries.
// Acronyms stay together: "APIClient" -> ["API", "Client"].
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}
	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			// "userId" -> "user" | "Id"
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// "APIClient" -> "API" | "Client"
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

// ToPascalCase converts a string to PascalCase.
// Example: "user_profile" -> "UserProfile"
// Example: "api-client" -> "ApiClient"
func ToPascalCase(s string) string {
	title := cases.Title(language.English, cases.NoLower)
	var b strings.Builder
	b.Grow(len(s))
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "user_profile" -> "userProfile"
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.English)
	title := cases.Title(language.English, cases.NoLower)
	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case.
// Example: "UserProfile" -> "user_profile"
// Example: "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	lower := cases.Lower(language.English)
	words := Words(s)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}

// ToKebabCase converts a string to kebab-case.
// Example: "UserProfile" -> "user-profile"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// Pluralize appends "s" unless the word already ends in "s".
func Pluralize(s string) string {
	if s == "" || strings.HasSuffix(strings.ToLower(s), "s") {
		return s
	}
	return s + "s"
}

// FunctionName derives a snake_case function name for an operation.
// A declared operationId is lower-cased with hyphens mapped to underscores;
// otherwise the name is built from the method and the literal path segments.
// Example: ("", "GET", "/users/{id}/posts") -> "get_users_posts"
func FunctionName(operationID, method, path string) string {
	if operationID != "" {
		return strings.ReplaceAll(cases.Lower(language.English).String(operationID), "-", "_")
	}
	parts := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
	}
	return strings.Join(parts, "_")
}
