package pathutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Root is the pointer of the document root.
const Root = "#"

var (
	tokenEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape escapes a single reference token per RFC 6901.
func Escape(token string) string {
	return tokenEscaper.Replace(token)
}

// Unescape reverses Escape.
func Unescape(token string) string {
	return tokenUnescaper.Replace(token)
}

// Append returns the pointer formed by adding the escaped token to ptr.
func Append(ptr, token string) string {
	return ptr + "/" + Escape(token)
}

// Split returns the unescaped reference tokens of a "#"-prefixed pointer.
// The root pointer "#" yields no tokens.
func Split(ptr string) ([]string, error) {
	if !strings.HasPrefix(ptr, Root) {
		return nil, fmt.Errorf("pathutil: pointer %q does not start with #", ptr)
	}
	rest := ptr[1:]
	if rest == "" {
		return nil, nil
	}
	if rest[0] != '/' {
		return nil, fmt.Errorf("pathutil: pointer %q must be # or start with #/", ptr)
	}
	parts := strings.Split(rest[1:], "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts, nil
}

// Canonical converts a fragment reference as written in a document into the
// canonical pointer form used as a graph key. Percent-encoded characters are
// decoded and every token is re-escaped, so "#/paths/~1a%7Bb%7D" and
// "#/paths/~1a{b}" name the same node.
func Canonical(ref string) (string, error) {
	if !strings.HasPrefix(ref, Root) {
		return "", fmt.Errorf("pathutil: %q is not a local reference", ref)
	}
	frag, err := url.PathUnescape(ref[1:])
	if err != nil {
		return "", fmt.Errorf("pathutil: invalid percent-encoding in %q: %w", ref, err)
	}
	tokens, err := Split(Root + frag)
	if err != nil {
		return "", err
	}
	out := Root
	for _, t := range tokens {
		out = Append(out, t)
	}
	return out, nil
}

// IsLocal reports whether ref is a same-document fragment reference.
func IsLocal(ref string) bool {
	return strings.HasPrefix(ref, Root)
}

// Contains reports whether ptr equals ancestor or lies inside its subtree.
func Contains(ancestor, ptr string) bool {
	if ancestor == ptr || ancestor == Root {
		return true
	}
	return strings.HasPrefix(ptr, ancestor+"/")
}
