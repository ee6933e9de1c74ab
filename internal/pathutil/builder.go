package pathutil

import "strings"

// PointerBuilder builds JSON pointers incrementally during traversal.
// Tokens are escaped on Push; the full string is only materialized when
// String() is called.
type PointerBuilder struct {
	tokens []string
}

// NewPointerBuilder returns a builder positioned at the document root.
func NewPointerBuilder() *PointerBuilder {
	return &PointerBuilder{tokens: make([]string, 0, 8)}
}

// Push adds an unescaped token.
func (p *PointerBuilder) Push(token string) {
	p.tokens = append(p.tokens, Escape(token))
}

// Pop removes the last token. Popping the root is a no-op.
func (p *PointerBuilder) Pop() {
	if len(p.tokens) == 0 {
		return
	}
	p.tokens = p.tokens[:len(p.tokens)-1]
}

// Depth returns the number of tokens below the root.
func (p *PointerBuilder) Depth() int {
	return len(p.tokens)
}

// String materializes the pointer.
func (p *PointerBuilder) String() string {
	if len(p.tokens) == 0 {
		return Root
	}
	return Root + "/" + strings.Join(p.tokens, "/")
}
