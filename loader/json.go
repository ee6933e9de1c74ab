package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/oaserrors"
)

// DuplicateKey is a mapping key defined more than once. The later value wins;
// Line and Column locate the later key.
type DuplicateKey struct {
	// Pointer addresses the duplicated entry.
	Pointer string
	Line    int
	Column  int
}

// jsonTree builds a Node tree from the decoder's token stream. Token
// positions come from a cursor over the raw bytes, which checkJSON has
// already verified as well formed.
type jsonTree struct {
	source string
	data   []byte
	dec    *gojson.Decoder
	path   *pathutil.PointerBuilder
	count  int
	dups   []DuplicateKey

	off    int
	line   int
	column int
}

func newJSONTree(data []byte, source string) *jsonTree {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &jsonTree{
		source: source,
		data:   data,
		dec:    dec,
		path:   pathutil.NewPointerBuilder(),
		line:   1,
		column: 1,
	}
}

func (t *jsonTree) build() (*Node, error) {
	tok, line, column, err := t.next()
	if err != nil {
		return nil, err
	}
	return t.value(tok, line, column)
}

func (t *jsonTree) fail(line, column int, msg string) error {
	return &oaserrors.FormatError{Source: t.source, Line: line, Column: column, Message: msg}
}

// next returns the next token and the position where it starts.
func (t *jsonTree) next() (gojson.Token, int, int, error) {
	t.seek()
	line, column := t.line, t.column
	tok, err := t.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, line, column, t.fail(line, column, "unexpected end of json")
		}
		return nil, line, column, &oaserrors.FormatError{
			Source:  t.source,
			Line:    line,
			Column:  column,
			Message: "invalid json",
			Cause:   err,
		}
	}
	t.skip()
	return tok, line, column, nil
}

func (t *jsonTree) value(tok gojson.Token, line, column int) (*Node, error) {
	t.count++
	if t.count > maxExpandedNodes {
		return nil, t.fail(line, column, "document expands to too many nodes")
	}
	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			return t.mapping(line, column)
		case '[':
			return t.sequence(line, column)
		}
		return nil, t.fail(line, column, fmt.Sprintf("unexpected %q", rune(v)))
	case gojson.Number:
		return &Node{Kind: ScalarKind, Value: jsonNumber(v), Line: line, Column: column}, nil
	case string, bool, nil:
		return &Node{Kind: ScalarKind, Value: tok, Line: line, Column: column}, nil
	}
	return nil, t.fail(line, column, fmt.Sprintf("unexpected token %v", tok))
}

func (t *jsonTree) mapping(line, column int) (*Node, error) {
	out := &Node{Kind: MappingKind, Line: line, Column: column}
	for {
		tok, kl, kc, err := t.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(gojson.Delim); ok && d == '}' {
			return out, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, t.fail(kl, kc, "mapping key must be a string")
		}
		tok, vl, vc, err := t.next()
		if err != nil {
			return nil, err
		}
		t.path.Push(key)
		val, err := t.value(tok, vl, vc)
		if err == nil && setEntry(out, key, val, true) {
			t.dups = append(t.dups, DuplicateKey{Pointer: t.path.String(), Line: kl, Column: kc})
		}
		t.path.Pop()
		if err != nil {
			return nil, err
		}
	}
}

func (t *jsonTree) sequence(line, column int) (*Node, error) {
	out := &Node{Kind: SequenceKind, Line: line, Column: column, Items: []*Node{}}
	for {
		tok, il, ic, err := t.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(gojson.Delim); ok && d == ']' {
			return out, nil
		}
		t.path.Push(strconv.Itoa(len(out.Items)))
		val, err := t.value(tok, il, ic)
		t.path.Pop()
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, val)
	}
}

// seek moves the cursor to the next token start, passing the whitespace and
// separators the decoder consumes silently.
func (t *jsonTree) seek() {
	for t.off < len(t.data) {
		switch t.data[t.off] {
		case ' ', '\t', '\r', '\n', ',', ':':
			t.step()
		default:
			return
		}
	}
}

// skip moves the cursor past the token that starts at it.
func (t *jsonTree) skip() {
	if t.off >= len(t.data) {
		return
	}
	switch t.data[t.off] {
	case '{', '}', '[', ']':
		t.step()
	case '"':
		t.step()
		for t.off < len(t.data) {
			b := t.data[t.off]
			t.step()
			switch b {
			case '\\':
				if t.off < len(t.data) {
					t.step()
				}
			case '"':
				return
			}
		}
	default:
		for t.off < len(t.data) && !isJSONBoundary(t.data[t.off]) {
			t.step()
		}
	}
}

// step advances one byte. Columns count characters, so UTF-8 continuation
// bytes do not move the column.
func (t *jsonTree) step() {
	b := t.data[t.off]
	t.off++
	switch {
	case b == '\n':
		t.line++
		t.column = 1
	case b&0xC0 != 0x80:
		t.column++
	}
}

func isJSONBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ',', ':', '{', '}', '[', ']':
		return true
	}
	return false
}

// jsonNumber types a number the way YAML resolves the same literal: integers
// become int, everything else float64.
func jsonNumber(n gojson.Number) any {
	if i, err := strconv.Atoi(string(n)); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}
