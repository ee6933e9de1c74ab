package loader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasir/internal/testutil"
	"github.com/erraggy/oasir/oaserrors"
)

func TestLoadYAML(t *testing.T) {
	doc, err := Load(WithBytes([]byte(testutil.MinimalYAML)))
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, doc.Format)
	assert.Equal(t, "LoadBytes", doc.SourcePath)
	assert.Equal(t, int64(len(testutil.MinimalYAML)), doc.Size)
	assert.Equal(t, []string{"openapi", "info", "paths"}, doc.Root.Keys())
	assert.Equal(t, "3.0.3", doc.Root.Text("openapi"))
	assert.Equal(t, "Minimal API", doc.Root.Get("info").Text("title"))

	info := doc.Root.Get("info")
	assert.Equal(t, 3, info.Line, "positions are 1-based")
	assert.True(t, doc.Root.Get("paths").IsMapping())
}

func TestLoadJSONMatchesYAML(t *testing.T) {
	tests := []struct {
		name     string
		yamlText string
		jsonText string
	}{
		{
			name:     "converted petstore",
			yamlText: testutil.PetStoreYAML,
			jsonText: testutil.YAMLToJSON(t, testutil.PetStoreYAML),
		},
		{
			name: "escapes and tab indentation",
			yamlText: `openapi: 3.0.3
info:
  title: "Pets/Owners é 😀"
  description: "line one\nline \"two\""
  version: "1.0"
paths:
  /pets/{id}:
    get:
      responses:
        "200": {description: ok}
`,
			jsonText: "{\n" +
				"\t\"openapi\": \"3.0.3\",\n" +
				"\t\"info\": {\n" +
				"\t\t\"title\": \"Pets\\/Owners \\u00e9 \\ud83d\\ude00\",\n" +
				"\t\t\"description\": \"line one\\nline \\\"two\\\"\",\n" +
				"\t\t\"version\": \"1.0\"\n" +
				"\t},\n" +
				"\t\"paths\": {\n" +
				"\t\t\"\\/pets\\/{id}\": {\"get\": {\"responses\": {\"200\": {\"description\": \"ok\"}}}}\n" +
				"\t}\n" +
				"}\n",
		},
		{
			name:     "numbers",
			yamlText: "openapi: 3.0.3\nx: [1, -2, 1.5, 1e3, 0]\n",
			jsonText: `{"openapi":"3.0.3","x":[1,-2,1.5,1e3,0]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromYAML, err := Load(WithBytes([]byte(tt.yamlText)))
			require.NoError(t, err)

			fromJSON, err := Load(WithBytes([]byte(tt.jsonText)))
			require.NoError(t, err)

			assert.Equal(t, FormatJSON, fromJSON.Format)
			assert.True(t, Equal(fromYAML.Root, fromJSON.Root), "JSON and YAML trees must match")
		})
	}
}

func TestLoadJSONEscapes(t *testing.T) {
	doc, err := Load(WithBytes([]byte(`{"openapi":"3.0.3","info":{"title":"a\/b \u00e9"}}`)))
	require.NoError(t, err)
	assert.Equal(t, "a/b é", doc.Root.Get("info").Text("title"))
}

func TestLoadJSONPositions(t *testing.T) {
	src := "{\"openapi\": \"3.0.3\",\n" +
		"\t\"info\": {\"title\": \"é\", \"version\": \"1\"},\n" +
		"\t\"paths\": [true, null]}\n"
	doc, err := Load(WithBytes([]byte(src)))
	require.NoError(t, err)

	tests := []struct {
		name      string
		node      *Node
		line, col int
	}{
		{"root", doc.Root, 1, 1},
		{"openapi", doc.Root.Get("openapi"), 1, 13},
		{"info", doc.Root.Get("info"), 2, 10},
		{"title", doc.Root.Get("info").Get("title"), 2, 20},
		{"version after a multibyte character", doc.Root.Get("info").Get("version"), 2, 36},
		{"paths", doc.Root.Get("paths"), 3, 11},
		{"second item", doc.Root.Get("paths").Items[1], 3, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.node)
			assert.Equal(t, tt.line, tt.node.Line)
			assert.Equal(t, tt.col, tt.node.Column)
		})
	}
	assert.Equal(t, true, doc.Root.Get("paths").Items[0].Value)
	assert.True(t, doc.Root.Get("paths").Items[1].IsNull())
}

func TestLoadDuplicateKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []DuplicateKey
	}{
		{
			name:  "yaml",
			input: "openapi: 3.0.3\ninfo:\n  title: First\n  title: Second\n  version: \"1\"\npaths: {}\n",
			want:  []DuplicateKey{{Pointer: "#/info/title", Line: 4, Column: 3}},
		},
		{
			name:  "json",
			input: `{"openapi":"3.0.3","info":{"title":"First","title":"Second","version":"1"},"paths":{}}`,
			want:  []DuplicateKey{{Pointer: "#/info/title", Line: 1, Column: 44}},
		},
		{
			name:  "json inside a sequence",
			input: `{"openapi":"3.0.3","tags":[{"name":"a"},{"name":"b","name":"c"}]}`,
			want:  []DuplicateKey{{Pointer: "#/tags/1/name", Line: 1, Column: 53}},
		},
		{
			name: "merge key override",
			input: `openapi: 3.0.3
base: &base
  title: First
info:
  <<: *base
  title: Second
`,
		},
		{
			name: "anchored mapping expanded twice",
			input: `openapi: 3.0.3
a: &a
  k: 1
  k: 2
b: *a
c: *a
`,
			want: []DuplicateKey{{Pointer: "#/a/k", Line: 4, Column: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

			doc, err := Load(WithBytes([]byte(tt.input)), WithLogger(logger))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Duplicates)
			if len(tt.want) > 0 {
				assert.Contains(t, buf.String(), "duplicate mapping key")
			} else {
				assert.NotContains(t, buf.String(), "duplicate mapping key")
			}
		})
	}
}

func TestLoadDuplicateKeysLastWins(t *testing.T) {
	for _, src := range []string{
		"openapi: 3.0.3\ninfo:\n  title: First\n  version: \"1\"\n  title: Second\n",
		`{"openapi":"3.0.3","info":{"title":"First","version":"1","title":"Second"}}`,
	} {
		doc, err := Load(WithBytes([]byte(src)))
		require.NoError(t, err)
		info := doc.Root.Get("info")
		assert.Equal(t, "Second", info.Text("title"))
		assert.Equal(t, []string{"title", "version"}, info.Keys(), "a duplicate keeps its first position")
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("yaml extension", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "api.yaml", testutil.MinimalYAML)
		doc, err := Load(WithFilePath(path))
		require.NoError(t, err)
		assert.Equal(t, path, doc.SourcePath)
		assert.Equal(t, FormatYAML, doc.Format)
	})

	t.Run("json extension", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "api.json", testutil.YAMLToJSON(t, testutil.MinimalYAML))
		doc, err := Load(WithFilePath(path), WithSourceName("minimal"))
		require.NoError(t, err)
		assert.Equal(t, "minimal", doc.SourcePath)
		assert.Equal(t, FormatJSON, doc.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(WithFilePath("does-not-exist.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loader: failed to read file")
		assert.False(t, errors.Is(err, oaserrors.ErrFormat))
	})

	t.Run("too large", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "api.yaml", testutil.MinimalYAML)
		_, err := Load(WithFilePath(path), WithMaxSize(10))
		assert.ErrorIs(t, err, oaserrors.ErrFormat)
	})
}

func TestLoadReader(t *testing.T) {
	doc, err := Load(WithReader(strings.NewReader(testutil.MinimalYAML)))
	require.NoError(t, err)
	assert.Equal(t, "LoadReader", doc.SourcePath)

	_, err = Load(WithReader(strings.NewReader(testutil.MinimalYAML)), WithMaxSize(8))
	assert.ErrorIs(t, err, oaserrors.ErrFormat)
}

func TestLoadFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{name: "empty", input: "", wantMsg: "document is empty"},
		{name: "whitespace", input: "  \n\n", wantMsg: "document is empty"},
		{name: "scalar root", input: "just a string\n", wantLine: 1, wantMsg: "root must be a mapping"},
		{name: "sequence root", input: "- a\n- b\n", wantLine: 1, wantMsg: "root must be a mapping"},
		{name: "bad yaml", input: "openapi: 3.0.3\ninfo:\n  title: [unclosed\n", wantMsg: "invalid yaml"},
		{
			name:     "bad json",
			input:    "{\n  \"openapi\": \"3.0.3\",\n  \"info\": ,\n  \"paths\": {}\n}\n",
			wantLine: 3,
			wantMsg:  "invalid json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(WithBytes([]byte(tt.input)))
			require.Error(t, err)

			var ferr *oaserrors.FormatError
			require.True(t, errors.As(err, &ferr), "want FormatError, got %T", err)
			assert.Contains(t, ferr.Error(), tt.wantMsg)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, ferr.Line)
				assert.Positive(t, ferr.Column)
			}
		})
	}
}

func TestLoadAliases(t *testing.T) {
	src := `openapi: 3.0.3
info: {title: A, version: "1"}
paths: {}
components:
  schemas:
    Base: &base
      type: object
      properties:
        id: {type: integer}
    Copy: *base
    Extended:
      <<: *base
      description: extended
`
	doc, err := Load(WithBytes([]byte(src)))
	require.NoError(t, err)

	schemas := doc.Root.Get("components").Get("schemas")
	assert.True(t, Equal(schemas.Get("Base"), schemas.Get("Copy")))
	assert.Equal(t, 10, schemas.Get("Copy").Line, "alias keeps its own position")

	ext := schemas.Get("Extended")
	assert.Equal(t, []string{"type", "properties", "description"}, ext.Keys())
	assert.Equal(t, "object", ext.Text("type"))
}

func TestLoadScalarTypes(t *testing.T) {
	src := "a: 1\nb: 1.5\nc: true\nd: null\ne: '42'\nf: 2024-01-02\n200: ok\n"
	doc, err := Load(WithBytes([]byte(src)))
	require.NoError(t, err)

	root := doc.Root
	assert.Equal(t, 1, root.Get("a").Value)
	assert.Equal(t, 1.5, root.Get("b").Value)
	assert.Equal(t, true, root.Get("c").Value)
	assert.True(t, root.Get("d").IsNull())
	assert.Equal(t, "42", root.Get("e").Value)
	assert.Equal(t, "2024-01-02", root.Get("f").Value)
	assert.Equal(t, "ok", root.Text("200"), "numeric keys are kept as written")

	n, ok := root.Get("a").Number()
	assert.True(t, ok)
	assert.Equal(t, float64(1), n)
}

func TestLoadOptions(t *testing.T) {
	_, err := Load()
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = Load(WithBytes([]byte("a: 1")), WithFilePath("x.yaml"))
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = Load(WithBytes([]byte("a: 1")), WithMaxSize(0))
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = Load(WithBytes([]byte("a: 1")), WithSourceName(""))
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = Load(WithReader(nil))
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestLoadWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := Load(WithBytes([]byte(testutil.MinimalYAML)), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "loaded document")
}

func TestYAMLErrorPosition(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		line, col int
	}{
		{
			name: "construct error fields",
			err: fmt.Errorf("wrapped: %w", &yaml.LoadErrors{Errors: []*yaml.LoadError{
				{Err: errors.New("cannot construct"), Line: 4, Column: 7},
			}}),
			line: 4,
			col:  7,
		},
		{name: "message with line and column", err: errors.New("yaml: line 2, column 5: mapping values are not allowed"), line: 2, col: 5},
		{
			name: "context mark before the error mark",
			err:  errors.New("yaml: while parsing a flow sequence at line 3, column 10: line 4, column 1: did not find expected ',' or ']'"),
			line: 4,
			col:  1,
		},
		{name: "message with line only", err: errors.New("yaml: line 3: did not find expected ',' or ']'"), line: 3},
		{name: "no position", err: errors.New("yaml: unknown"), line: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := yamlErrorPosition(tt.err)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestLoadYAMLSyntaxErrorPosition(t *testing.T) {
	_, err := Load(WithBytes([]byte("openapi: 3.0.3\ninfo:\n  title: [unclosed\n")))
	var ferr *oaserrors.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Positive(t, ferr.Line, "parser errors report the line from their message")
}

func TestOffsetToPosition(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{7, 3, 2},
		{100, 3, 3},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		line, col := offsetToPosition(data, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}
