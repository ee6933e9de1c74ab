package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	tests := []struct {
		token   string
		escaped string
	}{
		{"User", "User"},
		{"/users/{id}", "~1users~1{id}"},
		{"a~b", "a~0b"},
		{"~1", "~01"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.escaped, Escape(tt.token))
			assert.Equal(t, tt.token, Unescape(tt.escaped))
		})
	}
}

func TestSplit(t *testing.T) {
	tokens, err := Split("#")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = Split("#/paths/~1users~1{id}/get")
	require.NoError(t, err)
	assert.Equal(t, []string{"paths", "/users/{id}", "get"}, tokens)

	_, err = Split("components/schemas")
	assert.Error(t, err)
	_, err = Split("#components")
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "plain", ref: "#/components/schemas/User", want: "#/components/schemas/User"},
		{name: "root", ref: "#", want: "#"},
		{name: "percent encoded", ref: "#/paths/~1users~1%7Bid%7D", want: "#/paths/~1users~1{id}"},
		{name: "encoded space", ref: "#/components/schemas/My%20Type", want: "#/components/schemas/My Type"},
		{name: "external", ref: "other.yaml#/x", wantErr: true},
		{name: "bad escape", ref: "#/a%zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("#", "#/a"))
	assert.True(t, Contains("#/a", "#/a"))
	assert.True(t, Contains("#/a", "#/a/b"))
	assert.False(t, Contains("#/a", "#/ab"))
	assert.False(t, Contains("#/a/b", "#/a"))
}

func TestPointerBuilder(t *testing.T) {
	p := NewPointerBuilder()
	assert.Equal(t, "#", p.String())

	p.Push("paths")
	p.Push("/pets")
	assert.Equal(t, "#/paths/~1pets", p.String())
	assert.Equal(t, 2, p.Depth())

	p.Pop()
	p.Pop()
	p.Pop()
	assert.Equal(t, "#", p.String())
}

func TestTemplateParams(t *testing.T) {
	assert.Nil(t, TemplateParams("/users"))
	assert.Equal(t, []string{"id", "postId"}, TemplateParams("/users/{id}/posts/{postId}"))
	assert.Equal(t, []string{"id", "id"}, TemplateParams("/a/{id}/b/{id}"))
}

func TestComponentName(t *testing.T) {
	name, ok := ComponentName("#/components/schemas/User", RefPrefixSchemas)
	assert.True(t, ok)
	assert.Equal(t, "User", name)

	name, ok = ComponentName(SchemaRef("a/b"), RefPrefixSchemas)
	assert.True(t, ok)
	assert.Equal(t, "a/b", name)

	_, ok = ComponentName("#/components/schemas/User/properties/id", RefPrefixSchemas)
	assert.False(t, ok)
	_, ok = ComponentName("#/components/parameters/id", RefPrefixSchemas)
	assert.False(t, ok)
}
