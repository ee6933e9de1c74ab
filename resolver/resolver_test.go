package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/internal/testutil"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/oaserrors"
)

// load is a test helper that loads YAML source into a root node.
func load(t *testing.T, src string) *loader.Node {
	t.Helper()
	doc, err := loader.Load(loader.WithBytes([]byte(src)))
	require.NoError(t, err)
	return doc.Root
}

func TestResolveIndexesEveryNode(t *testing.T) {
	g, err := Resolve(load(t, testutil.MinimalYAML))
	require.NoError(t, err)

	ptrs := g.Pointers()
	assert.Equal(t, "#", ptrs[0])
	assert.Contains(t, ptrs, "#/info/title")
	assert.Contains(t, ptrs, "#/paths")
	assert.Equal(t, len(ptrs), g.Len())

	title, ok := g.Node("#/info/title")
	require.True(t, ok)
	assert.Equal(t, "Minimal API", title.Value)
	assert.Same(t, g.Root(), mustNode(t, g, "#"))
}

func mustNode(t *testing.T, g *Graph, ptr string) *loader.Node {
	t.Helper()
	n, ok := g.Node(ptr)
	require.True(t, ok, "missing node %s", ptr)
	return n
}

func TestResolveEscapedPointers(t *testing.T) {
	src := `openapi: 3.0.3
paths:
  /users/{id}:
    get:
      responses:
        '200':
          $ref: '#/components/responses/Ok'
components:
  responses:
    Ok:
      description: ok
  schemas:
    a~b:
      type: string
    Ref:
      $ref: '#/components/schemas/a~0b'
    Encoded:
      $ref: '#/paths/~1users~1%7Bid%7D/get'
`
	g, err := Resolve(load(t, src))
	require.NoError(t, err)

	mustNode(t, g, "#/paths/~1users~1{id}/get")
	mustNode(t, g, "#/components/schemas/a~0b")

	ref, ok := g.RefAt("#/components/schemas/Ref")
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/a~0b", ref.Final)

	enc, ok := g.RefAt("#/components/schemas/Encoded")
	require.True(t, ok)
	assert.Equal(t, "#/paths/~1users~1{id}/get", enc.Target)
	assert.True(t, enc.Resolved())

	resp, ok := g.RefAt("#/paths/~1users~1{id}/get/responses/200")
	require.True(t, ok)
	assert.Equal(t, "#/components/responses/Ok", resp.Final)
	assert.Equal(t, 7, resp.Line)
}

func TestResolveCollectsAllDanglingReferences(t *testing.T) {
	src := `openapi: 3.0.3
components:
  schemas:
    User:
      type: object
      properties:
        ghost:
          $ref: '#/components/schemas/Ghost'
        phantom:
          $ref: '#/components/schemas/Phantom'
        remote:
          $ref: 'other.yaml#/components/schemas/Remote'
        ok:
          $ref: '#/components/schemas/Fine'
    Fine:
      type: string
`
	g, err := Resolve(load(t, src))
	require.Error(t, err)
	require.NotNil(t, g, "graph is returned even on error")

	var all []*oaserrors.DanglingReferenceError
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var d *oaserrors.DanglingReferenceError
		require.True(t, errors.As(e, &d))
		all = append(all, d)
	}
	require.Len(t, all, 3)
	assert.Equal(t, "#/components/schemas/Ghost", all[0].Pointer)
	assert.Equal(t, "#/components/schemas/User/properties/ghost", all[0].Location)
	assert.Equal(t, 8, all[0].Line)
	assert.Equal(t, "#/components/schemas/Phantom", all[1].Pointer)
	assert.Equal(t, "external references are not supported", all[2].Reason)

	ok, found := g.RefAt("#/components/schemas/User/properties/ok")
	require.True(t, found)
	assert.True(t, ok.Resolved())
	assert.ErrorIs(t, err, oaserrors.ErrDanglingReference)
}

func TestResolveAliasChains(t *testing.T) {
	src := `components:
  schemas:
    A:
      $ref: '#/components/schemas/B'
    B:
      $ref: '#/components/schemas/C'
    C:
      type: integer
    Loop1:
      $ref: '#/components/schemas/Loop2'
    Loop2:
      $ref: '#/components/schemas/Loop1'
    Self:
      $ref: '#/components/schemas/Self'
    Broken:
      $ref: '#/components/schemas/Missing'
    ToBroken:
      $ref: '#/components/schemas/Broken'
`
	g, err := Resolve(load(t, src))
	require.Error(t, err, "only Broken is dangling")

	a, _ := g.RefAt("#/components/schemas/A")
	assert.Equal(t, "#/components/schemas/B", a.Target)
	assert.Equal(t, "#/components/schemas/C", a.Final)
	assert.Equal(t, []string{"#/components/schemas/B", "#/components/schemas/C"}, a.Chain)
	assert.False(t, a.Cyclic)

	loop, _ := g.RefAt("#/components/schemas/Loop1")
	assert.True(t, loop.AliasCycle)
	assert.True(t, loop.Cyclic)
	assert.False(t, loop.Resolved())
	assert.False(t, loop.Dangling)

	self, _ := g.RefAt("#/components/schemas/Self")
	assert.True(t, self.AliasCycle)

	toBroken, _ := g.RefAt("#/components/schemas/ToBroken")
	assert.True(t, toBroken.ChainBroken)
	assert.False(t, toBroken.Dangling, "only the inner site is reported")

	_, _, ok := g.Follow("#/components/schemas/ToBroken")
	assert.False(t, ok)
	n, final, ok := g.Follow("#/components/schemas/A")
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/C", final)
	assert.Equal(t, "integer", n.Text("type"))

	var errs []error
	errs = err.(interface{ Unwrap() []error }).Unwrap()
	assert.Len(t, errs, 1)
}

func TestResolveCycleDetection(t *testing.T) {
	g, err := Resolve(load(t, testutil.PetStoreYAML))
	require.NoError(t, err)

	cyclic := map[string]bool{}
	for _, r := range g.CyclicReferences() {
		cyclic[r.From] = true
	}

	// self recursion
	assert.True(t, cyclic["#/components/schemas/Category/properties/parent"])
	// mutual recursion through Owner and Pet
	assert.True(t, cyclic["#/components/schemas/Pet/properties/owner"])
	assert.True(t, cyclic["#/components/schemas/Owner/properties/pets/items"])
	// a response pointing at a recursive schema is not itself a cycle
	assert.False(t, cyclic["#/paths/~1pets/post/requestBody/content/application~1json/schema"])
	assert.False(t, cyclic["#/paths/~1pets~1{petId}/get/responses/200/content/application~1json/schema"])
	// Error does not recurse
	for from := range cyclic {
		assert.NotContains(t, from, "Error")
	}
}

func TestResolveIgnoresLiteralPayloads(t *testing.T) {
	src := `components:
  schemas:
    Doc:
      type: object
      example:
        $ref: '#/not/a/real/ref'
      properties:
        default:
          $ref: '#/components/schemas/Doc'
`
	g, err := Resolve(load(t, src))
	require.NoError(t, err)

	_, isRef := g.RefAt("#/components/schemas/Doc/example")
	assert.False(t, isRef)
	prop, isRef := g.RefAt("#/components/schemas/Doc/properties/default")
	require.True(t, isRef, "a property named default is a schema position")
	assert.True(t, prop.Cyclic)
}

func TestResolveExamplePayloads(t *testing.T) {
	src := `openapi: 3.1.0
paths:
  /things:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Thing'
              examples:
                sample:
                  value:
                    doc:
                      $ref: '#/definitions/Thing'
                shared:
                  $ref: '#/components/examples/Shared'
components:
  examples:
    Shared:
      externalValue: https://example.com/thing.json
      value:
        $ref: '#/definitions/Other'
  schemas:
    Thing:
      type: object
      examples:
        - $ref: '#/definitions/Thing'
      properties:
        examples:
          type: object
          properties:
            value:
              $ref: '#/components/schemas/Thing'
        value:
          $ref: '#/components/schemas/Thing'
`
	g, err := Resolve(load(t, src))
	require.NoError(t, err, "$ref inside example data is not a reference")

	tests := []struct {
		ptr     string
		wantRef bool
	}{
		{"#/paths/~1things/get/responses/200/content/application~1json/examples/sample/value/doc", false},
		{"#/components/examples/Shared/value", false},
		{"#/components/schemas/Thing/examples/0", false},
		{"#/paths/~1things/get/responses/200/content/application~1json/examples/shared", true},
		{"#/components/schemas/Thing/properties/examples/properties/value", true},
		{"#/components/schemas/Thing/properties/value", true},
	}
	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			mustNode(t, g, tt.ptr)
			_, isRef := g.RefAt(tt.ptr)
			assert.Equal(t, tt.wantRef, isRef)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	root := load(t, testutil.PetStoreYAML)
	g1, err := Resolve(root)
	require.NoError(t, err)
	g2, err := Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, g1.Pointers(), g2.Pointers())
	assert.Equal(t, g1.References(), g2.References())
}

func TestResolveNilRoot(t *testing.T) {
	_, err := Resolve(nil)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestRefsWithin(t *testing.T) {
	sorted := []*Reference{
		{From: "#/a"},
		{From: "#/a!x"},
		{From: "#/a/b"},
		{From: "#/a/c/d"},
		{From: "#/ab"},
	}
	var got []string
	for _, r := range refsWithin(sorted, "#/a") {
		got = append(got, r.From)
	}
	assert.Equal(t, []string{"#/a", "#/a/b", "#/a/c/d"}, got)
	assert.Len(t, refsWithin(sorted, "#"), 5)
	assert.Empty(t, refsWithin(sorted, "#/z"))
}
