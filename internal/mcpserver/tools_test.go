package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/internal/testutil"
	"github.com/erraggy/oasir/ir"
)

// compilePetStore compiles the pet store fixture and returns its handle.
func compilePetStore(t *testing.T) string {
	t.Helper()
	models.reset()
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = true })
	result, out, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Spec: specInput{Content: testutil.PetStoreYAML},
	})
	require.NoError(t, err)
	require.Nil(t, result)
	require.NotEmpty(t, out.Handle)
	return out.Handle
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func TestCompileTool(t *testing.T) {
	models.reset()
	_, out, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Spec: specInput{Content: testutil.PetStoreYAML},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pet Store", out.Title)
	assert.Equal(t, "2.1.0", out.Version)
	assert.Equal(t, "3.0.3", out.OpenAPI)
	assert.Equal(t, 7, out.EntityCount)
	assert.Equal(t, 4, out.OperationCount)
	assert.Equal(t, 4, out.RelationshipCount)
	assert.True(t, out.Valid)
	assert.Zero(t, out.ErrorCount)
}

func TestCompileTool_CompilationErrors(t *testing.T) {
	models.reset()
	src := `openapi: 3.1.0
info: {title: Broken, version: "1"}
paths: {}
components:
  schemas:
    A:
      $ref: '#/components/schemas/Ghost'
    B:
      properties:
        c:
          $ref: '#/components/schemas/Phantom'
`
	result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Spec: specInput{Content: src},
	})
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "#/components/schemas/Ghost")
	assert.Contains(t, text, "#/components/schemas/Phantom")
	assert.Zero(t, models.size(), "failed compilations are not cached")
}

func TestValidateTool(t *testing.T) {
	models.reset()
	spec := specInput{Content: testutil.MinimalYAML}

	_, out, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{Spec: spec})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, 1, out.WarningCount)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, "components-present", out.Diagnostics[0].Rule)
	assert.Equal(t, "warning", out.Diagnostics[0].Severity)
	assert.Equal(t, "#/components", out.Diagnostics[0].Pointer)

	strict := true
	_, out, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{Spec: spec, Strict: &strict})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, 1, out.ErrorCount)

	noWarnings := true
	_, out, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{Spec: spec, NoWarnings: &noWarnings})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Diagnostics)

	_, out, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:          spec,
		DisabledRules: []string{"components-present"},
	})
	require.NoError(t, err)
	assert.Zero(t, out.Returned)
}

func TestValidateTool_ConfigDefaults(t *testing.T) {
	models.reset()
	withConfig(t, func(c *serverConfig) { c.ValidateStrict = true })
	_, out, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec: specInput{Content: testutil.MinimalYAML},
	})
	require.NoError(t, err)
	assert.False(t, out.Valid)
}

func TestEntitiesTool(t *testing.T) {
	handle := compilePetStore(t)

	_, out, err := handleEntities(context.Background(), &mcp.CallToolRequest{}, entitiesInput{Handle: handle})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Total)
	require.Len(t, out.Entities, 7)
	assert.Equal(t, "Owner", out.Entities[0].Name)
	assert.Equal(t, "owners", out.Entities[0].TableName)
	assert.Empty(t, out.Entities[0].Properties, "properties only in detail mode")

	_, out, err = handleEntities(context.Background(), &mcp.CallToolRequest{}, entitiesInput{
		Handle: handle,
		Name:   "Pet",
		Detail: true,
	})
	require.NoError(t, err)
	require.Len(t, out.Entities, 1)
	pet := out.Entities[0]
	assert.Equal(t, "object", pet.Kind)
	assert.Equal(t, []propertySummary{
		{Name: "id", Type: "string(uuid)", Required: true},
		{Name: "name", Type: "string", Required: true},
		{Name: "owner", Type: "ref<Owner>"},
		{Name: "tags", Type: "array<Tag>"},
		{Name: "status", Type: "enum<string>"},
	}, pet.Properties)

	_, out, err = handleEntities(context.Background(), &mcp.CallToolRequest{}, entitiesInput{Handle: handle, Name: "Pet*"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Matched) // Pet, PetBase

	_, out, err = handleEntities(context.Background(), &mcp.CallToolRequest{}, entitiesInput{Handle: handle, Limit: 2, Offset: 6})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Returned)
	assert.Equal(t, "Error", out.Entities[0].Name)

	result, _, err := handleEntities(context.Background(), &mcp.CallToolRequest{}, entitiesInput{Handle: handle, Name: "Pet["})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "invalid glob pattern")
}

func TestRelationshipsTool(t *testing.T) {
	handle := compilePetStore(t)

	_, out, err := handleRelationships(context.Background(), &mcp.CallToolRequest{}, relationshipsInput{Handle: handle, Entity: "Pet"})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 2, out.Matched)

	_, out, err = handleRelationships(context.Background(), &mcp.CallToolRequest{}, relationshipsInput{
		Handle:      handle,
		Cardinality: "many-to-many",
	})
	require.NoError(t, err)
	require.Len(t, out.Relationships, 1)
	assert.Equal(t, ir.RelationshipEdge{
		From:               "Pet",
		To:                 "Tag",
		Cardinality:        ir.ManyToMany,
		ForeignKeyProperty: "tags",
		InverseProperty:    "pets",
		Source:             ir.SourceReference,
	}, out.Relationships[0])

	result, _, err := handleRelationships(context.Background(), &mcp.CallToolRequest{}, relationshipsInput{
		Handle:      handle,
		Cardinality: "several",
	})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `invalid cardinality "several"`)
}

func TestOperationsTool(t *testing.T) {
	handle := compilePetStore(t)

	_, out, err := handleOperations(context.Background(), &mcp.CallToolRequest{}, operationsInput{Handle: handle})
	require.NoError(t, err)
	require.Len(t, out.Operations, 4)
	list := out.Operations[0]
	assert.Equal(t, "GET", list.Method)
	assert.Equal(t, "/pets", list.Path)
	assert.Equal(t, "listpets", list.FunctionName)
	assert.Equal(t, "array<Pet>", list.Success)
	assert.Equal(t, 1, list.Parameters)
	assert.Equal(t, "NewPet", out.Operations[1].RequestBody)

	_, out, err = handleOperations(context.Background(), &mcp.CallToolRequest{}, operationsInput{Handle: handle, Path: "/pets/*"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Matched)

	_, out, err = handleOperations(context.Background(), &mcp.CallToolRequest{}, operationsInput{Handle: handle, Method: "get"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Matched)

	_, out, err = handleOperations(context.Background(), &mcp.CallToolRequest{}, operationsInput{Handle: handle, GroupBy: "method"})
	require.NoError(t, err)
	assert.Empty(t, out.Operations)
	assert.Equal(t, []groupCount{{"GET", 2}, {"DELETE", 1}, {"POST", 1}}, out.Groups)

	_, out, err = handleOperations(context.Background(), &mcp.CallToolRequest{}, operationsInput{Handle: handle, GroupBy: "tag"})
	require.NoError(t, err)
	assert.Equal(t, []groupCount{{"pets", 4}}, out.Groups)

	result, _, err := handleOperations(context.Background(), &mcp.CallToolRequest{}, operationsInput{Handle: handle, GroupBy: "path"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "invalid group_by")
}

func TestGenerateTool(t *testing.T) {
	handle := compilePetStore(t)

	_, out, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{Handle: handle})
	require.NoError(t, err)
	assert.False(t, out.Written)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "petstore/models.go", out.Files[0].Path)
	assert.Contains(t, out.Files[0].Content, "type Pet struct {")

	dir := t.TempDir()
	_, out, err = handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{
		Handle:      handle,
		PackageName: "store",
		OutputDir:   dir,
	})
	require.NoError(t, err)
	assert.True(t, out.Written)
	require.Len(t, out.Files, 1)
	assert.Empty(t, out.Files[0].Content)
	data, err := os.ReadFile(filepath.Join(dir, "store", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package store")
}

func TestGenerateTool_RefusesInvalidModel(t *testing.T) {
	models.reset()
	src := `openapi: 3.1.0
info: {title: Broken, version: "1"}
paths: {}
components:
  schemas:
    Ping: {type: object, required: [ghost], properties: {ok: {type: boolean}}}
`
	result, _, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{
		Spec: specInput{Content: src},
	})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "model has error diagnostics")
}
