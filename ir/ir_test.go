package ir

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func newTestSet(t *testing.T) *SchemaSet {
	t.Helper()
	set := NewSchemaSet()
	require.True(t, set.Add(&Schema{
		ID:         "#/components/schemas/Node",
		Name:       "Node",
		Kind:       KindObject,
		Properties: []Property{{Name: "next", Schema: "#/components/schemas/Node/properties/next"}},
	}))
	require.True(t, set.Add(&Schema{
		ID:     "#/components/schemas/Node/properties/next",
		Kind:   KindPlaceholder,
		Target: "#/components/schemas/Node",
	}))
	set.Alias("#/paths/~1nodes/get/responses/200/content/application~1json/schema", "#/components/schemas/Node")
	return set
}

func TestSchemaSet(t *testing.T) {
	set := newTestSet(t)

	assert.Equal(t, 2, set.Len())
	assert.False(t, set.Add(&Schema{ID: "#/components/schemas/Node"}), "ids are unique")
	assert.Equal(t, []string{"#/components/schemas/Node", "#/components/schemas/Node/properties/next"}, set.IDs())

	id, ok := set.IDFor("#/paths/~1nodes/get/responses/200/content/application~1json/schema")
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/Node", id)

	s, ok := set.Lookup("#/components/schemas/Node")
	require.True(t, ok)
	assert.Equal(t, "Node", s.Name)

	_, ok = set.IDFor("#/nowhere")
	assert.False(t, ok)

	set.Alias("#/dangling", "#/missing")
	_, ok = set.IDFor("#/dangling")
	assert.False(t, ok, "an alias to a missing node does not resolve")
}

func TestSchemaSetResolveFollowsPlaceholders(t *testing.T) {
	set := newTestSet(t)

	placeholder, ok := set.Get("#/components/schemas/Node/properties/next")
	require.True(t, ok)
	assert.True(t, placeholder.IsPlaceholder())

	real, ok := set.Resolve(placeholder.ID)
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/Node", real.ID)

	loop := NewSchemaSet()
	loop.Add(&Schema{ID: "a", Kind: KindPlaceholder, Target: "b"})
	loop.Add(&Schema{ID: "b", Kind: KindPlaceholder, Target: "a"})
	_, ok = loop.Resolve("a")
	assert.False(t, ok, "placeholder loops terminate")
}

func TestSchemaHelpers(t *testing.T) {
	s := &Schema{
		Properties: []Property{{Name: "id", Schema: "x"}},
		Required:   []string{"id"},
	}
	id, ok := s.Property("id")
	assert.True(t, ok)
	assert.Equal(t, "x", id)
	_, ok = s.Property("missing")
	assert.False(t, ok)
	assert.True(t, s.IsRequired("id"))
	assert.False(t, s.IsRequired("name"))
	assert.True(t, Constraints{}.IsZero())
	assert.False(t, Constraints{UniqueItems: true}.IsZero())
}

func TestValidationReport(t *testing.T) {
	r := ValidationReport{Diagnostics: []Diagnostic{
		{Severity: SeverityWarning, RuleID: "entity-empty", Message: "empty"},
		{Severity: SeverityError, RuleID: "operation-id-unique", Message: "dup"},
		{Severity: SeverityWarning, RuleID: "entity-empty", Message: "empty too"},
	}}
	assert.False(t, r.IsValid())
	assert.Equal(t, 1, r.ErrorCount())
	assert.Equal(t, 2, r.WarningCount())
	assert.Len(t, r.ByRule("entity-empty"), 2)

	assert.True(t, ValidationReport{}.IsValid())
	assert.True(t, ValidationReport{Diagnostics: r.ByRule("entity-empty")}.IsValid(), "warnings alone keep a report valid")
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		RuleID:   "required-property-declared",
		Message:  `required property "id" is not declared`,
		Location: Location{Pointer: "#/components/schemas/User", Line: 4, Column: 5},
	}
	assert.Equal(t, `4:5 (#/components/schemas/User): error [required-property-declared]: required property "id" is not declared`, d.String())
	assert.Equal(t, "#", Location{Pointer: "#"}.String())
	assert.Equal(t, "3 (#/x)", Location{Pointer: "#/x", Line: 3}.String())
}

func TestOperationHelpers(t *testing.T) {
	op := Operation{
		Method:          "GET",
		Path:            "/users/{id}",
		Tags:            []string{"users"},
		PathParameters:  []Parameter{{Name: "id", In: "path", Required: true}},
		QueryParameters: []Parameter{{Name: "expand", In: "query"}},
		Responses: []Response{
			{StatusCode: "204"},
			{StatusCode: "200", Content: []MediaType{
				{ContentType: "application/xml", Schema: "xml"},
				{ContentType: "application/json", Schema: "json"},
			}},
			{StatusCode: "default", Content: []MediaType{{ContentType: "text/plain", Schema: "err"}}},
		},
	}

	assert.Equal(t, "get_users", op.FunctionName())
	op.OperationID = "getUser"
	assert.Equal(t, "getuser", op.FunctionName())

	params := op.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "id", params[0].Name)
	assert.Equal(t, "expand", params[1].Name)

	success, ok := op.SuccessResponse()
	require.True(t, ok)
	assert.Equal(t, "200", success.StatusCode)
	assert.Equal(t, "json", success.Schema(), "application/json is preferred")

	def, ok := op.Response("DEFAULT")
	require.True(t, ok)
	assert.Equal(t, "err", def.Schema())
	assert.False(t, def.IsSuccess())
	assert.True(t, op.HasTag("users"))
	assert.False(t, op.HasTag("admin"))
}

func testModel(t *testing.T) *Model {
	t.Helper()
	return &Model{
		Title:    "Pet Store API",
		Version:  "1.0.0",
		Entities: []EntityRef{{Name: "pet_owner", Schema: "#/components/schemas/pet_owner"}},
		Schemas: func() *SchemaSet {
			s := NewSchemaSet()
			s.Add(&Schema{
				ID:          "#/components/schemas/pet_owner",
				Name:        "pet_owner",
				Kind:        KindObject,
				Required:    []string{"id"},
				EnumValues:  []any{map[string]any{"a": []any{1}}},
				Constraints: Constraints{MinProperties: func() *int { v := 1; return &v }()},
			})
			return s
		}(),
		Servers:         []Server{{URL: "https://x", Variables: []ServerVariable{{Name: "v", Enum: []string{"1"}}}}},
		SecuritySchemes: []SecurityScheme{{Name: "oauth", Type: "oauth2", Flows: []OAuthFlow{{Kind: "password", Scopes: []string{"read"}}}}},
		Operations: []Operation{
			{Method: "GET", Path: "/pets", Tags: []string{"pets"}, Security: []SecurityRequirement{{Schemes: []SecurityScope{{Scheme: "oauth", Scopes: []string{"read"}}}}}},
			{Method: "POST", Path: "/pets", Tags: []string{"admin"}},
		},
		DuplicateKeys: []DuplicateKey{{Key: "title", Location: Location{Pointer: "#/info/title", Line: 4}}},
		Report:        ValidationReport{Diagnostics: []Diagnostic{{Severity: SeverityWarning}}},
	}
}

func TestModelHelpers(t *testing.T) {
	m := testModel(t)

	s, ok := m.Entity("pet_owner")
	require.True(t, ok)
	assert.Equal(t, "pet_owner", s.Name)
	_, ok = m.Entity("PetOwner")
	assert.True(t, ok, "class name lookup")
	_, ok = m.Entity("Nobody")
	assert.False(t, ok)

	assert.Equal(t, []string{"pet_owner"}, m.EntityNames())
	assert.Len(t, m.OperationsByTag("pets"), 1)
	_, ok = m.Operation("post", "/pets")
	assert.True(t, ok)
	_, ok = m.SecurityScheme("oauth")
	assert.True(t, ok)
	assert.Equal(t, "pet_store_api", m.ProjectName())
}

func TestNamingHelpers(t *testing.T) {
	assert.Equal(t, "PetOwner", ClassName("pet_owner"))
	assert.Equal(t, "PetOwner", ClassName("pet-owner"))
	assert.Equal(t, "pet_owners", TableName("PetOwner"))
	assert.Equal(t, "address", TableName("Address"))
	assert.Equal(t, "status", TableName("Status"))
}

func TestModelCopyIsDeep(t *testing.T) {
	m := testModel(t)
	c := m.Copy()
	require.NotSame(t, m, c)
	assert.Equal(t, m.Title, c.Title)

	c.Operations[0].Tags[0] = "changed"
	c.Operations[0].Security[0].Schemes[0].Scopes[0] = "write"
	c.Servers[0].Variables[0].Enum[0] = "2"
	c.SecuritySchemes[0].Flows[0].Scopes[0] = "admin"
	c.Report.Diagnostics[0].Message = "changed"
	c.DuplicateKeys[0].Key = "changed"

	cs, _ := c.Schemas.Get("#/components/schemas/pet_owner")
	cs.Required[0] = "changed"
	*cs.Constraints.MinProperties = 5
	cs.EnumValues[0].(map[string]any)["a"].([]any)[0] = 2

	assert.Equal(t, "pets", m.Operations[0].Tags[0])
	assert.Equal(t, "read", m.Operations[0].Security[0].Schemes[0].Scopes[0])
	assert.Equal(t, "1", m.Servers[0].Variables[0].Enum[0])
	assert.Equal(t, "read", m.SecuritySchemes[0].Flows[0].Scopes[0])
	assert.Empty(t, m.Report.Diagnostics[0].Message)
	assert.Equal(t, "title", m.DuplicateKeys[0].Key)

	ms, _ := m.Schemas.Get("#/components/schemas/pet_owner")
	assert.Equal(t, "id", ms.Required[0])
	assert.Equal(t, 1, *ms.Constraints.MinProperties)
	assert.Equal(t, 1, ms.EnumValues[0].(map[string]any)["a"].([]any)[0])

	var nilModel *Model
	assert.Nil(t, nilModel.Copy())
}

func TestSchemaSetSerialization(t *testing.T) {
	set := newTestSet(t)

	data, err := gojson.Marshal(set)
	require.NoError(t, err)
	var decoded struct {
		Schemas []map[string]any  `json:"schemas"`
		Aliases map[string]string `json:"aliases"`
	}
	require.NoError(t, gojson.Unmarshal(data, &decoded))
	require.Len(t, decoded.Schemas, 2)
	assert.Equal(t, "#/components/schemas/Node", decoded.Schemas[0]["id"])
	assert.Equal(t, "reference-cycle-placeholder", decoded.Schemas[1]["kind"])
	assert.Len(t, decoded.Aliases, 1)

	out, err := yaml.Marshal(set)
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: reference-cycle-placeholder")
}

func TestDiagnosticSeverityMarshalsAsText(t *testing.T) {
	data, err := gojson.Marshal(Diagnostic{Severity: SeverityWarning, RuleID: "entity-empty"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"warning"`)
}
