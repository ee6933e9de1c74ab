package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/compiler"
	"github.com/erraggy/oasir/internal/testutil"
	"github.com/erraggy/oasir/ir"
)

type stubBackend struct {
	files Files
	err   error
	calls int
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) Generate(_ context.Context, _ *ir.Model) (Files, error) {
	b.calls++
	return b.files, b.err
}

func compile(t *testing.T, src string) *ir.Model {
	t.Helper()
	m, err := compiler.New().CompileBytes([]byte(src))
	require.NoError(t, err)
	return m
}

func TestRunRefusesErrorDiagnostics(t *testing.T) {
	m := &ir.Model{
		Schemas: ir.NewSchemaSet(),
		Report: ir.ValidationReport{Diagnostics: []ir.Diagnostic{{
			Severity: ir.SeverityError,
			RuleID:   "operation-no-responses",
			Message:  "operation declares no responses",
			Location: ir.Location{Pointer: "#/paths/~1ping/get"},
		}}},
	}
	b := &stubBackend{}
	_, err := Run(context.Background(), b, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidModel))
	assert.Contains(t, err.Error(), "operation-no-responses")
	assert.Zero(t, b.calls)
}

func TestRunToleratesWarnings(t *testing.T) {
	m := &ir.Model{
		Schemas: ir.NewSchemaSet(),
		Report: ir.ValidationReport{Diagnostics: []ir.Diagnostic{{
			Severity: ir.SeverityWarning,
			RuleID:   "components-present",
			Message:  "document declares no component schemas",
		}}},
	}
	b := &stubBackend{files: Files{"out.txt": []byte("ok")}}
	files, err := Run(context.Background(), b, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"out.txt"}, files.Paths())
	assert.Equal(t, 1, b.calls)
}

func TestRunErrors(t *testing.T) {
	m := &ir.Model{Schemas: ir.NewSchemaSet()}

	t.Run("nil backend", func(t *testing.T) {
		_, err := Run(context.Background(), nil, m)
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := &stubBackend{}
		_, err := Run(ctx, b, m)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, b.calls)
	})

	t.Run("backend failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Run(context.Background(), &stubBackend{err: boom}, m)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "generator: stub: boom")
	})
}

func TestGoModelsPetStore(t *testing.T) {
	m := compile(t, testutil.PetStoreYAML)

	files, err := Run(context.Background(), GoModels{}, m)
	require.NoError(t, err)
	require.Equal(t, []string{"petstore/models.go"}, files.Paths())

	src := string(files["petstore/models.go"])
	assert.Contains(t, src, "// Code generated by oasir. DO NOT EDIT.")
	assert.Contains(t, src, "package petstore")
	assert.Contains(t, src, "type Owner struct {")
	assert.Contains(t, src, "type Pet struct {")
	assert.Contains(t, src, "type NewPet struct {")
	assert.Contains(t, src, "type Category struct {")

	// cyclic references go through pointers
	assert.Regexp(t, `Owner\s+\*Owner\s+`+"`"+`json:"owner,omitempty"`+"`", src)
	assert.Regexp(t, `Parent\s+\*Category\s+`+"`"+`json:"parent,omitempty"`+"`", src)

	// required fields are values, optional ones pointers
	assert.Regexp(t, `Code\s+int32\s+`+"`"+`json:"code"`+"`", src)
	assert.Regexp(t, `Name\s+string\s+`+"`"+`json:"name"`+"`", src)
	assert.Regexp(t, `OwnerId\s+\*string\s+`+"`"+`json:"ownerId,omitempty"`+"`", src)
	assert.Regexp(t, `Pets\s+\[\]Pet\s+`+"`"+`json:"pets,omitempty"`+"`", src)

	// inline enums are hoisted into named types
	assert.Contains(t, src, "type PetStatus string")
	assert.Regexp(t, `PetStatusAvailable\s+PetStatus = "available"`, src)
	assert.Regexp(t, `Status\s+\*PetStatus`, src)
}

func TestGoModelsTypeMapping(t *testing.T) {
	m := compile(t, `openapi: 3.1.0
info:
  title: Events
  version: 1.0.0
paths: {}
components:
  schemas:
    Event:
      type: object
      description: |
        Something that
        happened.
      required: [at, payload, score]
      properties:
        at:
          type: string
          format: date-time
        payload:
          type: string
          format: byte
        score:
          type: number
          format: float
        labels:
          type: object
          additionalProperties:
            type: string
        location:
          type: object
          description: Where it happened.
          properties:
            lat:
              type: number
        type:
          type: string
    Events:
      type: array
      items:
        $ref: '#/components/schemas/Event'
    Shape:
      oneOf:
        - $ref: '#/components/schemas/Event'
        - type: string
    Priority:
      type: integer
      enum: [1, 2, 3]
`)
	files, err := Run(context.Background(), GoModels{PackageName: "events"}, m)
	require.NoError(t, err)
	src := string(files["events/models.go"])

	assert.Contains(t, src, `import "time"`)
	assert.Contains(t, src, "// Event is generated from #/components/schemas/Event.")
	assert.Contains(t, src, "// Something that happened.")
	assert.Regexp(t, `At\s+time\.Time\s+`, src)
	assert.Regexp(t, `Payload\s+\[\]byte\s+`, src)
	assert.Regexp(t, `Score\s+float32\s+`, src)
	assert.Regexp(t, `Labels\s+map\[string\]string\s+`, src)
	assert.Regexp(t, `Location\s+\*EventLocation\s+`, src)
	assert.Contains(t, src, "type EventLocation struct {")
	assert.Regexp(t, `Type\s+\*string\s+`+"`"+`json:"type,omitempty"`+"`", src)
	assert.Contains(t, src, "type Events []Event")
	assert.Contains(t, src, "type Shape any")
	assert.Contains(t, src, "type Priority int64")
	assert.Regexp(t, `Priority1\s+Priority = 1`, src)
}

func TestGoModelsInvalidPackageName(t *testing.T) {
	m := compile(t, testutil.PetStoreYAML)
	_, err := Run(context.Background(), GoModels{PackageName: "9lives"}, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid package name "9lives"`)
}

func TestFilesWrite(t *testing.T) {
	dir := t.TempDir()
	files := Files{
		"models/models.go": []byte("package models\n"),
		"README.md":        []byte("# generated\n"),
	}
	require.NoError(t, files.Write(dir))

	got, err := os.ReadFile(filepath.Join(dir, "models", "models.go"))
	require.NoError(t, err)
	assert.Equal(t, "package models\n", string(got))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestFilesWriteRejectsEscapingPaths(t *testing.T) {
	for _, p := range []string{"../outside.go", "/etc/passwd", "a/../../b"} {
		t.Run(p, func(t *testing.T) {
			dir := t.TempDir()
			err := Files{"ok.go": []byte("x"), p: []byte("x")}.Write(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid output path")
			assert.NoFileExists(t, filepath.Join(dir, "ok.go"))
		})
	}
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "UserProfile", toTypeName("user_profile"))
	assert.Equal(t, "Model", toTypeName("$$"))
	assert.Equal(t, "petstore", toPackageName("pet_store"))
	assert.Equal(t, "models", toPackageName(""))
	assert.Equal(t, "type_", escapeReservedWord("type"))
	assert.Equal(t, "a b", cleanDescription("  a\n\tb "))
	assert.Len(t, []rune(cleanDescription(string(make([]rune, 300)))), maxDescriptionLength)
}
