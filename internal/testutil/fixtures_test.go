package testutil

import (
	"os"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLToJSON(t *testing.T) {
	out := YAMLToJSON(t, "b: 1\na:\n  - x\n  - true\nc: {}\n")

	var decoded map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(1), decoded["b"])
	assert.Equal(t, []any{"x", true}, decoded["a"])

	// key order survives the conversion
	assert.Less(t, strings.Index(out, `"b"`), strings.Index(out, `"a"`))
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"c"`))
}

func TestPetStoreFixtureIsValidJSONWhenConverted(t *testing.T) {
	out := YAMLToJSON(t, PetStoreYAML)
	assert.True(t, gojson.Valid([]byte(out)))
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestWriteTempFile(t *testing.T) {
	path := WriteTempFile(t, "api.yaml", MinimalYAML)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, MinimalYAML, string(data))
}
