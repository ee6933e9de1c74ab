package mcpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/internal/testutil"
)

func TestSpecInput_CompileContent(t *testing.T) {
	models.reset()
	handle, m, err := specInput{Content: testutil.PetStoreYAML}.compile(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, handle)
	assert.Equal(t, "Pet Store", m.Title)

	again, cached, err := specInput{Content: testutil.PetStoreYAML}.compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, handle, again, "same content reuses the cached model")
	assert.Same(t, m, cached)
}

func TestSpecInput_CompileFile(t *testing.T) {
	models.reset()
	path := testutil.WriteTempFile(t, "api.yaml", testutil.PetStoreYAML)

	first, _, err := specInput{File: path}.compile(context.Background())
	require.NoError(t, err)
	second, _, err := specInput{File: path}.compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// a modified file gets a new handle
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	third, _, err := specInput{File: path}.compile(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestSpecInput_CacheDisabled(t *testing.T) {
	models.reset()
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })

	handle, m, err := specInput{Content: testutil.MinimalYAML}.compile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, handle)
	assert.NotNil(t, m)
	assert.Zero(t, models.size())
}

func TestSpecInput_InvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   specInput
		wantErr string
	}{
		{"none", specInput{}, "exactly one of file, url, or content must be provided (got 0)"},
		{"two", specInput{File: "a.yaml", Content: "x"}, "(got 2)"},
		{"missing file", specInput{File: "does-not-exist.yaml"}, "failed to read file"},
		{"bad scheme", specInput{URL: "file:///etc/passwd"}, "url must use http or https"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.input.compile(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSpecInput_ContentTooLarge(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxDocumentSize = 16 })
	_, _, err := specInput{Content: testutil.MinimalYAML}.compile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 16 bytes")
}

func TestSpecInput_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(testutil.PetStoreYAML))
	}))
	defer srv.Close()

	t.Run("private address blocked", func(t *testing.T) {
		models.reset()
		withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = false })
		_, _, err := specInput{URL: srv.URL + "/openapi.yaml"}.compile(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})

	t.Run("allowed", func(t *testing.T) {
		models.reset()
		withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = true })
		_, m, err := specInput{URL: srv.URL + "/openapi.yaml"}.compile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Pet Store", m.Title)
		assert.Equal(t, srv.URL+"/openapi.yaml", m.SourcePath)
	})

	t.Run("not found", func(t *testing.T) {
		models.reset()
		withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = true })
		_, _, err := specInput{URL: srv.URL + "/missing.yaml"}.compile(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404")
	})
}

func TestModelInput(t *testing.T) {
	models.reset()
	handle, _, err := specInput{Content: testutil.PetStoreYAML}.compile(context.Background())
	require.NoError(t, err)

	_, m, err := modelInput{Handle: handle}.model(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pet Store", m.Title)

	_, _, err = modelInput{Handle: handle, Spec: specInput{Content: "x"}}.model(context.Background())
	assert.ErrorContains(t, err, "either handle or spec")

	_, _, err = modelInput{Handle: "00000000-0000-0000-0000-000000000000"}.model(context.Background())
	assert.ErrorContains(t, err, "unknown or expired model handle")
}
