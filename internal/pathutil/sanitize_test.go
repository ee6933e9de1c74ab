package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		target := filepath.Join(dir, "model.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))

		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("new file", func(t *testing.T) {
		target := filepath.Join(dir, "new.yaml")
		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := SanitizeOutputPath("model.yaml")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := SanitizeOutputPath("")
		assert.Error(t, err)
	})

	t.Run("symlink rejected", func(t *testing.T) {
		real := filepath.Join(dir, "real.yaml")
		link := filepath.Join(dir, "link.yaml")
		require.NoError(t, os.WriteFile(real, []byte("x"), 0o600))
		require.NoError(t, os.Symlink(real, link))

		_, err := SanitizeOutputPath(link)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}
