package generator

import (
	"fmt"
	"path/filepath"

	"github.com/erraggy/oasir/internal/fileutil"
)

// Write writes every file below outputDir, creating directories as needed.
// Paths that are absolute or escape outputDir are rejected before anything
// is written.
func (f Files) Write(outputDir string) error {
	paths := f.Paths()
	for _, p := range paths {
		if !filepath.IsLocal(p) {
			return fmt.Errorf("generator: invalid output path %q: must be relative and stay inside the output directory", p)
		}
	}
	for _, p := range paths {
		if err := fileutil.WriteFile(filepath.Join(outputDir, p), f[p], fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("generator: %w", err)
		}
	}
	return nil
}
