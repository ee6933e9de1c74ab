package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/generator"
	"github.com/erraggy/oasir/internal/pathutil"
)

type generateInput struct {
	Handle      string    `json:"handle,omitempty"       jsonschema:"Model handle returned by the compile tool"`
	Spec        specInput `json:"spec,omitempty"         jsonschema:"The OpenAPI document, when no handle is given"`
	PackageName string    `json:"package_name,omitempty" jsonschema:"Go package name for generated code (default: derived from the title)"`
	OutputDir   string    `json:"output_dir,omitempty"   jsonschema:"Directory to write generated files to; omit to return sources inline"`
}

type generatedFile struct {
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type generateOutput struct {
	Written   bool            `json:"written"`
	OutputDir string          `json:"output_dir,omitempty"`
	Files     []generatedFile `json:"files"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	_, m, err := modelInput{Handle: input.Handle, Spec: input.Spec}.model(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	files, err := generator.Run(ctx, generator.GoModels{PackageName: input.PackageName}, m)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{Files: make([]generatedFile, 0, len(files))}
	if input.OutputDir != "" {
		dir, err := pathutil.SanitizeOutputPath(input.OutputDir)
		if err != nil {
			return errResult(fmt.Errorf("invalid output_dir: %w", err)), generateOutput{}, nil
		}
		if err := files.Write(dir); err != nil {
			return errResult(err), generateOutput{}, nil
		}
		output.Written = true
		output.OutputDir = input.OutputDir
	}
	for _, p := range files.Paths() {
		f := generatedFile{Path: p, Size: len(files[p])}
		if !output.Written {
			f.Content = string(files[p])
		}
		output.Files = append(output.Files, f)
	}
	return nil, output, nil
}
