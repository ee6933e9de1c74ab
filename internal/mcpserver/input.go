package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasir/compiler"
	"github.com/erraggy/oasir/ir"
)

// specInput represents the ways an OpenAPI document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI 3.x file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI 3.x document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI 3.x document content (JSON or YAML)"`
}

// modelInput selects a compiled model: either a handle returned by the
// compile tool, or a document to compile on the fly.
type modelInput struct {
	Handle string
	Spec   specInput
}

func (s specInput) count() int {
	n := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			n++
		}
	}
	return n
}

// cacheKey identifies the input for the model cache. File inputs are keyed by
// (absolutePath, modTime), content by a SHA-256 hash, and URLs by the URL.
func (s specInput) cacheKey() string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		return "url:" + s.URL
	}
	return ""
}

// compile compiles the document, consulting the model cache first. It
// returns the model's handle, which is empty when caching is disabled.
func (s specInput) compile(ctx context.Context) (string, *ir.Model, error) {
	if n := s.count(); n != 1 {
		return "", nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", n)
	}
	if int64(len(s.Content)) > cfg.MaxDocumentSize {
		return "", nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASIR_MAX_DOCUMENT_SIZE to increase",
			len(s.Content), cfg.MaxDocumentSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = s.cacheKey()
	}
	if key != "" {
		if handle, m, ok := models.lookup(key); ok {
			return handle, m, nil
		}
	}

	opts := []compiler.Option{compiler.WithMaxSize(cfg.MaxDocumentSize)}
	switch {
	case s.File != "":
		opts = append(opts, compiler.WithFilePath(s.File))
	case s.URL != "":
		data, err := fetch(ctx, s.URL)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, compiler.WithBytes(data), compiler.WithSourceName(s.URL))
	default:
		opts = append(opts, compiler.WithReader(strings.NewReader(s.Content)), compiler.WithSourceName("content"))
	}

	m, err := compiler.CompileWithOptions(opts...)
	if err != nil {
		return "", nil, err
	}
	if !cfg.CacheEnabled {
		return "", m, nil
	}
	return models.put(key, m), m, nil
}

// model returns the model named by the handle or compiled from the document input.
func (in modelInput) model(ctx context.Context) (string, *ir.Model, error) {
	if in.Handle != "" {
		if in.Spec.count() > 0 {
			return "", nil, fmt.Errorf("provide either handle or spec, not both")
		}
		m, ok := models.get(in.Handle)
		if !ok {
			return "", nil, fmt.Errorf("unknown or expired model handle %q; compile the document again", in.Handle)
		}
		return in.Handle, m, nil
	}
	return in.Spec.compile(ctx)
}

// fetch downloads a document over HTTP(S), refusing private addresses unless
// OASIR_ALLOW_PRIVATE_IPS is set.
func fetch(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("url must use http or https: %s", url)
	}
	client := http.DefaultClient
	if !cfg.AllowPrivateIPs {
		client = newSafeHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(data)) > cfg.MaxDocumentSize {
		return nil, fmt.Errorf("document at %s exceeds maximum %d bytes", url, cfg.MaxDocumentSize)
	}
	return data, nil
}
