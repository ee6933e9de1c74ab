// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the oasir compiler as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir"
)

const serverInstructions = `oasir MCP server: compiles OpenAPI 3.x documents into a normalized intermediate representation and answers questions about it.

Workflow: call compile once with a file, url, or inline content. It returns a handle. Pass the handle to validate, entities, relationships, operations, and generate to avoid recompiling. Every tool also accepts the document directly via spec.

Configuration: All defaults are configurable via OASIR_* environment variables set in your MCP client config.

Key settings:
- OASIR_CACHE_ENABLED (default: true): keep compiled models between calls
- OASIR_CACHE_TTL (default: 15m): how long a model handle stays valid
- OASIR_CACHE_MAX_SIZE (default: 10): number of models kept
- OASIR_LIST_LIMIT (default: 100): default result limit for list tools
- OASIR_MAX_DOCUMENT_SIZE (default: 10MiB): largest accepted document
- OASIR_VALIDATE_STRICT (default: false): promote warnings to errors
- OASIR_VALIDATE_NO_WARNINGS (default: false): suppress warnings`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		models.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasir", Version: oasir.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile an OpenAPI 3.x document into the normalized IR. Returns a model handle plus a summary: title, version, entity/operation/relationship counts, and validation status. Compilation errors (dangling references, contradictory schemas, path template mismatches) are all reported together.",
	}, handleCompile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Run the validation rule set over a compiled model and return its diagnostics sorted by source location. Use strict to promote warnings to errors, no_warnings to drop them, and disabled_rules to skip specific rule ids. Use offset/limit to paginate.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "entities",
		Description: "List the entities (component schemas) of a compiled model in declaration order with their kind, class name, and table name. Filter by name glob. Use detail=true to include each entity's properties with their resolved types and required flags.",
	}, handleEntities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relationships",
		Description: "List the inferred relationships between entities: cardinality, foreign key property, inverse property, and whether the edge came from a reference or a naming convention. Filter by entity name or cardinality.",
	}, handleRelationships)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "operations",
		Description: "List the compiled operations (method, path, operationId, function name, tags). Filter by method, tag, or path glob (* matches one segment). Use group_by (tag or method) to get distribution counts instead of individual items.",
	}, handleOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Render Go model types for the entities of a compiled model. Refuses models with error diagnostics. Writes to output_dir when given; otherwise returns the generated source inline.",
	}, handleGenerate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is one of the allowed values.
func validateGroupBy(groupBy string, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchGlob reports whether name matches pattern; an empty pattern matches
// everything and a pattern without wildcards compares case-insensitively.
func matchGlob(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.EqualFold(pattern, name)
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}

// matchPath matches a path template against a pattern segment by segment,
// where * matches exactly one segment.
func matchPath(pattern, path string) bool {
	if pattern == "" {
		return true
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(segs) {
		return false
	}
	for i := range ps {
		if ps[i] != "*" && ps[i] != segs[i] {
			return false
		}
	}
	return true
}
