package loader

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies the serialization of a loaded document.
type Format string

const (
	// FormatUnknown means the format could not be determined.
	FormatUnknown Format = "unknown"
	// FormatYAML is block- or flow-structured YAML.
	FormatYAML Format = "yaml"
	// FormatJSON is bracket-delimited JSON.
	FormatJSON Format = "json"
)

// detectFormatFromPath detects the format from a file extension.
func detectFormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// detectFormatFromContent treats content starting with '{' or '[' as JSON.
func detectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r\ufeff")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// offsetToPosition converts a byte offset into a 1-based line and column.
func offsetToPosition(data []byte, offset int64) (line, column int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	column = int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, column
}
