// This file implements normalized schema to Go type mapping for the GoModels
// backend.

package generator

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasir/ir"
)

// typeMapper maps schema ids to Go types. Inline objects with properties are
// hoisted into named types and queued for declaration.
type typeMapper struct {
	schemas *ir.SchemaSet
	// named maps resolved schema ids to their Go type names
	named map[string]string
	used  map[string]bool
	queue []queuedType
}

// queuedType is a named type awaiting declaration. A non-empty aliasOf
// declares name as an alias instead.
type queuedType struct {
	name    string
	schema  *ir.Schema
	aliasOf string
}

func newTypeMapper(schemas *ir.SchemaSet) *typeMapper {
	return &typeMapper{
		schemas: schemas,
		named:   make(map[string]string),
		used:    make(map[string]bool),
	}
}

// uniqueName returns base, or base with the first free numeric suffix.
func (tm *typeMapper) uniqueName(base string) string {
	name := base
	for i := 2; tm.used[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	tm.used[name] = true
	return name
}

// declare registers a named type for the entity.
func (tm *typeMapper) declare(entity ir.EntityRef) bool {
	s, ok := tm.schemas.Resolve(entity.Schema)
	if !ok {
		return false
	}
	name := tm.uniqueName(toTypeName(entity.Name))
	if existing, ok := tm.named[s.ID]; ok {
		tm.queue = append(tm.queue, queuedType{name: name, aliasOf: existing})
		return true
	}
	tm.named[s.ID] = name
	tm.queue = append(tm.queue, queuedType{name: name, schema: s})
	return true
}

// goType returns the Go type for the schema id. hint names a hoisted type
// when the schema is an unnamed object with properties; an empty hint maps
// such objects to map[string]any.
func (tm *typeMapper) goType(id, hint string) string {
	if id == "" {
		return "any"
	}
	raw, ok := tm.schemas.Get(id)
	if !ok {
		return "any"
	}
	s, ok := tm.schemas.Resolve(id)
	if !ok {
		return "any"
	}
	if name, ok := tm.named[s.ID]; ok {
		if raw.IsPlaceholder() && s.Kind == ir.KindObject {
			// cycles need indirection
			return "*" + name
		}
		return name
	}
	if hint != "" && hoistable(s) {
		name := tm.uniqueName(hint)
		tm.named[s.ID] = name
		tm.queue = append(tm.queue, queuedType{name: name, schema: s})
		return name
	}
	return tm.underlying(s, hint)
}

// hoistable reports whether an unnamed schema deserves its own declaration.
func hoistable(s *ir.Schema) bool {
	switch s.Kind {
	case ir.KindObject:
		return len(s.Properties) > 0
	case ir.KindEnum:
		return isConstType(scalarGoType(s.Type, s.Format))
	}
	return false
}

// underlying returns the Go type expression for s ignoring its own name.
func (tm *typeMapper) underlying(s *ir.Schema, hint string) string {
	switch s.Kind {
	case ir.KindObject:
		if s.AdditionalProperties != "" {
			return "map[string]" + tm.goType(s.AdditionalProperties, suffixed(hint, "Value"))
		}
		return "map[string]any"
	case ir.KindArray:
		return "[]" + tm.goType(s.Items, suffixed(hint, "Item"))
	case ir.KindScalar, ir.KindEnum:
		return scalarGoType(s.Type, s.Format)
	}
	return "any"
}

func suffixed(hint, suffix string) string {
	if hint == "" {
		return ""
	}
	return hint + suffix
}

// scalarGoType maps an OpenAPI type and format to a Go type.
func scalarGoType(typ, format string) string {
	switch typ {
	case "string":
		return stringFormatToGoType(format)
	case "integer":
		return integerFormatToGoType(format)
	case "number":
		return numberFormatToGoType(format)
	case "boolean":
		return "bool"
	}
	return "any"
}

// stringFormatToGoType maps OpenAPI string formats to Go types.
func stringFormatToGoType(format string) string {
	switch format {
	case "date-time":
		return "time.Time"
	case "byte", "binary":
		return "[]byte"
	default:
		return "string"
	}
}

// integerFormatToGoType maps OpenAPI integer formats to Go types.
func integerFormatToGoType(format string) string {
	if format == "int32" {
		return "int32"
	}
	return "int64"
}

// numberFormatToGoType maps OpenAPI number formats to Go types.
func numberFormatToGoType(format string) string {
	if format == "float" {
		return "float32"
	}
	return "float64"
}

// isNilable reports whether the zero value of t already means "absent".
func isNilable(t string) bool {
	if t == "any" {
		return true
	}
	for _, prefix := range []string{"*", "[]", "map["} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

// isConstType reports whether t can hold typed constants.
func isConstType(t string) bool {
	switch t {
	case "string", "bool", "int32", "int64", "float32", "float64":
		return true
	}
	return false
}
