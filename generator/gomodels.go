package generator

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/erraggy/oasir/internal/naming"
	"github.com/erraggy/oasir/ir"
)

// GoModels renders one Go type per entity into <package>/models.go.
//
// Object entities become structs with JSON tags; optional properties become
// pointers unless their type is already nilable. Enums become defined types
// with one constant per value. Unions become defined types over any.
type GoModels struct {
	// PackageName names the generated package. Empty derives it from the
	// model title, falling back to "models".
	PackageName string
}

// Name identifies the backend.
func (g GoModels) Name() string { return "go-models" }

type modelsFile struct {
	Package string
	Title   string
	Types   []typeDecl
}

type typeDecl struct {
	Name       string
	Kind       string // struct, alias, or defined
	Comment    []string
	Underlying string
	Fields     []fieldDecl
	Consts     []constDecl
}

type fieldDecl struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

type constDecl struct {
	Name  string
	Type  string
	Value string
}

// Generate renders the model's entities.
func (g GoModels) Generate(ctx context.Context, m *ir.Model) (Files, error) {
	if m.Schemas == nil {
		return nil, fmt.Errorf("model has no schema set")
	}
	pkg := g.PackageName
	if pkg == "" {
		pkg = toPackageName(m.ProjectName())
	}
	if !isIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}

	tm := newTypeMapper(m.Schemas)
	for _, e := range m.Entities {
		tm.declare(e)
	}

	var decls []typeDecl
	// declaring a struct may hoist inline objects onto the queue
	for i := 0; i < len(tm.queue); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decls = append(decls, tm.declaration(tm.queue[i]))
	}

	data := modelsFile{Package: pkg, Title: cleanDescription(m.Title), Types: decls}
	buf := getTemplateBuffer(len(decls))
	defer putTemplateBuffer(buf, len(decls))
	if err := executeTemplate(buf, "models.go.tmpl", data); err != nil {
		return nil, err
	}
	src, err := formatAndFixImports("models.go", buf.Bytes())
	if err != nil {
		return nil, err
	}
	return Files{path.Join(pkg, "models.go"): src}, nil
}

func (tm *typeMapper) declaration(q queuedType) typeDecl {
	if q.aliasOf != "" {
		return typeDecl{
			Name:       q.name,
			Kind:       "alias",
			Comment:    []string{fmt.Sprintf("%s is an alias of %s.", q.name, q.aliasOf)},
			Underlying: q.aliasOf,
		}
	}
	s := q.schema
	d := typeDecl{Name: q.name, Comment: typeComment(q.name, s)}
	switch s.Kind {
	case ir.KindObject:
		if len(s.Properties) == 0 {
			d.Kind = "defined"
			d.Underlying = tm.underlying(s, q.name)
			return d
		}
		d.Kind = "struct"
		d.Fields = tm.fields(q.name, s)
	case ir.KindEnum:
		d.Kind = "defined"
		d.Underlying = scalarGoType(s.Type, s.Format)
		if isConstType(d.Underlying) {
			d.Consts = enumConsts(q.name, d.Underlying, s.EnumValues)
		}
	case ir.KindUnion:
		d.Kind = "defined"
		d.Underlying = "any"
		members := make([]string, 0, len(s.Members))
		for _, id := range s.Members {
			members = append(members, tm.goType(id, ""))
		}
		d.Comment = append(d.Comment, fmt.Sprintf("It holds %s of: %s.", compositionPhrase(s.Composition), strings.Join(members, ", ")))
	default:
		d.Kind = "defined"
		d.Underlying = tm.underlying(s, q.name)
	}
	return d
}

func (tm *typeMapper) fields(owner string, s *ir.Schema) []fieldDecl {
	seen := make(map[string]bool, len(s.Properties))
	out := make([]fieldDecl, 0, len(s.Properties))
	for _, p := range s.Properties {
		name := toTypeName(p.Name)
		base := name
		for i := 2; seen[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		seen[name] = true

		typ := tm.goType(p.Schema, owner+base)
		required := s.IsRequired(p.Name)
		prop, _ := tm.schemas.Get(p.Schema)
		nullable := prop != nil && prop.Nullable
		if (!required || nullable) && !isNilable(typ) {
			typ = "*" + typ
		}

		f := fieldDecl{Name: name, Type: typ, Tag: jsonTag(p.Name, !required)}
		if prop != nil && !prop.IsPlaceholder() {
			if _, named := tm.named[prop.ID]; !named {
				f.Comment = cleanDescription(prop.Description)
			}
		}
		out = append(out, f)
	}
	return out
}

func typeComment(name string, s *ir.Schema) []string {
	lines := []string{fmt.Sprintf("%s is generated from %s.", name, s.ID)}
	if desc := cleanDescription(s.Description); desc != "" {
		lines = append(lines, desc)
	}
	if s.Deprecated {
		lines = append(lines, "Deprecated: the schema is marked deprecated.")
	}
	return lines
}

func compositionPhrase(c ir.Composition) string {
	if c == ir.CompositionAnyOf {
		return "any"
	}
	return "exactly one"
}

// jsonTag renders a struct tag literal for the JSON name.
func jsonTag(name string, omitEmpty bool) string {
	value := name
	if omitEmpty {
		value += ",omitempty"
	}
	tag := "json:" + strconv.Quote(value)
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

func enumConsts(typeName, underlying string, values []any) []constDecl {
	seen := make(map[string]bool, len(values))
	out := make([]constDecl, 0, len(values))
	for i, v := range values {
		lit, ok := constLiteral(underlying, v)
		if !ok {
			continue
		}
		suffix := constSuffix(v)
		if suffix == "" {
			suffix = fmt.Sprintf("Value%d", i+1)
		}
		name := typeName + suffix
		base := name
		for j := 2; seen[name]; j++ {
			name = fmt.Sprintf("%s%d", base, j)
		}
		seen[name] = true
		out = append(out, constDecl{Name: name, Type: typeName, Value: lit})
	}
	return out
}

func constSuffix(v any) string {
	var b strings.Builder
	for _, r := range naming.ToPascalCase(fmt.Sprint(v)) {
		if r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func constLiteral(underlying string, v any) (string, bool) {
	switch underlying {
	case "string":
		s, ok := v.(string)
		return strconv.Quote(s), ok
	case "bool":
		b, ok := v.(bool)
		return strconv.FormatBool(b), ok
	}
	switch n := v.(type) {
	case int, int32, int64, uint64:
		return fmt.Sprint(n), true
	case float64:
		if strings.HasPrefix(underlying, "int") && n != float64(int64(n)) {
			return "", false
		}
		return strconv.FormatFloat(n, 'g', -1, 64), true
	}
	return "", false
}

func isIdentifier(s string) bool {
	if s == "" || goReservedWords[s] {
		return false
	}
	for i, r := range s {
		letter := r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
