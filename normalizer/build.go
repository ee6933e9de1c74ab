package normalizer

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
)

// composition keywords are handled by build before the plain keywords.
var compositionKeys = map[string]bool{"allOf": true, "oneOf": true, "anyOf": true}

// build normalizes the schema node n found at ptr.
func (z *normalizer) build(ptr string, n *loader.Node) (*ir.Schema, bool) {
	if !n.IsMapping() {
		if b, isBool := n.Bool(); isBool {
			if b {
				return &ir.Schema{ID: ptr, Name: componentName(ptr), Kind: ir.KindScalar, Location: location(ptr, n)}, true
			}
			z.fail(ptr, n, "schema false matches no value")
			return nil, false
		}
		z.fail(ptr, n, fmt.Sprintf("schema must be a mapping, found %s", n.Kind))
		return nil, false
	}
	if n.Has("allOf") {
		return z.buildConjunction(ptr, n)
	}
	s, err := z.buildPlain(ptr, n)
	if err != nil {
		if err != errReported {
			z.fail(ptr, n, err.Error())
		}
		return nil, false
	}
	return s, true
}

// errReported signals that a nested position already recorded its error.
var errReported = fmt.Errorf("nested schema failed")

// child normalizes a nested schema position.
func (z *normalizer) child(ptr string) (string, error) {
	id, ok := z.normalizeAt(ptr)
	if !ok {
		return "", errReported
	}
	return id, nil
}

// buildPlain normalizes every keyword except allOf.
func (z *normalizer) buildPlain(ptr string, n *loader.Node) (*ir.Schema, error) {
	s := &ir.Schema{ID: ptr, Name: componentName(ptr), Location: location(ptr, n)}

	types, nullable, err := declaredTypes(n)
	if err != nil {
		return nil, err
	}
	s.Nullable = nullable
	annotate(s, n)
	if s.Constraints, err = constraints(n); err != nil {
		return nil, err
	}

	_, hasOneOf := n.Lookup("oneOf")
	_, hasAnyOf := n.Lookup("anyOf")
	switch {
	case hasOneOf && hasAnyOf:
		return nil, fmt.Errorf("oneOf and anyOf cannot be combined")
	case hasOneOf:
		return s, z.union(s, ptr, n, ir.CompositionOneOf)
	case hasAnyOf:
		return s, z.union(s, ptr, n, ir.CompositionAnyOf)
	}

	if n.Has("enum") || n.Has("const") {
		return s, enum(s, n, types)
	}

	switch len(types) {
	case 0:
		switch {
		case n.Has("properties") || n.Has("additionalProperties"):
			return s, z.object(s, ptr, n)
		case n.Has("items"):
			return s, z.array(s, ptr, n)
		}
		// no type: only meaningful as an allOf branch
		s.Kind = ir.KindScalar
		s.Required, err = requiredList(n)
		return s, err
	case 1:
		return s, z.typed(s, ptr, n, types[0])
	}
	return s, z.typeUnion(s, ptr, n, types)
}

// typed builds s as the single declared type t.
func (z *normalizer) typed(s *ir.Schema, ptr string, n *loader.Node, t string) error {
	switch t {
	case "object":
		if n.Has("items") {
			return fmt.Errorf("type object cannot declare items")
		}
		return z.object(s, ptr, n)
	case "array":
		if n.Has("properties") {
			return fmt.Errorf("type array cannot declare properties")
		}
		return z.array(s, ptr, n)
	}
	if n.Has("properties") {
		return fmt.Errorf("type %s cannot declare properties", t)
	}
	if n.Has("items") {
		return fmt.Errorf("type %s cannot declare items", t)
	}
	s.Kind = ir.KindScalar
	s.Type = t
	return nil
}

// typeUnion turns a multi-type list into a union of single-type members.
func (z *normalizer) typeUnion(s *ir.Schema, ptr string, n *loader.Node, types []string) error {
	s.Kind = ir.KindUnion
	s.Composition = ir.CompositionOneOf
	for i, t := range types {
		member := &ir.Schema{ID: fmt.Sprintf("%s/type/%d", ptr, i), Location: s.Location}
		if t == "object" || t == "array" {
			if err := z.typed(member, ptr, n, t); err != nil {
				return err
			}
		} else {
			member.Kind = ir.KindScalar
			member.Type = t
		}
		z.set.Add(member)
		s.Members = append(s.Members, member.ID)
	}
	return nil
}

func (z *normalizer) object(s *ir.Schema, ptr string, n *loader.Node) error {
	s.Kind = ir.KindObject
	if props, ok := n.Lookup("properties"); ok {
		if !props.IsMapping() {
			return fmt.Errorf("properties must be a mapping")
		}
		propsPtr := pathutil.Append(ptr, "properties")
		var failed bool
		for _, e := range props.Entries {
			id, err := z.child(pathutil.Append(propsPtr, e.Key))
			if err != nil {
				// keep going so every bad property is reported
				failed = true
				continue
			}
			s.Properties = append(s.Properties, ir.Property{Name: e.Key, Schema: id})
		}
		if failed {
			return errReported
		}
	}
	required, err := requiredList(n)
	if err != nil {
		return err
	}
	s.Required = required

	if ap, ok := n.Lookup("additionalProperties"); ok {
		if b, isBool := ap.Bool(); isBool {
			s.NoAdditionalProperties = !b
		} else {
			id, err := z.child(pathutil.Append(ptr, "additionalProperties"))
			if err != nil {
				return err
			}
			s.AdditionalProperties = id
		}
	}
	return nil
}

func requiredList(n *loader.Node) ([]string, error) {
	req, ok := n.Lookup("required")
	if !ok {
		return nil, nil
	}
	if !req.IsSequence() {
		return nil, fmt.Errorf("required must be a list of property names")
	}
	var out []string
	for _, item := range req.Items {
		name, isStr := item.Str()
		if !isStr {
			return nil, fmt.Errorf("required must be a list of property names")
		}
		out = appendUnique(out, name)
	}
	return out, nil
}

func (z *normalizer) array(s *ir.Schema, ptr string, n *loader.Node) error {
	s.Kind = ir.KindArray
	items, ok := n.Lookup("items")
	if !ok {
		return nil
	}
	if items.IsSequence() {
		return fmt.Errorf("items must be a single schema")
	}
	id, err := z.child(pathutil.Append(ptr, "items"))
	if err != nil {
		return err
	}
	s.Items = id
	return nil
}

func enum(s *ir.Schema, n *loader.Node, types []string) error {
	s.Kind = ir.KindEnum
	if c, ok := n.Lookup("const"); ok {
		if c.IsNull() {
			s.Nullable = true
		} else {
			s.EnumValues = []any{c.Interface()}
		}
	} else {
		values := n.Get("enum")
		if !values.IsSequence() {
			return fmt.Errorf("enum must be a list")
		}
		if len(values.Items) == 0 {
			return fmt.Errorf("enum must not be empty")
		}
		for _, v := range values.Items {
			if v.IsNull() {
				s.Nullable = true
				continue
			}
			s.EnumValues = append(s.EnumValues, v.Interface())
		}
	}
	switch len(types) {
	case 0:
		s.Type = inferEnumType(s.EnumValues)
	case 1:
		if types[0] == "object" || types[0] == "array" {
			return fmt.Errorf("enum of type %s is not supported", types[0])
		}
		s.Type = types[0]
	default:
		return fmt.Errorf("enum cannot declare several types: %s", strings.Join(types, ", "))
	}
	return nil
}

// union builds a oneOf/anyOf schema. Sibling properties become the shared
// base carried by the union.
func (z *normalizer) union(s *ir.Schema, ptr string, n *loader.Node, comp ir.Composition) error {
	members := n.Get(string(comp))
	if !members.IsSequence() || len(members.Items) == 0 {
		return fmt.Errorf("%s must be a non-empty list", comp)
	}
	s.Kind = ir.KindUnion
	s.Composition = comp
	membersPtr := pathutil.Append(ptr, string(comp))
	var failed bool
	for i := range members.Items {
		id, err := z.child(fmt.Sprintf("%s/%d", membersPtr, i))
		if err != nil {
			failed = true
			continue
		}
		s.Members = append(s.Members, id)
	}
	if failed {
		return errReported
	}

	if n.Has("properties") {
		base := &ir.Schema{}
		if err := z.object(base, ptr, n); err != nil {
			return err
		}
		s.Properties, s.Required = base.Properties, base.Required
	}
	return z.discriminator(s, n)
}

func (z *normalizer) discriminator(s *ir.Schema, n *loader.Node) error {
	d, ok := n.Lookup("discriminator")
	if !ok {
		return nil
	}
	name := d.Text("propertyName")
	if name == "" {
		return fmt.Errorf("discriminator requires propertyName")
	}
	out := &ir.Discriminator{PropertyName: name}
	if mapping := d.Get("mapping"); mapping.IsMapping() {
		for _, e := range mapping.Entries {
			target, _ := e.Value.Str()
			out.Mapping = append(out.Mapping, ir.DiscriminatorMapping{Value: e.Key, Schema: z.mappingTarget(target)})
		}
	}
	s.Discriminator = out
	return nil
}

// mappingTarget converts a discriminator mapping value (a reference or a bare
// component name) into a schema id. Members are normalized first, so mapped
// members are already known.
func (z *normalizer) mappingTarget(target string) string {
	ptr := target
	if !pathutil.IsLocal(target) {
		ptr = pathutil.SchemaRef(target)
	} else if canonical, err := pathutil.Canonical(target); err == nil {
		ptr = canonical
	}
	if id, ok := z.done[ptr]; ok {
		return id
	}
	return ptr
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
