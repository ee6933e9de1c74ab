package normalizer

import (
	"fmt"
	"math"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
)

var knownTypes = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"object":  true,
	"array":   true,
	"null":    true,
}

func isScalarType(t string) bool {
	return t == "string" || t == "integer" || t == "number" || t == "boolean"
}

// declaredTypes reads the type keyword. nullable is set when the list form
// includes "null".
func declaredTypes(n *loader.Node) (types []string, nullable bool, err error) {
	t, ok := n.Lookup("type")
	if !ok {
		return nil, false, nil
	}
	add := func(v *loader.Node) error {
		s, isStr := v.Str()
		if !isStr {
			return fmt.Errorf("type must be a string or a list of strings")
		}
		if !knownTypes[s] {
			return fmt.Errorf("unknown type %q", s)
		}
		if s == "null" {
			nullable = true
			return nil
		}
		for _, seen := range types {
			if seen == s {
				return nil
			}
		}
		types = append(types, s)
		return nil
	}
	if t.IsSequence() {
		for _, item := range t.Items {
			if err := add(item); err != nil {
				return nil, false, err
			}
		}
		return types, nullable, nil
	}
	if err := add(t); err != nil {
		return nil, false, err
	}
	return types, nullable, nil
}

func number(n *loader.Node, key string) (*float64, error) {
	v, ok := n.Lookup(key)
	if !ok || v.IsNull() {
		return nil, nil
	}
	f, isNum := v.Number()
	if !isNum {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func count(n *loader.Node, key string) (*int, error) {
	f, err := number(n, key)
	if err != nil || f == nil {
		return nil, err
	}
	if *f < 0 || *f != math.Trunc(*f) {
		return nil, fmt.Errorf("%s must be a non-negative integer", key)
	}
	v := int(*f)
	return &v, nil
}

// exclusiveBound handles both the boolean form (3.0) and the numeric form
// (3.1) of exclusiveMinimum/exclusiveMaximum.
func exclusiveBound(n *loader.Node, key string, bound **float64) (bool, error) {
	v, ok := n.Lookup(key)
	if !ok || v.IsNull() {
		return false, nil
	}
	if b, isBool := v.Bool(); isBool {
		return b, nil
	}
	if f, isNum := v.Number(); isNum {
		*bound = &f
		return true, nil
	}
	return false, fmt.Errorf("%s must be a boolean or a number", key)
}

// constraints reads the validation keywords of n.
func constraints(n *loader.Node) (ir.Constraints, error) {
	var c ir.Constraints
	var err error
	read := func(dst **float64, key string) {
		if err == nil {
			*dst, err = number(n, key)
		}
	}
	readCount := func(dst **int, key string) {
		if err == nil {
			*dst, err = count(n, key)
		}
	}
	read(&c.Minimum, "minimum")
	read(&c.Maximum, "maximum")
	read(&c.MultipleOf, "multipleOf")
	readCount(&c.MinLength, "minLength")
	readCount(&c.MaxLength, "maxLength")
	readCount(&c.MinItems, "minItems")
	readCount(&c.MaxItems, "maxItems")
	readCount(&c.MinProperties, "minProperties")
	readCount(&c.MaxProperties, "maxProperties")
	if err != nil {
		return c, err
	}
	if c.ExclusiveMinimum, err = exclusiveBound(n, "exclusiveMinimum", &c.Minimum); err != nil {
		return c, err
	}
	if c.ExclusiveMaximum, err = exclusiveBound(n, "exclusiveMaximum", &c.Maximum); err != nil {
		return c, err
	}
	if c.MultipleOf != nil && *c.MultipleOf <= 0 {
		return c, fmt.Errorf("multipleOf must be positive")
	}
	if p, ok := n.Lookup("pattern"); ok {
		s, isStr := p.Str()
		if !isStr {
			return c, fmt.Errorf("pattern must be a string")
		}
		c.Pattern = s
	}
	c.UniqueItems = n.Flag("uniqueItems")
	return c, checkBounds(c)
}

// checkBounds rejects constraint sets that no value can satisfy.
func checkBounds(c ir.Constraints) error {
	if c.Minimum != nil && c.Maximum != nil {
		if *c.Minimum > *c.Maximum {
			return fmt.Errorf("minimum %v exceeds maximum %v", *c.Minimum, *c.Maximum)
		}
		if *c.Minimum == *c.Maximum && (c.ExclusiveMinimum || c.ExclusiveMaximum) {
			return fmt.Errorf("exclusive bounds %v leave no valid value", *c.Minimum)
		}
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return fmt.Errorf("minLength %d exceeds maxLength %d", *c.MinLength, *c.MaxLength)
	}
	if c.MinItems != nil && c.MaxItems != nil && *c.MinItems > *c.MaxItems {
		return fmt.Errorf("minItems %d exceeds maxItems %d", *c.MinItems, *c.MaxItems)
	}
	if c.MinProperties != nil && c.MaxProperties != nil && *c.MinProperties > *c.MaxProperties {
		return fmt.Errorf("minProperties %d exceeds maxProperties %d", *c.MinProperties, *c.MaxProperties)
	}
	return nil
}

// annotate copies the descriptive keywords of n onto s.
func annotate(s *ir.Schema, n *loader.Node) {
	s.Title = n.Text("title")
	s.Description = n.Text("description")
	s.Format = n.Text("format")
	s.Nullable = s.Nullable || n.Flag("nullable")
	s.ReadOnly = n.Flag("readOnly")
	s.WriteOnly = n.Flag("writeOnly")
	s.Deprecated = n.Flag("deprecated")
	if ex, ok := n.Lookup("example"); ok {
		s.Example = ex.Interface()
	} else if exs := n.Get("examples"); exs.IsSequence() && len(exs.Items) > 0 {
		s.Example = exs.Items[0].Interface()
	}
	if def, ok := n.Lookup("default"); ok {
		s.Default = def.Interface()
	}
}

// inferEnumType derives the base type shared by every enum value.
func inferEnumType(values []any) string {
	kind := ""
	for _, v := range values {
		var t string
		switch v.(type) {
		case string:
			t = "string"
		case bool:
			t = "boolean"
		case int, int64, uint64:
			t = "integer"
		case float64:
			t = "number"
		default:
			return ""
		}
		switch {
		case kind == "":
			kind = t
		case kind == t:
		case (kind == "integer" && t == "number") || (kind == "number" && t == "integer"):
			kind = "number"
		default:
			return ""
		}
	}
	return kind
}
