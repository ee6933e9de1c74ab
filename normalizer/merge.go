package normalizer

import (
	"fmt"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
)

// buildConjunction merges the allOf members of n, plus its sibling keywords,
// into a single schema.
func (z *normalizer) buildConjunction(ptr string, n *loader.Node) (*ir.Schema, bool) {
	all := n.Get("allOf")
	if !all.IsSequence() || len(all.Items) == 0 {
		z.fail(ptr, n, "allOf must be a non-empty list")
		return nil, false
	}

	allPtr := pathutil.Append(ptr, "allOf")
	var branches []*ir.Schema
	var extends []string
	failed := false
	for i := range all.Items {
		memberPtr := fmt.Sprintf("%s/%d", allPtr, i)
		id, ok := z.normalizeAt(memberPtr)
		if !ok {
			failed = true
			continue
		}
		member, _ := z.set.Get(id)
		switch member.Kind {
		case ir.KindPlaceholder:
			z.fail(ptr, n, fmt.Sprintf("allOf member %s refers back to a schema still being merged (%s)", memberPtr, member.Target))
			failed = true
			continue
		case ir.KindUnion:
			z.fail(ptr, n, fmt.Sprintf("allOf member %s is a %s union and cannot be merged", memberPtr, member.Composition))
			failed = true
			continue
		}
		if componentName(id) != "" {
			extends = appendUnique(extends, id)
		}
		for _, parent := range member.Extends {
			extends = appendUnique(extends, parent)
		}
		branches = append(branches, member)
	}
	if failed {
		return nil, false
	}

	sibling, err := z.buildPlain(ptr, withoutComposition(n))
	if err != nil {
		if err != errReported {
			z.fail(ptr, n, err.Error())
		}
		return nil, false
	}
	branches = append(branches, sibling)

	merged, err := z.mergeAll(ptr, location(ptr, n), branches)
	if err != nil {
		if err != errReported {
			z.fail(ptr, n, err.Error())
		}
		return nil, false
	}
	merged.Extends = extends

	comp := ir.Composition("")
	switch {
	case n.Has("oneOf"):
		comp = ir.CompositionOneOf
	case n.Has("anyOf"):
		comp = ir.CompositionAnyOf
	}
	if comp == "" {
		return merged, true
	}

	// allOf combined with oneOf/anyOf: the union carries the merged base
	u := &ir.Schema{ID: ptr, Name: merged.Name, Location: merged.Location}
	if err := z.union(u, ptr, n, comp); err != nil {
		if err != errReported {
			z.fail(ptr, n, err.Error())
		}
		return nil, false
	}
	u.Properties = merged.Properties
	u.Required = merged.Required
	u.Extends = merged.Extends
	u.Title, u.Description = merged.Title, merged.Description
	u.Nullable, u.Deprecated = merged.Nullable, merged.Deprecated
	return u, true
}

// withoutComposition returns a shallow copy of n without allOf, oneOf, or anyOf.
func withoutComposition(n *loader.Node) *loader.Node {
	out := &loader.Node{Kind: n.Kind, Line: n.Line, Column: n.Column}
	for _, e := range n.Entries {
		if compositionKeys[e.Key] {
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

// mergeAll combines branches into one schema with the given id. Later
// branches win for annotations; constraints take the tighter bound.
func (z *normalizer) mergeAll(id string, loc ir.Location, branches []*ir.Schema) (*ir.Schema, error) {
	out := &ir.Schema{ID: id, Name: componentName(id), Location: loc}

	var propOrder []string
	propIDs := make(map[string][]string)
	var itemIDs []string

	for _, b := range branches {
		if err := mergeKind(out, b); err != nil {
			return nil, err
		}
		for _, p := range b.Properties {
			if _, seen := propIDs[p.Name]; !seen {
				propOrder = append(propOrder, p.Name)
			}
			propIDs[p.Name] = append(propIDs[p.Name], p.Schema)
		}
		for _, r := range b.Required {
			out.Required = appendUnique(out.Required, r)
		}
		if b.Items != "" {
			itemIDs = append(itemIDs, b.Items)
		}
		if b.AdditionalProperties != "" {
			out.AdditionalProperties = b.AdditionalProperties
		}
		out.NoAdditionalProperties = out.NoAdditionalProperties || b.NoAdditionalProperties
		if b.Discriminator != nil {
			out.Discriminator = b.Discriminator
		}
		mergeConstraints(&out.Constraints, b.Constraints)
		mergeAnnotations(out, b)
	}
	if out.Kind == "" {
		out.Kind = ir.KindScalar
	}

	for _, name := range propOrder {
		childID := pathutil.Append(id+"/x-merged/properties", name)
		merged, err := z.mergeIDs(childID, loc, propIDs[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out.Properties = append(out.Properties, ir.Property{Name: name, Schema: merged})
	}
	if len(itemIDs) > 0 {
		merged, err := z.mergeIDs(id+"/x-merged/items", loc, itemIDs)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = merged
	}

	if err := checkBounds(out.Constraints); err != nil {
		return nil, err
	}
	if out.Kind == ir.KindObject && out.Items != "" {
		return nil, fmt.Errorf("object cannot declare items")
	}
	if out.Kind == ir.KindArray && len(out.Properties) > 0 {
		return nil, fmt.Errorf("array cannot declare properties")
	}
	return out, nil
}

// mergeIDs merges the schemas contributed for one property or item position.
// Identical ids, or placeholders for the same target, collapse without a
// synthetic node.
func (z *normalizer) mergeIDs(childID string, loc ir.Location, ids []string) (string, error) {
	var distinct []string
	seen := make(map[string]bool)
	for _, id := range ids {
		key := id
		if s, ok := z.set.Get(id); ok && s.IsPlaceholder() {
			key = s.Target
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, id)
	}
	if len(distinct) == 1 {
		return distinct[0], nil
	}

	schemas := make([]*ir.Schema, 0, len(distinct))
	for _, id := range distinct {
		s, ok := z.set.Get(id)
		if !ok {
			return "", fmt.Errorf("unknown schema %s", id)
		}
		if s.IsPlaceholder() {
			return "", fmt.Errorf("cannot merge reference cycle at %s", id)
		}
		if s.Kind == ir.KindUnion {
			return "", fmt.Errorf("cannot merge %s union at %s", s.Composition, id)
		}
		schemas = append(schemas, s)
	}
	merged, err := z.mergeAll(childID, ir.Location{Pointer: childID, Line: loc.Line, Column: loc.Column}, schemas)
	if err != nil {
		return "", err
	}
	merged.Name = ""
	z.set.Add(merged)
	return childID, nil
}

// mergeKind folds the kind and base type of b into out.
func mergeKind(out, b *ir.Schema) error {
	if b.Kind == ir.KindScalar && b.Type == "" {
		// unconstrained branch
		return nil
	}
	if out.Kind == "" {
		out.Kind, out.Type = b.Kind, b.Type
		out.EnumValues = append([]any(nil), b.EnumValues...)
		return nil
	}

	switch {
	case out.Kind == ir.KindObject && b.Kind == ir.KindObject,
		out.Kind == ir.KindArray && b.Kind == ir.KindArray:
		return nil
	case out.Kind == ir.KindObject || b.Kind == ir.KindObject,
		out.Kind == ir.KindArray || b.Kind == ir.KindArray:
		return fmt.Errorf("conflicting types %s and %s", describe(out), describe(b))
	}

	t, ok := narrowType(out.Type, b.Type)
	if !ok {
		return fmt.Errorf("conflicting types %s and %s", describe(out), describe(b))
	}
	out.Type = t

	switch {
	case out.Kind == ir.KindEnum && b.Kind == ir.KindEnum:
		out.EnumValues = intersect(out.EnumValues, b.EnumValues)
		if len(out.EnumValues) == 0 {
			return fmt.Errorf("enum values have no common member")
		}
	case b.Kind == ir.KindEnum:
		out.Kind = ir.KindEnum
		out.EnumValues = append([]any(nil), b.EnumValues...)
	}
	return nil
}

// narrowType returns the type satisfying both a and b.
func narrowType(a, b string) (string, bool) {
	switch {
	case a == "" || a == b:
		return b, true
	case b == "":
		return a, true
	case (a == "integer" && b == "number") || (a == "number" && b == "integer"):
		return "integer", true
	}
	return "", false
}

func describe(s *ir.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	return string(s.Kind)
}

func intersect(a, b []any) []any {
	var out []any
	for _, v := range a {
		for _, w := range b {
			if fmt.Sprint(v) == fmt.Sprint(w) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func mergeConstraints(out *ir.Constraints, b ir.Constraints) {
	if b.Minimum != nil && (out.Minimum == nil || *b.Minimum > *out.Minimum ||
		(*b.Minimum == *out.Minimum && b.ExclusiveMinimum)) {
		out.Minimum, out.ExclusiveMinimum = b.Minimum, b.ExclusiveMinimum
	}
	if b.Maximum != nil && (out.Maximum == nil || *b.Maximum < *out.Maximum ||
		(*b.Maximum == *out.Maximum && b.ExclusiveMaximum)) {
		out.Maximum, out.ExclusiveMaximum = b.Maximum, b.ExclusiveMaximum
	}
	if b.MultipleOf != nil {
		out.MultipleOf = b.MultipleOf
	}
	out.MinLength = tighterMin(out.MinLength, b.MinLength)
	out.MaxLength = tighterMax(out.MaxLength, b.MaxLength)
	out.MinItems = tighterMin(out.MinItems, b.MinItems)
	out.MaxItems = tighterMax(out.MaxItems, b.MaxItems)
	out.MinProperties = tighterMin(out.MinProperties, b.MinProperties)
	out.MaxProperties = tighterMax(out.MaxProperties, b.MaxProperties)
	if b.Pattern != "" {
		out.Pattern = b.Pattern
	}
	out.UniqueItems = out.UniqueItems || b.UniqueItems
}

func tighterMin(a, b *int) *int {
	if b == nil || (a != nil && *a >= *b) {
		return a
	}
	return b
}

func tighterMax(a, b *int) *int {
	if b == nil || (a != nil && *a <= *b) {
		return a
	}
	return b
}

func mergeAnnotations(out, b *ir.Schema) {
	if b.Title != "" {
		out.Title = b.Title
	}
	if b.Description != "" {
		out.Description = b.Description
	}
	if b.Format != "" {
		out.Format = b.Format
	}
	if b.Example != nil {
		out.Example = b.Example
	}
	if b.Default != nil {
		out.Default = b.Default
	}
	out.Nullable = out.Nullable || b.Nullable
	out.ReadOnly = out.ReadOnly || b.ReadOnly
	out.WriteOnly = out.WriteOnly || b.WriteOnly
	out.Deprecated = out.Deprecated || b.Deprecated
}
