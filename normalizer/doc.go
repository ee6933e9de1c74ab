// Package normalizer turns every schema position of a resolved document into
// a canonical [ir.Schema] stored in an [ir.SchemaSet].
//
// Each schema becomes exactly one of five kinds: scalar, object, array, enum,
// or union. Schema ids are the JSON pointer of the producing position, so a
// $ref position is recorded as an alias of its target instead of a copy.
//
// # Conjunction
//
// allOf is merged, never preserved. Property sets are unioned, required sets
// are unioned, the tighter of two bounds wins, and integer narrows number.
// Sibling keywords of allOf are merged last. A property contributed by
// several members gets a synthetic merged node at
//
//	<schema id>/x-merged/properties/<name>
//
// Named members are recorded in Schema.Extends. allOf combined with oneOf or
// anyOf produces a union carrying the merged properties as its shared base.
// Members that contradict each other (string vs integer, object vs array,
// disjoint enums, minimum above maximum) produce an *oaserrors.SchemaError.
//
// # Cycles
//
// A reference reaching a schema that is still being normalized becomes a
// placeholder node of kind [ir.KindPlaceholder] whose Target is the real id.
// Callers follow placeholders lazily with [ir.SchemaSet.Resolve].
//
// Normalization is idempotent: normalizing the same graph twice yields equal
// schema sets.
package normalizer
