// Package resolver indexes a loaded document by canonical JSON pointer and
// resolves every internal $ref.
//
// Resolve walks the tree once, recording every node at its pointer ("#",
// "#/components/schemas/User", RFC 6901 escaping) and every mapping holding a
// string $ref as a [Reference] edge instead of inlining it. Each reference is
// then checked in document order:
//
//   - a non-local or missing target is dangling; all of them are collected
//     and returned together, each as an *oaserrors.DanglingReferenceError
//   - a target that is itself a $ref is followed; a chain that loops back on
//     itself is an alias cycle and resolves to a placeholder, not an error
//   - a reference is Cyclic when its target can reach, through references in
//     the target's own subtree, a node containing the reference
//
// The returned [Graph] is immutable and is returned even when references
// dangle.
package resolver
