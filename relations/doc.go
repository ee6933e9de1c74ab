// Package relations infers relationships between entities (component object
// schemas) for persistence-model generation.
//
// Inference is a heuristic and never fails. Its output is a generation aid,
// not a source of truth for foreign-key constraints:
//
//   - A.p (array of B) paired with B.q (array of A) collapses into one
//     many-to-many edge from the entity declared first. Two independent
//     one-to-many relationships that happen to look like this are collapsed
//     too.
//   - Any other array of B is a one-to-many edge. If B holds exactly one
//     single reference back to A, that property becomes the edge's
//     InverseProperty instead of a separate edge.
//   - Remaining single references are one-to-one edges.
//   - A string or integer property named after another entity ("ownerId",
//     "owner_id") yields a one-to-one edge with Source "naming" when no
//     reference edge joins the pair.
//
// Edges are ordered by the declaring entity, then by property.
package relations
