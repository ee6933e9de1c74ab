// Package ir defines the intermediate representation produced by the
// compiler: a read-only, generator-agnostic graph of normalized schemas,
// inferred entity relationships, compiled operations, and a validation report.
//
// # Schema arena
//
// Every schema lives once in a [SchemaSet], keyed by the JSON pointer of the
// position that produced it. Schemas refer to each other only by id. A $ref
// position is recorded as an alias to its target's id rather than as a copy,
// and a cycle is broken by a [KindPlaceholder] node whose Target names the
// real schema. [SchemaSet.Resolve] follows placeholders:
//
//	pet, _ := model.Entity("Pet")
//	ownerID, _ := pet.Property("owner")
//	owner, _ := model.Schemas.Resolve(ownerID)
//
// # Immutability
//
// A [Model] is never modified after compilation. Generators that need a
// derived, mutable view call [Model.Copy].
package ir
