// Package operations compiles every path × method pair of a resolved
// document into an [ir.Operation].
//
// Paths are visited in document order and methods in the order they appear
// in each path item. Path-item parameters apply to every method; a method
// parameter with the same name and location replaces the path-item one while
// keeping its position. Path parameters are always required.
//
// Every path template is checked against the declared path parameters: a
// {name} without a parameter, a path parameter missing from the template, and
// a name repeated in the template each produce an *oaserrors.OperationError.
// All mismatches are collected.
//
// Schema ids for parameters, request bodies, responses, and headers are
// looked up in the arena built by the normalizer. An operation-level security
// list, even an empty one, replaces the document-level list.
package operations
