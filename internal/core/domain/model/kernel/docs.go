// Package kernel holds the primitives shared by every aggregate of the
// fulfillment domain: identifiers, workflow roles and the acting identity.
//
//   - UUID: identifier value object backed by github.com/google/uuid
//   - Role: the workflow stage an actor works in (sales, assistant, finance, ...)
//   - Actor: who performs an operation, with the administrative flag
//
// Values are immutable and safe for concurrent use.
package kernel
