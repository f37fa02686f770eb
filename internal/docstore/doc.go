// Package docstore implements table CRUD over a single stored JSON document.
//
// # Read-modify-write
//
// Every operation reads the whole document, parses it, mutates the target
// table in memory, serializes the document, and writes it back. Nothing is
// cached between operations.
//
// # Concurrency
//
// Each [Store] owns one [serial.Serializer]. An operation is one task on it,
// so at most one read-modify-write cycle is in flight per Store and cycles
// run in call order. Two Stores must not point at the same document; two
// Stores on different documents never wait on each other.
//
// # Errors
//
// Argument errors are returned synchronously without queueing. Missing rows
// are errors for GetByID and UpdateByID but not for GetAll and RemoveByID.
// A stored document that does not parse is never overwritten; every
// operation fails with [types.ErrCorruptDocument] until it is repaired.
package docstore
