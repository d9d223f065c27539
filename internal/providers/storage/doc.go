// Package storage provides the durable key-value slot the studio snapshot is
// written to.
//
// File keeps one file per key and replaces it atomically on every write.
// Memory is its in-process counterpart for tests. Both treat values as
// opaque bytes; encoding is the caller's concern.
package storage
