// Package memory implements the campaign memory store: durable, importance
// weighted entries with embedding-based similarity search and a soft-delete
// retention sweep. Similarity is computed in the application layer over the
// candidate rows rather than inside the store engine; a single campaign's
// memory set is small (bounded by the cleanup policy) so portability wins
// over scale here.
//
// InMemoryStore keeps everything in a process-local map. The sqlite
// subpackage provides a durable backend with the same semantics.
package memory
