// Package graphrag holds the Knowledge Store: the persistent graph of
// business entities and relationships the pipeline writes into.
//
// KnowledgeStore is the narrow contract the pipeline stages use. GraphStore
// implements it over a graph.GraphClient (Neo4j in production), MemoryStore
// keeps everything in process for tests and offline runs, and TracedStore
// adds OpenTelemetry spans around either.
//
// Writes are idempotent: entities are merged on id and relationships on
// (from, type, to), so re-applying a candidate set is harmless.
package graphrag
