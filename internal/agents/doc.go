// Package agents implements the four pipeline stages that turn an
// observation into knowledge graph writes.
//
//   - Proposer extracts a CandidateSet through the generation client and
//     caches it by observation fingerprint.
//   - Validator runs the schema, duplicate, referential and semantic checks
//     in that order and stops at the first rejection.
//   - Critic scores an approved set against recent graph context. It never
//     fails; errors produce a fixed degraded critique.
//   - Applier writes entities then relationships to the knowledge store and
//     pushes applied entities into the semantic index.
//
// Every stage is safe for concurrent use. Each keeps its own counters,
// exposed through a Metrics method, and reports to the shared
// observability instruments when configured with WithMetrics.
package agents
