// Package pipeline wires the retrieval stages into a single match operation.
//
// A match run over the listing catalog:
//   - Normalizes raw form input into a semantic query and a preference record
//   - Retrieves candidate listings by embedding similarity
//   - Reranks the candidates against the structured preferences
//   - Rewrites each shortlisted description with the language model
//
// Description rewrites run concurrently on a worker pool and preserve the
// shortlist order. A rewrite that fails degrades to a deterministic fallback
// description, so an unreachable language model can never fail a match run.
package pipeline
