// Package rerank orders retrieval candidates by preference fit.
//
// Semantic search finds listings that talk like the query; the reranker
// checks the numbers. Scoring is deterministic: a hard city filter, a base
// weight for surviving candidates, capped proximity terms for budget and
// size, and fixed bonuses for room-count and amenity matches. Sorting is
// stable, so ties keep their semantic-similarity order.
package rerank
