// Package index builds and extends the listing catalog.
//
// The Indexer type embeds listings into vector space and stores them,
// optionally synthesizing new listings through a generation model first.
// Embedding runs in batches with bounded retries. Listings are content
// addressed, so indexing the same listing twice is a no-op.
//
// The package also reads and writes the catalog CSV interchange format,
// recovering from malformed numeric cells and serialized amenity lists
// instead of rejecting rows.
package index
