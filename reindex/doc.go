// Package reindex re-embeds the listing catalog, typically after an
// embedding model change.
//
// Listings are processed in insertion order, in batches, with progress
// reporting, bounded retries, and vector normalization. A checkpoint is
// saved after every batch so an interrupted run resumes where it stopped
// instead of starting over.
package reindex
