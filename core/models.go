package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Listing represents a single real-estate listing in the catalog.
// It may be enriched with an embedding vector during indexing.
type Listing struct {
	Id                      ID
	Title                   string
	Location                string // City the property is in
	Neighborhood            string
	Price                   float64
	SquareFeet              float64
	Bedrooms                int
	Bathrooms               int
	Amenities               []string
	Description             string
	NeighborhoodDescription string
	Vector                  []float32 // Embedding vector for semantic search (populated by the indexer)
	InsertedAt              time.Time // When the listing was inserted into the catalog
	UpdatedAt               time.Time // When the listing was last updated
}

// ContentKey returns the string identity of a listing as "Title|Location|Description".
// This is used for generating deterministic IDs, so indexing the same listing
// twice overwrites the earlier record instead of duplicating it.
func (l *Listing) ContentKey() string {
	return l.Title + "|" + l.Location + "|" + l.Description
}

// DocumentText renders the listing as the natural-language document that gets
// embedded into vector space. Indexing and re-embedding must both use this
// rendering; otherwise stored vectors drift away from query vectors.
func (l *Listing) DocumentText() string {
	var b strings.Builder
	b.WriteString(l.Title)
	b.WriteString(". ")
	b.WriteString(l.Location)
	if l.Neighborhood != "" {
		b.WriteString(", ")
		b.WriteString(l.Neighborhood)
	}
	b.WriteString(". ")
	fmt.Fprintf(&b, "%d bedrooms, %d bathrooms, %.0f square feet, priced at $%.0f.",
		l.Bedrooms, l.Bathrooms, l.SquareFeet, l.Price)
	if len(l.Amenities) > 0 {
		b.WriteString(" Amenities: ")
		b.WriteString(strings.Join(l.Amenities, ", "))
		b.WriteString(".")
	}
	if l.Description != "" {
		b.WriteString(" ")
		b.WriteString(l.Description)
	}
	if l.NeighborhoodDescription != "" {
		b.WriteString(" ")
		b.WriteString(l.NeighborhoodDescription)
	}
	return b.String()
}

// UserPreferences holds the structured preferences extracted from raw search
// input. A zero-valued field means the user did not supply it; scoring treats
// unsupplied fields as absent, never as literal zeroes.
type UserPreferences struct {
	SquareFeet    float64
	City          string
	Budget        float64
	Features      string
	Amenities     []string
	Neighborhoods []string
}

// ScoredListing pairs a listing with its preference-fit score. Scores are
// transient ranking artifacts; ordering is the only meaningful relationship
// between them.
type ScoredListing struct {
	Listing *Listing
	Score   float64
}

// SearchResult represents a search result with the full listing and relevance score.
type SearchResult struct {
	Listing *Listing
	Score   float32
}

// Checkpoint records how far a long-running maintenance job has progressed
// so an interrupted run can resume instead of starting over.
type Checkpoint struct {
	ProcessorType string    // Job identifier, e.g. "reindex"
	ResumeFrom    time.Time // Insertion time of the last listing processed
	UpdatedAt     time.Time
}
