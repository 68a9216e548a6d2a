package ai

// GeneratedListing is a synthesized real-estate listing as a language model
// produces it, before validation admits it into the catalog. Field meanings
// match the catalog listing record; storage-managed fields (ID, vector,
// timestamps) are absent because generation does not own them.
type GeneratedListing struct {
	Title                   string
	Location                string
	Neighborhood            string
	Price                   float64
	SquareFeet              float64
	Bedrooms                int
	Bathrooms               int
	Amenities               []string
	Description             string
	NeighborhoodDescription string
}
