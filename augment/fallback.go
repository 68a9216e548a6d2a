package augment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/homematch/core"
)

// refinePromptInstruction precedes the fallback description in the rewrite prompt.
const refinePromptInstruction = "Refine the following real estate listing description to sound more professional and appealing. Keep all the factual information intact:"

// neighborhoodFallbackTemplate stands in for a missing neighborhood description.
const neighborhoodFallbackTemplate = "The %s area is known for its charm, amenities, and accessibility."

// FallbackDescription deterministically assembles a complete description from
// the listing's structured fields and the preference query. It depends on no
// external service and is the text of last resort when the model rewrite fails.
func FallbackDescription(listing *core.Listing, query string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Welcome to this cozy %d-bedroom, %d-bathrooms home that could be perfect for your family in %s! ",
		listing.Bedrooms, listing.Bathrooms, listing.Location)
	fmt.Fprintf(&b, "It offers approximately %s square feet of living space, priced at $%s. ",
		strconv.FormatFloat(listing.SquareFeet, 'f', -1, 64), humanize.Comma(int64(listing.Price)))

	if desc := strings.TrimSpace(listing.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString(" ")
	}

	neighborhoodDesc := strings.TrimSpace(listing.NeighborhoodDescription)
	if neighborhoodDesc == "" && listing.Neighborhood != "" {
		neighborhoodDesc = fmt.Sprintf(neighborhoodFallbackTemplate, listing.Neighborhood)
	}
	if neighborhoodDesc != "" {
		b.WriteString(neighborhoodDesc)
		b.WriteString(" ")
	}

	fmt.Fprintf(&b, "This fits your preference for %s with the following amenities available:\n\n", query)
	for _, amenity := range listing.Amenities {
		fmt.Fprintf(&b, "- %s\n", amenity)
	}

	return b.String()
}

// buildPrompt wraps the fallback description in the rewrite instruction.
func buildPrompt(fallback string) string {
	return refinePromptInstruction + "\n\n" + fallback
}
