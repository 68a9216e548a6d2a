package prefs

import (
	"fmt"
	"strings"

	"github.com/poiesic/homematch/core"
)

// RawInput carries the unvalidated search form fields. Blank fields mean the
// user left them out.
type RawInput struct {
	SquareFeet    string
	City          string
	Budget        string
	Features      string
	Amenities     []string
	Neighborhoods []string
}

// Query sentence templates, rendered in a fixed order so identical input
// always produces an identical query string.
const (
	squareFeetTemplate    = "I want a house of around %s sq ft."
	cityTemplate          = "My preferred city is %s."
	budgetTemplate        = "My budget is around %s."
	featuresTemplate      = "I'm looking for features like: %s."
	amenitiesTemplate     = "I want amenities like: %s."
	neighborhoodsTemplate = "My preferred neighborhoods are: %s."
)

// defaultNumericPreference replaces preference numbers that fail to parse.
const defaultNumericPreference = 1000

// Normalize converts raw form input into the semantic query string used for
// retrieval and the structured preference record used for scoring.
//
// Blank fields are dropped entirely: they contribute no query sentence and
// leave the corresponding preference field unset, so scoring can tell "not
// supplied" apart from a real value. Query sentences keep the user's raw
// wording; the preference record carries the parsed numbers.
func (n *Normalizer) Normalize(input RawInput) (string, *core.UserPreferences) {
	var sentences []string
	p := &core.UserPreferences{}

	if v := strings.TrimSpace(input.SquareFeet); v != "" {
		sentences = append(sentences, fmt.Sprintf(squareFeetTemplate, v))
		p.SquareFeet = n.ParseFloat(v, defaultNumericPreference)
	}
	if v := strings.TrimSpace(input.City); v != "" {
		sentences = append(sentences, fmt.Sprintf(cityTemplate, v))
		p.City = v
	}
	if v := strings.TrimSpace(input.Budget); v != "" {
		sentences = append(sentences, fmt.Sprintf(budgetTemplate, v))
		p.Budget = n.ParseFloat(v, defaultNumericPreference)
	}
	if v := strings.TrimSpace(input.Features); v != "" {
		sentences = append(sentences, fmt.Sprintf(featuresTemplate, v))
		p.Features = v
	}
	if vals := trimNonEmpty(input.Amenities); len(vals) > 0 {
		sentences = append(sentences, fmt.Sprintf(amenitiesTemplate, strings.Join(vals, ", ")))
		p.Amenities = vals
	}
	if vals := trimNonEmpty(input.Neighborhoods); len(vals) > 0 {
		sentences = append(sentences, fmt.Sprintf(neighborhoodsTemplate, strings.Join(vals, ", ")))
		p.Neighborhoods = vals
	}

	return strings.Join(sentences, "\n"), p
}

// trimNonEmpty returns the trimmed, non-empty entries of values.
func trimNonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
