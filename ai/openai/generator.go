// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/prefs"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Square footage falls back to this when a generated value does not parse.
const defaultSquareFeet = 1000

// ListingGenerator implements ai.ListingGenerator using OpenAI-compatible chat APIs.
type ListingGenerator struct {
	client      llms.Model
	temperature float64
	norm        *prefs.Normalizer
	logger      *slog.Logger
}

// generatedListing is an internal type used for JSON unmarshaling.
// Numeric and amenity fields stay loosely typed because models drift between
// numbers, quoted numbers, and prose for the same field.
type generatedListing struct {
	Title                   string `json:"title"`
	Location                string `json:"location"`
	Neighborhood            string `json:"neighborhood"`
	Price                   any    `json:"price"`
	SquareFeet              any    `json:"square_feet"`
	Bedrooms                any    `json:"number_of_bedrooms"`
	Bathrooms               any    `json:"number_of_bathrooms"`
	Amenities               any    `json:"amenities"`
	Description             string `json:"description"`
	NeighborhoodDescription string `json:"neighborhood_description"`
}

// generation is the wrapper structure for the LLM's JSON response.
type generation struct {
	Listings []generatedListing `json:"listings"`
}

// newListingGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newListingGenerator(config *ai.Config) (*ListingGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-generator")
	return &ListingGenerator{
		client:      client,
		temperature: config.Temperature,
		norm:        prefs.NewNormalizer(prefs.WithLogger(logger)),
		logger:      logger,
	}, nil
}

// NewListingGenerator creates a new listing generator using the provided configuration.
//
// Returns ai.ListingGenerator interface to enforce abstraction.
func NewListingGenerator(config *ai.Config) (ai.ListingGenerator, error) {
	return newListingGenerator(config)
}

// GenerateListings asks the model for count listings set in city.
// Generated records are coerced into clean values: unparsable numbers are
// replaced with randomized defaults rather than rejected, and entries without
// a title are dropped.
func (g *ListingGenerator) GenerateListings(ctx context.Context, city string, count int) ([]ai.GeneratedListing, error) {
	if count <= 0 {
		return []ai.GeneratedListing{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildGenerationPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("Generate %d real estate listings in %s.", count, city)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result *generation
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model")
			return []ai.GeneratedListing{}, nil
		}

		result, err = parseGeneration(response.Choices[0].Content)
		if err != nil {
			lastErr = err
			g.logger.Warn("error parsing generation response",
				"attempt", attempt+1,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		g.logger.Error("failed to parse generation response after retries", "err", lastErr)
		return nil, lastErr
	}

	listings := make([]ai.GeneratedListing, 0, len(result.Listings))
	for _, raw := range result.Listings {
		if strings.TrimSpace(raw.Title) == "" {
			g.logger.Warn("skipping generated listing without title", "city", city)
			continue
		}
		listings = append(listings, g.coerce(city, raw))
	}

	g.logger.Debug("generated listings",
		"city", city,
		"requested", count,
		"produced", len(listings))
	return listings, nil
}

// parseGeneration decodes a model response into the wrapper structure,
// tolerating markdown code fences and common JSON defects.
func parseGeneration(responseText string) (*generation, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	responseText = repairJSON(responseText)

	var result generation
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// coerce converts a loosely typed generated record into clean values. The
// requested city overrides a blank location so every record stays findable
// by the city it was generated for.
func (g *ListingGenerator) coerce(city string, raw generatedListing) ai.GeneratedListing {
	location := strings.TrimSpace(raw.Location)
	if location == "" {
		location = city
	}

	return ai.GeneratedListing{
		Title:                   strings.TrimSpace(raw.Title),
		Location:                location,
		Neighborhood:            strings.TrimSpace(raw.Neighborhood),
		Price:                   g.norm.ParsePrice(numberString(raw.Price)),
		SquareFeet:              g.norm.ParseFloat(numberString(raw.SquareFeet), defaultSquareFeet),
		Bedrooms:                g.norm.ParseCount(numberString(raw.Bedrooms)),
		Bathrooms:               g.norm.ParseCount(numberString(raw.Bathrooms)),
		Amenities:               amenityList(raw.Amenities),
		Description:             strings.TrimSpace(raw.Description),
		NeighborhoodDescription: strings.TrimSpace(raw.NeighborhoodDescription),
	}
}

// numberString renders a decoded JSON value as a string suitable for the
// tolerant numeric parsers. Whole floats drop their fractional part so
// integer fields round-trip.
func numberString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		if n == math.Trunc(n) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}

// amenityList converts a decoded JSON value into an amenity slice. A bare
// string becomes a single-element list; anything else unrecognized is dropped.
func amenityList(v any) []string {
	switch a := v.(type) {
	case []any:
		out := make([]string, 0, len(a))
		for _, item := range a {
			s, ok := item.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		a = strings.TrimSpace(a)
		if a == "" {
			return nil
		}
		return []string{a}
	default:
		return nil
	}
}
