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


package rerank

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/homematch/core"
)

// DefaultTopN is the shortlist size when the caller does not specify one.
const DefaultTopN = 3

// Weights holds the scoring constants.
type Weights struct {
	// Base is granted to every candidate that passes the city filter.
	Base float64
	// BudgetCap bounds the budget proximity term.
	BudgetCap float64
	// SizeCap bounds the size proximity term.
	SizeCap float64
	// RoomMatch is granted per room count (bedrooms, bathrooms) mentioned in
	// the feature text.
	RoomMatch float64
	// AmenityMatch is granted per overlapping amenity.
	AmenityMatch float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Base:         5,
		BudgetCap:    3,
		SizeCap:      2,
		RoomMatch:    1,
		AmenityMatch: 0.5,
	}
}

// Reranker orders semantic-search candidates by how well they fit the user's
// structured preferences.
type Reranker struct {
	weights        Weights
	keepZeroScored bool
	logger         *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker)

// WithWeights overrides the scoring weights.
func WithWeights(w Weights) Option {
	return func(r *Reranker) {
		r.weights = w
	}
}

// WithZeroScored keeps zero-scored candidates in the shortlist instead of
// dropping them. A zero score marks a candidate that failed the city filter;
// such candidates are excluded by default.
func WithZeroScored(keep bool) Option {
	return func(r *Reranker) {
		r.keepZeroScored = keep
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewReranker creates a reranker with the default weights.
func NewReranker(opts ...Option) *Reranker {
	r := &Reranker{
		weights: DefaultWeights(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rerank scores every candidate against the preferences and returns the best
// topN, highest score first. Candidates arrive in semantic-similarity order
// and the sort is stable, so equal scores keep that order. topN <= 0 selects
// DefaultTopN. An empty candidate slice yields an empty shortlist; so can a
// candidate set where nothing survives the city filter. Neither is an error.
func (r *Reranker) Rerank(candidates []*core.Listing, p *core.UserPreferences, topN int) []core.ScoredListing {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if p == nil {
		p = &core.UserPreferences{}
	}

	scored := make([]core.ScoredListing, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		scored = append(scored, core.ScoredListing{
			Listing: candidate,
			Score:   r.Score(candidate, p),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if !r.keepZeroScored {
		// Scores are non-negative and sorted descending, so the zero-scored
		// tail starts at the first zero.
		keep := len(scored)
		for i, sl := range scored {
			if sl.Score == 0 {
				keep = i
				break
			}
		}
		if keep < len(scored) {
			r.logger.Debug("dropping zero-scored candidates", "dropped", len(scored)-keep)
			scored = scored[:keep]
		}
	}

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

// Score computes the preference-fit score for a single candidate. It is a
// pure function of its inputs.
//
// A candidate in the wrong city is disqualified outright (score 0, no other
// term applies). Survivors start from the base weight and accumulate budget
// proximity, size proximity, room-count mentions, and amenity overlap.
// Unsupplied preference fields contribute nothing.
func (r *Reranker) Score(l *core.Listing, p *core.UserPreferences) float64 {
	if p.City != "" && !strings.EqualFold(l.Location, p.City) {
		return 0
	}

	score := r.weights.Base

	// Proximity terms peak at an exact match and fade with relative distance.
	if p.Budget > 0 && l.Price > 0 {
		score += math.Max(0, r.weights.BudgetCap-math.Abs(p.Budget-l.Price)/p.Budget)
	}
	if p.SquareFeet > 0 && l.SquareFeet > 0 {
		score += math.Max(0, r.weights.SizeCap-math.Abs(p.SquareFeet-l.SquareFeet)/p.SquareFeet)
	}

	// A room count is a match when it appears verbatim in the feature text
	// ("3 bedrooms" matches a 3-bedroom listing). Bedrooms and bathrooms
	// count independently.
	if strings.Contains(p.Features, strconv.Itoa(l.Bedrooms)) {
		score += r.weights.RoomMatch
	}
	if strings.Contains(p.Features, strconv.Itoa(l.Bathrooms)) {
		score += r.weights.RoomMatch
	}

	// Amenity overlap uses set semantics: duplicates count once.
	if len(p.Amenities) > 0 && len(l.Amenities) > 0 {
		offered := make(map[string]bool, len(l.Amenities))
		for _, a := range l.Amenities {
			offered[a] = true
		}
		overlap := make(map[string]bool)
		for _, a := range p.Amenities {
			if offered[a] {
				overlap[a] = true
			}
		}
		score += float64(len(overlap)) * r.weights.AmenityMatch
	}

	return score
}
