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


// Package prefs converts raw search input into a semantic query string and a
// structured preference record.
//
// Numeric fields arrive as free-form text with currency symbols, thousands
// separators, and typos. The Normalizer recovers what it can and substitutes
// logged defaults for the rest, so malformed input never aborts a search.
// Randomized defaults (prices, room counts) draw from an injectable random
// source to keep tests deterministic.
package prefs
