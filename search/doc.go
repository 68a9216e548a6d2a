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


// Package search provides semantic retrieval over the listing catalog.
//
// The Searcher embeds a query with the configured embedding model and scans
// the catalog for the k listings whose stored vectors are closest by cosine
// similarity. Retrieval is deliberately broad; preference-based ordering and
// filtering happen downstream in the rerank package.
//
// A search that finds nothing returns an empty slice, not an error. Failures
// to reach the embedding service or the catalog wrap ErrRetrievalUnavailable
// so callers can tell an unavailable backend from an empty catalog.
package search
