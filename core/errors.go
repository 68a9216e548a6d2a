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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidListing indicates a Listing failed validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyLocation indicates the Location field is empty.
	ErrEmptyLocation = errors.New("location cannot be empty")

	// ErrNegativePrice indicates the Price field is negative.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativeSquareFeet indicates the SquareFeet field is negative.
	ErrNegativeSquareFeet = errors.New("square feet cannot be negative")

	// ErrNegativeRoomCount indicates a bedroom or bathroom count is negative.
	ErrNegativeRoomCount = errors.New("room count cannot be negative")
)
