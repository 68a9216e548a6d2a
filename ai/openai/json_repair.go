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

// repairJSON attempts to fix common JSON formatting issues from LLM responses:
// missing opening quotes before object keys, and trailing commas before a
// closing brace or bracket. Models asked for arrays of objects produce both.
func repairJSON(s string) string {
	s = fixUnquotedKeys(s)
	return stripTrailingCommas(s)
}

// fixUnquotedKeys restores missing opening quotes before keys in JSON objects.
// Pattern: after { or , followed by optional whitespace, then a word followed by ":
// Example: `, type":` -> `, "type":`
func fixUnquotedKeys(s string) string {
	result := []rune(s)
	fixed := make([]rune, 0, len(result)+100)

	i := 0
	for i < len(result) {
		ch := result[i]

		// After { or , look for unquoted keys
		if ch == '{' || ch == ',' {
			fixed = append(fixed, ch)
			i++

			// Skip whitespace
			for i < len(result) && (result[i] == ' ' || result[i] == '\n' || result[i] == '\t') {
				fixed = append(fixed, result[i])
				i++
			}

			// Check if we have an unquoted key (starts with letter, not with quote)
			if i < len(result) && result[i] != '"' && isLetter(result[i]) {
				keyStart := i
				// Find the end of the key name
				for i < len(result) && (isLetter(result[i]) || result[i] == '_' || result[i] == ' ') {
					i++
				}
				keyEnd := i

				// Check if this is followed by ": which indicates a missing opening quote
				if i+1 < len(result) && result[i] == '"' && result[i+1] == ':' {
					// Add opening quote, key, keep closing quote
					fixed = append(fixed, '"')
					for j := keyStart; j < keyEnd; j++ {
						if result[j] != ' ' || (j > keyStart && j < keyEnd-1) {
							fixed = append(fixed, result[j])
						}
					}
					// Don't add closing quote - it's already there at result[i]
					continue
				} else {
					// Not an unquoted key, just copy what we skipped
					for j := keyStart; j < i; j++ {
						fixed = append(fixed, result[j])
					}
				}
			}
		} else {
			fixed = append(fixed, ch)
			i++
		}
	}

	return string(fixed)
}

// stripTrailingCommas removes commas that directly precede a closing brace or
// bracket, outside of string literals.
// Example: `["Balcony", "Garage",]` -> `["Balcony", "Garage"]`
func stripTrailingCommas(s string) string {
	result := []rune(s)
	fixed := make([]rune, 0, len(result))

	inString := false
	escaped := false
	for i := 0; i < len(result); i++ {
		ch := result[i]

		if inString {
			fixed = append(fixed, ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			fixed = append(fixed, ch)
			continue
		}

		if ch == ',' {
			// Look past whitespace for a closer
			j := i + 1
			for j < len(result) && (result[j] == ' ' || result[j] == '\n' || result[j] == '\t') {
				j++
			}
			if j < len(result) && (result[j] == '}' || result[j] == ']') {
				// Drop the comma, keep the whitespace
				continue
			}
		}

		fixed = append(fixed, ch)
	}

	return string(fixed)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
