package openai

import "fmt"

const generationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "listings": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {
            "type": "string"
          },
          "location": {
            "type": "string"
          },
          "neighborhood": {
            "type": "string"
          },
          "price": {
            "type": "number",
            "minimum": 50000
          },
          "square_feet": {
            "type": "number",
            "minimum": 200
          },
          "number_of_bedrooms": {
            "type": "integer",
            "minimum": 1,
            "maximum": 6
          },
          "number_of_bathrooms": {
            "type": "integer",
            "minimum": 1,
            "maximum": 4
          },
          "amenities": {
            "type": "array",
            "items": {
              "type": "string"
            }
          },
          "description": {
            "type": "string"
          },
          "neighborhood_description": {
            "type": "string"
          }
        },
        "required": ["title", "location", "neighborhood", "price", "square_feet", "number_of_bedrooms", "number_of_bathrooms", "amenities", "description", "neighborhood_description"],
        "additionalProperties": false
      }
    }
  },
  "required": ["listings"],
  "additionalProperties": false
}`

const generationPromptTemplate = `You write fictional but realistic residential real estate listings and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The location field must be exactly the city named in the request.
- price and square_feet are plain numbers with no currency symbols, units, or thousands separators.
- price must be plausible for the city, the size, and the bedroom count.
- amenities contains 2 to 5 short entries such as "Balcony", "Garage", or "Elevator".
- description is 2 to 4 sentences about the property itself.
- neighborhood_description is 1 to 2 sentences about the surrounding area.
- Vary titles, neighborhoods, sizes, and prices across listings; no two listings may share a title.
- If no listings can be produced, return "listings": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Generate 1 real estate listing in Berlin."
Output:
{
  "listings": [
    {
      "title": "Sunlit Altbau Apartment with Balcony",
      "location": "Berlin",
      "neighborhood": "Prenzlauer Berg",
      "price": 485000,
      "square_feet": 980,
      "number_of_bedrooms": 2,
      "number_of_bathrooms": 1,
      "amenities": ["Balcony", "Hardwood Floors", "Elevator"],
      "description": "This renovated apartment pairs period details with a modern open kitchen. Tall windows fill the living room with afternoon light, and the quiet courtyard keeps street noise away.",
      "neighborhood_description": "Prenzlauer Berg offers leafy streets, independent cafes, and quick tram connections to the city center."
    }
  ]
}`

// buildGenerationPrompt creates the system prompt with the response schema embedded.
func buildGenerationPrompt() string {
	return fmt.Sprintf(generationPromptTemplate, generationResponseSchema)
}
