/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// slidesSchemaJSON is the structural contract for a persisted slide array.
// Drafts and deck files that fail it are treated as absent rather than
// restored, so the schema stays deliberately loose: it pins the shape and the
// discriminators, not every optional styling field.
const slidesSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Carousel slide array",
  "type": "array",
  "minItems": 1,
  "maxItems": 10,
  "items": {
    "type": "object",
    "required": ["id", "elements", "backgroundColor", "order"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "backgroundColor": {"type": "string"},
      "order": {"type": "integer", "minimum": 0},
      "elements": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["id", "type", "x", "y", "width", "height"],
          "properties": {
            "id": {"type": "string", "minLength": 1},
            "type": {"type": "string", "enum": ["text", "shape", "image"]},
            "x": {"type": "number"},
            "y": {"type": "number"},
            "width": {"type": "number"},
            "height": {"type": "number"}
          }
        }
      }
    }
  }
}`

var slidesSchema = gojsonschema.NewStringLoader(slidesSchemaJSON)

// ValidateSlidesJSON checks raw JSON against the slide array schema.
// A nil return means the document is a structurally sound non-empty deck.
func ValidateSlidesJSON(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty document")
	}
	result, err := gojsonschema.Validate(slidesSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}
	return nil
}
