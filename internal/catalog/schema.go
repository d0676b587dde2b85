/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// descriptorSchemaJSON pins the shape of a template descriptor document.
// Semantic rules (trimmed name, known style, slide cap) stay in the
// decoder where they can name the offending value; the schema only
// rejects documents whose structure the decoder could misread.
const descriptorSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Template descriptor",
  "type": "object",
  "required": ["name", "slides"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "style": {"type": "string"},
    "slides": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "properties": {
          "background": {"type": "string"},
          "elements": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type"],
              "properties": {
                "type": {"type": "string", "enum": ["text", "shape", "image"]},
                "x": {"type": "number"},
                "y": {"type": "number"},
                "width": {"type": "number"},
                "height": {"type": "number"},
                "rotation": {"type": "number"}
              }
            }
          }
        }
      }
    }
  }
}`

var descriptorSchema = gojsonschema.NewStringLoader(descriptorSchemaJSON)

// validateDescriptor checks a raw descriptor document against the schema.
// The YAML is decoded generically and re-encoded as JSON for the
// validator; yaml.v3 accepts JSON input, so wire payloads take the same
// path as files.
func validateDescriptor(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse descriptor: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize descriptor: %w", err)
	}
	result, err := gojsonschema.Validate(descriptorSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("descriptor schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
