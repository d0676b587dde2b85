/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strings"
)

// Style selects one of the built-in template looks. Each style owns its
// typography, chrome and footer treatment.
type Style string

const (
	StyleBold       Style = "bold"
	StyleMinimalist Style = "minimalist"
	StyleData       Style = "data"
	StyleStory      Style = "story"
)

// Styles lists all known styles in presentation order.
func Styles() []Style {
	return []Style{StyleBold, StyleMinimalist, StyleData, StyleStory}
}

// ParseStyle maps a user-supplied name to a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleBold:
		return StyleBold, nil
	case StyleMinimalist:
		return StyleMinimalist, nil
	case StyleData:
		return StyleData, nil
	case StyleStory:
		return StyleStory, nil
	}
	return "", fmt.Errorf("unknown template style %q", s)
}

// PageFormat selects the page geometry of the exported document.
type PageFormat string

const (
	FormatSquare    PageFormat = "square"
	FormatPortrait  PageFormat = "portrait"
	FormatLandscape PageFormat = "landscape"
)

// ParseFormat maps a user-supplied name to a PageFormat.
func ParseFormat(s string) (PageFormat, error) {
	switch PageFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSquare:
		return FormatSquare, nil
	case FormatPortrait:
		return FormatPortrait, nil
	case FormatLandscape:
		return FormatLandscape, nil
	}
	return "", fmt.Errorf("unknown page format %q", s)
}

// Size returns the page dimensions in points. Unknown formats fall back
// to square.
func (f PageFormat) Size() (w, h float64) {
	switch f {
	case FormatPortrait:
		return 612, 792
	case FormatLandscape:
		return 792, 612
	default:
		return 612, 612
	}
}

// ValidationError reports an export request that cannot be rendered, such
// as an empty deck. It is surfaced to the caller; the export does not
// proceed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "export validation: " + e.Reason }
