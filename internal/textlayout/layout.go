/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Greedy word wrapping against real glyph metrics. The measuring side is
// abstracted behind Measurer so the same algorithm serves both the PDF
// exporter (gofpdf string widths in points) and the raster preview
// (x/image font faces in pixels).

import "strings"

// DefaultLineHeight is the line-height multiple applied to the font size
// when stacking wrapped lines into a block.
const DefaultLineHeight = 1.25

// Measurer reports the rendered width of a string in the active font and
// size. Units are whatever the caller draws in.
type Measurer interface {
	Width(s string) float64
}

// MeasureFunc adapts a plain function to the Measurer interface.
type MeasureFunc func(s string) float64

func (f MeasureFunc) Width(s string) float64 { return f(s) }

// Wrap splits text into lines no wider than maxWidth. Words accumulate
// greedily; a word that does not fit moves to the next line, and a single
// word wider than maxWidth stands alone on its own line without being
// broken mid-word. Runs of whitespace collapse to single spaces. Empty or
// all-whitespace text yields no lines.
func Wrap(text string, maxWidth float64, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		cand := cur + " " + w
		if m.Width(cand) <= maxWidth {
			cur = cand
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

// BlockHeight returns the vertical extent of n wrapped lines at the given
// font size. A non-positive lineHeight falls back to DefaultLineHeight.
// Callers center variable-height title blocks with this before drawing.
func BlockHeight(n int, sizePt, lineHeight float64) float64 {
	if lineHeight <= 0 {
		lineHeight = DefaultLineHeight
	}
	return float64(n) * sizePt * lineHeight
}

// MaxLineWidth measures the widest of the given lines.
func MaxLineWidth(lines []string, m Measurer) float64 {
	var widest float64
	for _, ln := range lines {
		if w := m.Width(ln); w > widest {
			widest = w
		}
	}
	return widest
}
