/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package outline turns a markdown-ish text outline into deck slides.
// It exists so a carousel can be drafted in any text editor and imported:
// one heading per slide, bullets underneath as body lines.
package outline

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"carouselstudio/internal/domain"
)

// Outline is the parsed structure of an outline text.
type Outline struct {
	Slides []SlideDraft
}

// SlideDraft is one planned slide: a title and its body lines.
type SlideDraft struct {
	Title   string
	Bullets []string
	LineNo  int // 1-based line of the heading in the source
}

// Error represents a parse problem with position context. Parsing never
// fails hard; problems are reported alongside the best-effort result.
type Error struct {
	Line    int
	Message string
}

// Parse parses an outline text into slide drafts.
// Supported syntax (minimal):
//   - Slide headings: lines starting with "#" start a new slide; the rest of
//     the line is the title.
//   - Bullets: lines starting with "-" or "*" add a body line to the current
//     slide. Continuation lines indented by 2+ spaces are appended to the
//     previous bullet.
//   - Notes: lines starting with ';' are author notes and ignored.
//   - Any other non-blank line becomes a body line of the current slide.
//
// Text before the first heading opens an implicit "Untitled" slide. Headings
// beyond the deck maximum are dropped and reported as errors.
func Parse(input string) (Outline, []Error) {
	o := Outline{Slides: []SlideDraft{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	current := SlideDraft{LineNo: 1}
	started := false
	overflowing := false

	reHeading := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reBullet := regexp.MustCompile(`^[-*]\s+(.*)$`)

	// flush consumes the started flag so a draft is appended at most once.
	flush := func() {
		if !started {
			return
		}
		started = false
		if strings.TrimSpace(current.Title) == "" && len(current.Bullets) == 0 {
			return
		}
		o.Slides = append(o.Slides, current)
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimRight(raw, "\r\n")

		// Continuation line (indented) -> append to last bullet
		if strings.HasPrefix(line, "  ") && started && !overflowing && len(current.Bullets) > 0 {
			cont := strings.TrimSpace(line)
			if cont != "" {
				last := len(current.Bullets) - 1
				current.Bullets[last] += " " + cont
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			continue
		}

		// Note line
		if strings.HasPrefix(trim, ";") {
			continue
		}

		// Slide heading
		if m := reHeading.FindStringSubmatch(trim); m != nil {
			flush()
			if len(o.Slides) >= domain.MaxSlides {
				overflowing = true
				errs = append(errs, Error{Line: lineNo, Message: fmt.Sprintf("slide limit of %d reached, heading dropped", domain.MaxSlides)})
				continue
			}
			overflowing = false
			current = SlideDraft{Title: strings.TrimSpace(m[2]), LineNo: lineNo}
			started = true
			continue
		}

		if overflowing {
			// Body lines of a dropped heading go with it.
			continue
		}

		// Bullet
		if m := reBullet.FindStringSubmatch(trim); m != nil {
			if !started {
				current = SlideDraft{Title: "Untitled", LineNo: lineNo}
				started = true
			}
			current.Bullets = append(current.Bullets, strings.TrimSpace(m[1]))
			continue
		}

		// Plain text: body line of the current (possibly implicit) slide
		if !started {
			current = SlideDraft{Title: "Untitled", LineNo: lineNo}
			started = true
		}
		current.Bullets = append(current.Bullets, trim)
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Message: err.Error()})
	}
	return o, errs
}

// Slide layout constants for imported decks, sized against the square page.
const (
	importMarginPt    = 64
	importTitleTopPt  = 140
	importTitleSizePt = 40
	importBodyTopPt   = 260
	importBodySizePt  = 20
	importBodyStepPt  = 64
	importWidthPt     = 484
)

// Deck materializes the outline into a named deck: each slide draft becomes
// a slide with a title text element and one body element per bullet.
func (o Outline) Deck(name string) domain.Deck {
	slides := make([]domain.Slide, 0, len(o.Slides))
	for i, draft := range o.Slides {
		if i >= domain.MaxSlides {
			break
		}
		sl := domain.NewSlide()
		sl.Order = i

		title := domain.TextElement(draft.Title, importMarginPt, importTitleTopPt)
		title.Width = importWidthPt
		title.Height = 100
		title.FontSize = importTitleSizePt
		title.FontWeight = "bold"
		sl.Elements = append(sl.Elements, title)

		for j, bullet := range draft.Bullets {
			body := domain.TextElement(bullet, importMarginPt, float64(importBodyTopPt+j*importBodyStepPt))
			body.Width = importWidthPt
			body.Height = 56
			body.FontSize = importBodySizePt
			sl.Elements = append(sl.Elements, body)
		}
		slides = append(slides, sl)
	}
	return domain.Deck{Name: name, Slides: slides}
}
