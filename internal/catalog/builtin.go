/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import "carouselstudio/internal/domain"

// Builtin returns the starter templates shipped with the application, one
// per render style. Each call builds a fresh copy, so callers may mutate
// the result freely. Ids here are template identities; slide and element
// ids are regenerated again when a template is applied to a document.
func Builtin() []domain.Template {
	return []domain.Template{
		boldLaunch(),
		minimalNotes(),
		dataBrief(),
		storyArc(),
	}
}

// Geometry below targets the square 612x612pt page; the renderer re-lays
// text per style anyway, so the same templates work on portrait and
// landscape pages.

func titleAnd(body string, title string) []domain.Element {
	t := domain.TextElement(title, 64, 140)
	t.Width = 484
	t.Height = 100
	t.FontSize = 40
	t.FontWeight = "bold"
	b := domain.TextElement(body, 64, 260)
	b.Width = 484
	b.Height = 180
	b.FontSize = 20
	return []domain.Element{t, b}
}

func slideOf(order int, elements ...domain.Element) domain.Slide {
	sl := domain.NewSlide()
	sl.Order = order
	sl.Elements = append(sl.Elements, elements...)
	return sl
}

func boldLaunch() domain.Template {
	s1 := slideOf(0, titleAnd("One line that earns the swipe to the next slide.", "The big reveal")...)
	s2 := slideOf(1, titleAnd("Say what changes for the reader. Keep it to two short sentences.", "Why it matters")...)
	s3 := slideOf(2, titleAnd("Tell people exactly what to do next. Link in bio.", "Get in early")...)
	return domain.Template{
		ID:            "bold-launch",
		Name:          "Launch announcement",
		Style:         "bold",
		DefaultSlides: []domain.Slide{s1, s2, s3},
	}
}

func minimalNotes() domain.Template {
	s1 := slideOf(0, titleAnd("Start with the smallest version of the idea that still works.", "A quiet idea")...)
	s2 := slideOf(1, titleAnd("One claim per slide. Cut everything that competes with it.", "One thing at a time")...)
	s3 := slideOf(2, titleAnd("Close with the takeaway you want quoted back at you.", "Keep what works")...)
	return domain.Template{
		ID:            "minimal-notes",
		Name:          "Field notes",
		Style:         "minimalist",
		DefaultSlides: []domain.Slide{s1, s2, s3},
	}
}

func dataBrief() domain.Template {
	s1 := slideOf(0, titleAnd("Three numbers, three slides. No chart junk.", "This week in numbers")...)

	// Hand-placed bars under the headline; the renderer draws shapes on the
	// raster preview, the PDF styles carry the big page number instead.
	bars := []domain.Element{
		domain.ShapeElement("rect", "#3B82F6", 84, 420, 72, 60),
		domain.ShapeElement("rect", "#3B82F6", 180, 380, 72, 100),
		domain.ShapeElement("rect", "#F59E0B", 276, 330, 72, 150),
	}
	s2 := slideOf(1, append(titleAnd("Name the metric, the delta, and the week it moved.", "Up and to the right"), bars...)...)
	s3 := slideOf(2, titleAnd("End on the decision the numbers point to.", "What we do next")...)
	return domain.Template{
		ID:            "data-brief",
		Name:          "Numbers brief",
		Style:         "data",
		DefaultSlides: []domain.Slide{s1, s2, s3},
	}
}

func storyArc() domain.Template {
	s1 := slideOf(0, titleAnd("Open on the moment the problem became personal.", "Act one: the itch")...)
	s2 := slideOf(1, titleAnd("Show the failed attempts. This is where readers recognize themselves.", "Act two: the mess")...)
	s3 := slideOf(2, titleAnd("Land the turn, then hand the reader the first step.", "Act three: the turn")...)
	return domain.Template{
		ID:            "story-arc",
		Name:          "Three act teaser",
		Style:         "story",
		DefaultSlides: []domain.Slide{s1, s2, s3},
	}
}
