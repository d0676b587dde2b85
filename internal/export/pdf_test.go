/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"carouselstudio/internal/domain"
)

func titledSlide(title string, order int) domain.Slide {
	sl := domain.NewSlide()
	sl.Order = order
	sl.Elements = append(sl.Elements, domain.TextElement(title, 60, 80))
	return sl
}

func brand() domain.BrandKit {
	return domain.BrandKit{PrimaryColor: "#1E3A8A", SecondaryColor: "#F59E0B"}
}

func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page\n"))
}

func TestRenderDeckPDF_TwoBoldSquarePages(t *testing.T) {
	slides := []domain.Slide{titledSlide("Welcome", 0), titledSlide("Key Points", 1)}
	data, err := RenderDeckPDF(slides, brand(), StyleBold, FormatSquare)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
	if got := pageCount(data); got != 2 {
		t.Fatalf("expected exactly 2 pages, got %d", got)
	}
	if !bytes.Contains(data, []byte("/MediaBox [0 0 612.00 612.00]")) {
		t.Fatalf("expected 612x612pt square pages")
	}
}

func TestRenderDeckPDF_PageGeometries(t *testing.T) {
	slides := []domain.Slide{titledSlide("One", 0)}
	cases := []struct {
		format PageFormat
		box    string
	}{
		{FormatSquare, "/MediaBox [0 0 612.00 612.00]"},
		{FormatPortrait, "/MediaBox [0 0 612.00 792.00]"},
		{FormatLandscape, "/MediaBox [0 0 792.00 612.00]"},
	}
	for _, c := range cases {
		data, err := RenderDeckPDF(slides, brand(), StyleMinimalist, c.format)
		if err != nil {
			t.Fatalf("render %s: %v", c.format, err)
		}
		if !bytes.Contains(data, []byte(c.box)) {
			t.Fatalf("format %s: missing %s", c.format, c.box)
		}
	}
}

func TestRenderDeckPDF_EmptyDeckIsValidationError(t *testing.T) {
	_, err := RenderDeckPDF(nil, brand(), StyleBold, FormatSquare)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRenderDeckPDF_UnknownStyleIsValidationError(t *testing.T) {
	_, err := RenderDeckPDF([]domain.Slide{titledSlide("x", 0)}, brand(), Style("neon"), FormatSquare)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRenderDeckPDF_AllStylesProduceOutput(t *testing.T) {
	slides := []domain.Slide{titledSlide("Style Check", 0)}
	slides[0].Elements = append(slides[0].Elements, domain.TextElement("supporting body copy that should wrap across a couple of lines", 60, 200))
	for _, st := range Styles() {
		data, err := RenderDeckPDF(slides, brand(), st, FormatPortrait)
		if err != nil {
			t.Fatalf("style %s: %v", st, err)
		}
		if len(data) == 0 {
			t.Fatalf("style %s: empty output", st)
		}
	}
}

func TestRenderDeckPDF_StoryRegistersOpacity(t *testing.T) {
	slides := []domain.Slide{titledSlide("Layered", 0)}
	story, err := RenderDeckPDF(slides, brand(), StyleStory, FormatSquare)
	if err != nil {
		t.Fatalf("render story: %v", err)
	}
	if !bytes.Contains(story, []byte("ExtGState")) {
		t.Fatalf("story style should register alpha graphics states")
	}
	bold, err := RenderDeckPDF(slides, brand(), StyleBold, FormatSquare)
	if err != nil {
		t.Fatalf("render bold: %v", err)
	}
	if bytes.Contains(bold, []byte("ExtGState")) {
		t.Fatalf("bold style should not need alpha graphics states")
	}
}

func TestRenderDeckPDF_SortsByOrderStably(t *testing.T) {
	// Array order deliberately disagrees with the order field; rendering
	// must not mutate the caller's slice.
	slides := []domain.Slide{titledSlide("Second", 1), titledSlide("First", 0)}
	if _, err := RenderDeckPDF(slides, brand(), StyleBold, FormatSquare); err != nil {
		t.Fatalf("render: %v", err)
	}
	if slides[0].Order != 1 || slides[1].Order != 0 {
		t.Fatalf("caller slice order changed: %d,%d", slides[0].Order, slides[1].Order)
	}
}

func TestFooterLabelPerStyle(t *testing.T) {
	if got := footerLabel(StyleBold, 1, 2); got != "1 / 2" {
		t.Fatalf("bold footer: %q", got)
	}
	if got := footerLabel(StyleData, 2, 2); got != "2 / 2" {
		t.Fatalf("data footer: %q", got)
	}
	if got := footerLabel(StyleMinimalist, 1, 3); got != "1 of 3" {
		t.Fatalf("minimalist footer: %q", got)
	}
	if got := footerLabel(StyleStory, 3, 3); got != "3 of 3" {
		t.Fatalf("story footer: %q", got)
	}
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#FF8000")
	if r != 1 || g != float64(0x80)/255 || b != 0 {
		t.Fatalf("unexpected channels: %v %v %v", r, g, b)
	}
	if cr, cg, cb := hexToRGB("nonsense"); cr != 0 || cg != 0 || cb != 0 {
		t.Fatalf("malformed hex should fall back to black")
	}
	if channel(1) != 255 || channel(0) != 0 {
		t.Fatalf("channel scaling broken")
	}
}

func TestSlideTitleAndBody(t *testing.T) {
	sl := domain.NewSlide()
	sl.Elements = append(sl.Elements,
		domain.ShapeElement("rect", "#000000", 0, 0, 10, 10),
		domain.TextElement("Headline", 0, 0),
		domain.TextElement("first body", 0, 100),
		domain.TextElement("second body", 0, 200),
	)
	if got := slideTitle(sl); got != "Headline" {
		t.Fatalf("title should be the first text element, got %q", got)
	}
	body := slideBody(sl)
	if len(body) != 2 || body[0] != "first body" || body[1] != "second body" {
		t.Fatalf("unexpected body blocks: %v", body)
	}
	if slideTitle(domain.NewSlide()) != "" {
		t.Fatalf("slide without text should have empty title")
	}
}

func TestParseStyleAndFormat(t *testing.T) {
	if st, err := ParseStyle(" Bold "); err != nil || st != StyleBold {
		t.Fatalf("parse style: %v %v", st, err)
	}
	if _, err := ParseStyle("neon"); err == nil {
		t.Fatalf("unknown style should error")
	}
	if f, err := ParseFormat("LANDSCAPE"); err != nil || f != FormatLandscape {
		t.Fatalf("parse format: %v %v", f, err)
	}
	if _, err := ParseFormat("a4"); err == nil {
		t.Fatalf("unknown format should error")
	}
	for _, c := range []struct {
		f    PageFormat
		w, h float64
	}{{FormatSquare, 612, 612}, {FormatPortrait, 612, 792}, {FormatLandscape, 792, 612}} {
		if w, h := c.f.Size(); w != c.w || h != c.h {
			t.Fatalf("%s size: %vx%v", c.f, w, h)
		}
	}
}

func TestRenderDeckPDF_ManySlidesManyPages(t *testing.T) {
	var slides []domain.Slide
	for i := 0; i < 10; i++ {
		slides = append(slides, titledSlide(fmt.Sprintf("Slide %d", i+1), i))
	}
	data, err := RenderDeckPDF(slides, domain.BrandKit{}, StyleData, FormatSquare)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := pageCount(data); got != 10 {
		t.Fatalf("expected 10 pages, got %d", got)
	}
}
