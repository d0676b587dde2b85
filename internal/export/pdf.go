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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"carouselstudio/internal/domain"
	"carouselstudio/internal/textlayout"
)

// Template-driven typesetting of a slide deck into a multi-page PDF.
//
// Units are points (1/72 inch) for a 1:1 mapping from model to page; the
// page origin is top-left and Text positions baselines. The renderer does
// not reproduce the editing canvas: each style re-typesets the slide's
// text content (first text element as title, the rest as body) with its
// own fonts, chrome and footer, colored from the brand kit. Built-in
// Helvetica keeps text vector without font embedding.

// Fallback brand colors for kits with missing fields.
const (
	defaultPrimary   = "#3B82F6"
	defaultSecondary = "#F59E0B"
)

// RenderDeckPDF typesets every slide onto one page of the chosen format
// and returns the serialized document. Slides are stably sorted by their
// order field first, so page numbering always matches visual order.
// An empty deck yields a ValidationError.
func RenderDeckPDF(slides []domain.Slide, brand domain.BrandKit, style Style, format PageFormat) ([]byte, error) {
	if len(slides) == 0 {
		return nil, &ValidationError{Reason: "deck has no slides"}
	}
	switch style {
	case StyleBold, StyleMinimalist, StyleData, StyleStory:
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown template style %q", style)}
	}
	brand = withBrandDefaults(brand)

	ordered := append([]domain.Slide(nil), slides...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	pageW, pageH := format.Size()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetTitle("Carousel", false)
	pdf.SetAuthor("Carousel Studio", false)
	pdf.SetAutoPageBreak(false, 0)
	family := coreFont(brand.FontFamily)
	pdf.SetFont(family, "", 12)

	total := len(ordered)
	for i, slide := range ordered {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: pageW, Ht: pageH})
		pg := page{pdf: pdf, w: pageW, h: pageH, num: i + 1, total: total, brand: brand, font: family}
		switch style {
		case StyleBold:
			pg.drawBold(slide)
		case StyleMinimalist:
			pg.drawMinimalist(slide)
		case StyleData:
			pg.drawData(slide)
		case StyleStory:
			pg.drawStory(slide)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// coreFont maps a brand font-family hint onto one of the built-in PDF
// faces; anything unrecognized renders as Helvetica.
func coreFont(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "times"):
		return "Times"
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	default:
		return "Helvetica"
	}
}

// page carries the per-page drawing context so the style routines stay
// free of parameter noise.
type page struct {
	pdf   *gofpdf.Fpdf
	w, h  float64
	num   int
	total int
	brand domain.BrandKit
	font  string
}

// slideTitle returns the text of the slide's first text element; body
// returns the texts of the remaining ones, one block per element.
func slideTitle(s domain.Slide) string {
	for _, el := range s.Elements {
		if el.Type == domain.ElementText {
			return el.Text
		}
	}
	return ""
}

func slideBody(s domain.Slide) []string {
	var blocks []string
	seenTitle := false
	for _, el := range s.Elements {
		if el.Type != domain.ElementText {
			continue
		}
		if !seenTitle {
			seenTitle = true
			continue
		}
		blocks = append(blocks, el.Text)
	}
	return blocks
}

// wrap sets the active font and breaks text against its real metrics.
func (p page) wrap(style string, size float64, text string, maxW float64) []string {
	p.pdf.SetFont(p.font, style, size)
	return textlayout.Wrap(text, maxW, textlayout.MeasureFunc(p.pdf.GetStringWidth))
}

// text draws a line with its baseline at y, either centered on the page
// or starting at x.
func (p page) text(s string, x, y float64, centered bool) {
	if centered {
		x = (p.w - p.pdf.GetStringWidth(s)) / 2
	}
	p.pdf.Text(x, y, s)
}

// block draws wrapped lines downward from the first baseline at startY
// and returns the y of the next free baseline.
func (p page) block(lines []string, style string, size, x, startY float64, centered bool) float64 {
	p.pdf.SetFont(p.font, style, size)
	y := startY
	for _, ln := range lines {
		p.text(ln, x, y, centered)
		y += size * textlayout.DefaultLineHeight
	}
	return y
}

// drawBold fills the page with the primary color and centers an oversized
// title on it. Footer reads "n / total".
func (p page) drawBold(s domain.Slide) {
	setFillHex(p.pdf, p.brand.PrimaryColor)
	p.pdf.Rect(0, 0, p.w, p.h, "F")

	const (
		titleSize = 44
		bodySize  = 20
		margin    = 64
	)
	avail := p.w - 2*margin
	title := p.wrap("B", titleSize, slideTitle(s), avail)
	titleH := textlayout.BlockHeight(len(title), titleSize, textlayout.DefaultLineHeight)

	body := slideBody(s)
	var bodyLines [][]string
	bodyH := 0.0
	for _, blk := range body {
		lines := p.wrap("", bodySize, blk, avail)
		bodyLines = append(bodyLines, lines)
		bodyH += textlayout.BlockHeight(len(lines), bodySize, textlayout.DefaultLineHeight)
	}

	setTextHex(p.pdf, "#FFFFFF")
	y := (p.h-titleH-bodyH)/2 + titleSize
	y = p.block(title, "B", titleSize, 0, y, true)
	for _, lines := range bodyLines {
		y += bodySize * 0.4
		y = p.block(lines, "", bodySize, 0, y, true)
	}

	p.footer(footerLabel(StyleBold, p.num, p.total), "#FFFFFF", footerCenter)
}

// drawMinimalist keeps the page white with a short primary accent rule
// above a left-aligned title. Footer reads "n of total".
func (p page) drawMinimalist(s domain.Slide) {
	const (
		titleSize = 34
		bodySize  = 16
		margin    = 56
		ruleW     = 72
		ruleH     = 4
	)
	setFillHex(p.pdf, p.brand.PrimaryColor)
	p.pdf.Rect(margin, margin, ruleW, ruleH, "F")

	avail := p.w - 2*margin
	title := p.wrap("B", titleSize, slideTitle(s), avail)

	setTextHex(p.pdf, "#1A1A1A")
	y := margin + ruleH + 18 + titleSize
	y = p.block(title, "B", titleSize, margin, y, false)

	setTextHex(p.pdf, "#444444")
	for _, blk := range slideBody(s) {
		lines := p.wrap("", bodySize, blk, avail)
		y += bodySize * 0.6
		y = p.block(lines, "", bodySize, margin, y, false)
	}

	p.footer(footerLabel(StyleMinimalist, p.num, p.total), "#999999", footerLeft)
}

// drawData stamps an oversized page digit in the secondary color behind a
// left-aligned title block. Footer reads "n / total".
func (p page) drawData(s domain.Slide) {
	const (
		digitSize = 200
		titleSize = 30
		bodySize  = 16
		margin    = 56
		topBar    = 12
	)
	setFillHex(p.pdf, p.brand.PrimaryColor)
	p.pdf.Rect(0, 0, p.w, topBar, "F")

	digit := strconv.Itoa(p.num)
	p.pdf.SetFont(p.font, "B", digitSize)
	setTextHex(p.pdf, p.brand.SecondaryColor)
	p.pdf.Text(p.w-margin-p.pdf.GetStringWidth(digit), margin+digitSize*0.72, digit)

	avail := p.w - 2*margin
	title := p.wrap("B", titleSize, slideTitle(s), avail)

	setTextHex(p.pdf, "#111111")
	y := p.h*0.55 + titleSize
	y = p.block(title, "B", titleSize, margin, y, false)

	setTextHex(p.pdf, "#333333")
	for _, blk := range slideBody(s) {
		lines := p.wrap("", bodySize, blk, avail)
		y += bodySize * 0.6
		y = p.block(lines, "", bodySize, margin, y, false)
	}

	p.footer(footerLabel(StyleData, p.num, p.total), "#666666", footerRight)
}

// drawStory composes a secondary-color veil at 0.70 opacity over the
// primary background, then a near-opaque white content panel. Footer
// reads "n of total".
func (p page) drawStory(s domain.Slide) {
	setFillHex(p.pdf, p.brand.PrimaryColor)
	p.pdf.Rect(0, 0, p.w, p.h, "F")

	p.pdf.SetAlpha(0.70, "Normal")
	setFillHex(p.pdf, p.brand.SecondaryColor)
	p.pdf.Rect(0, 0, p.w, p.h, "F")

	const (
		panelInset = 48
		padding    = 36
		titleSize  = 32
		bodySize   = 16
	)
	p.pdf.SetAlpha(0.95, "Normal")
	setFillHex(p.pdf, "#FFFFFF")
	p.pdf.Rect(panelInset, panelInset, p.w-2*panelInset, p.h-2*panelInset, "F")
	p.pdf.SetAlpha(1.0, "Normal")

	avail := p.w - 2*panelInset - 2*padding
	left := panelInset + padding
	title := p.wrap("B", titleSize, slideTitle(s), avail)

	setTextHex(p.pdf, "#222222")
	y := panelInset + padding + titleSize
	y = p.block(title, "B", titleSize, left, y, false)

	setTextHex(p.pdf, "#444444")
	for _, blk := range slideBody(s) {
		lines := p.wrap("", bodySize, blk, avail)
		y += bodySize * 0.6
		y = p.block(lines, "", bodySize, left, y, false)
	}

	p.footer(footerLabel(StyleStory, p.num, p.total), "#777777", footerCenter)
}

// footerLabel formats the slide-number overlay: "n / total" for the bold
// and data styles, "n of total" for minimalist and story.
func footerLabel(style Style, n, total int) string {
	switch style {
	case StyleMinimalist, StyleStory:
		return fmt.Sprintf("%d of %d", n, total)
	default:
		return fmt.Sprintf("%d / %d", n, total)
	}
}

type footerAlign int

const (
	footerLeft footerAlign = iota
	footerCenter
	footerRight
)

const footerSize = 10

// footer draws the slide-number overlay near the bottom edge.
func (p page) footer(label, color string, align footerAlign) {
	p.pdf.SetFont(p.font, "", footerSize)
	setTextHex(p.pdf, color)
	const margin = 56
	y := p.h - 30
	switch align {
	case footerLeft:
		p.pdf.Text(margin, y, label)
	case footerRight:
		p.pdf.Text(p.w-margin-p.pdf.GetStringWidth(label), y, label)
	default:
		p.text(label, 0, y, true)
	}
}

func withBrandDefaults(b domain.BrandKit) domain.BrandKit {
	if b.PrimaryColor == "" {
		b.PrimaryColor = defaultPrimary
	}
	if b.SecondaryColor == "" {
		b.SecondaryColor = defaultSecondary
	}
	return b
}
