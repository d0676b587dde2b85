/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for Carousel Studio documents.
// All entities serialize to the JSON shapes the draft store and deck files
// use, so keep field tags stable.

// ElementType discriminates the element union.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementShape ElementType = "shape"
	ElementImage ElementType = "image"
)

// Deck size bounds. A document always holds at least one slide, and the
// carousel formats the renderer targets cap out at ten.
const (
	MinSlides = 1
	MaxSlides = 10
)

// Element is a positioned visual unit on a slide. The Type field selects
// which of the variant field groups is meaningful; unused groups stay at
// their zero values and are omitted from JSON.
//
// Geometry is in points (1/72 inch), rotation in degrees around the element
// center. Colors are 6-digit hex strings like "#1A2B3C".
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`

	// text variant
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"` // normal or bold
	Fill       string  `json:"fill,omitempty"`       // also the shape fill
	Align      string  `json:"align,omitempty"`      // left, center, right

	// shape variant
	ShapeType    string  `json:"shapeType,omitempty"` // rect, circle, line
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`

	// image variant
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Slide is one page-equivalent unit: an ordered list of elements (index =
// paint order, later elements draw on top) over a background color.
// Order is the explicit position used by the renderer when paginating; the
// editor keeps it equal to the slide's index in the document.
type Slide struct {
	ID              string    `json:"id"`
	Elements        []Element `json:"elements"`
	BackgroundColor string    `json:"backgroundColor"`
	Order           int       `json:"order"`
}

// Deck is a named slide collection, the unit of deck document files and of
// the outline importer.
type Deck struct {
	Name   string  `json:"name"`
	Slides []Slide `json:"slides"`
}

// Template is a reusable starting deck from the template catalog. Applying
// a template clones DefaultSlides with fresh identities; the ids stored
// here must never leak into a live document.
type Template struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Style         string  `json:"style,omitempty"` // suggested render style
	DefaultSlides []Slide `json:"defaultSlides"`
}

// BrandKit is the palette/typography object supplied by the caller at
// export time.
type BrandKit struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// DefaultBackground is the background color of freshly created slides.
const DefaultBackground = "#FFFFFF"

// TextElement returns a text element with sensible defaults for the given
// content and position. Callers adjust fields as needed afterwards.
func TextElement(text string, x, y float64) Element {
	return Element{
		ID:         NewID(),
		Type:       ElementText,
		X:          x,
		Y:          y,
		Width:      400,
		Height:     60,
		Text:       text,
		FontSize:   24,
		FontFamily: "Helvetica",
		FontWeight: "normal",
		Fill:       "#111111",
		Align:      "left",
	}
}

// ShapeElement returns a filled shape element.
func ShapeElement(shapeType, fill string, x, y, w, h float64) Element {
	return Element{
		ID:        NewID(),
		Type:      ElementShape,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
		ShapeType: shapeType,
		Fill:      fill,
	}
}

// ImageElement returns an image element referencing src.
func ImageElement(src, alt string, x, y, w, h float64) Element {
	return Element{
		ID:     NewID(),
		Type:   ElementImage,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Src:    src,
		Alt:    alt,
	}
}

// NewSlide returns an empty slide with a fresh id and the default
// background.
func NewSlide() Slide {
	return Slide{ID: NewID(), Elements: []Element{}, BackgroundColor: DefaultBackground}
}

// FindElement returns a pointer into the slide's element list for id, or
// nil when the id is not present.
func (s *Slide) FindElement(id string) *Element {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i]
		}
	}
	return nil
}

// ElementIDs collects every element id across the given slides, in paint
// order. Used by identity checks after cloning.
func ElementIDs(slides []Slide) []string {
	var ids []string
	for _, sl := range slides {
		for _, el := range sl.Elements {
			ids = append(ids, el.ID)
		}
	}
	return ids
}
