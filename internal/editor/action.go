/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import "carouselstudio/internal/domain"

// Action is a closed set of state transitions handled by Reduce. Actions
// that change the document (as opposed to view or selection state) embed
// mutation and are snapshotted into the history log before dispatch.
type Action interface{ isAction() }

type action struct{}

func (action) isAction() {}

// mutation marks actions that edit the slide collection itself.
type mutation struct{ action }

func (mutation) mutatesDocument() {}

type docMutation interface{ mutatesDocument() }

// IsDocumentMutation reports whether dispatching a would be recorded as an
// undoable document change.
func IsDocumentMutation(a Action) bool {
	_, ok := a.(docMutation)
	return ok
}

// AddSlide appends a blank slide at the end of the deck and makes it
// current. No-op once the deck holds the maximum number of slides.
type AddSlide struct{ mutation }

// DeleteSlide removes the slide at Index. Refused when it is the only
// slide left.
type DeleteSlide struct {
	mutation
	Index int
}

// DuplicateSlide deep-copies the slide at Index with fresh ids throughout
// and inserts the copy immediately after it.
type DuplicateSlide struct {
	mutation
	Index int
}

// MoveSlide removes the slide at From and reinserts it at To; the moved
// slide becomes current.
type MoveSlide struct {
	mutation
	From, To int
}

// SetSlideBackground changes the background color of the slide at Index.
type SetSlideBackground struct {
	mutation
	Index int
	Color string
}

// AddElement appends el to the slide at SlideIndex. When the slide is the
// current one the new element is selected.
type AddElement struct {
	mutation
	SlideIndex int
	Element    domain.Element
}

// UpdateElement applies a partial patch to the element with the given id,
// wherever it lives in the document.
type UpdateElement struct {
	mutation
	ID    string
	Patch ElementPatch
}

// DeleteElement removes the element with the given id. Selection is
// cleared when the removed element was selected.
type DeleteElement struct {
	mutation
	ID string
}

// ApplyTemplate replaces the deck with a fresh-id deep copy of the
// template's starter slides. No-op for templates without slides.
type ApplyTemplate struct {
	mutation
	Template domain.Template
}

// ReplaceSlides swaps in a whole new slide collection (draft restore,
// outline import). No-op for an empty collection.
type ReplaceSlides struct {
	mutation
	Slides []domain.Slide
}

// SetCurrentSlide moves the slide cursor. Out-of-range indexes are
// ignored; switching slides clears element selection.
type SetCurrentSlide struct {
	action
	Index int
}

// SelectElement selects the element with the given id on the current
// slide, or clears selection when ID is empty. Ids not present on the
// current slide are ignored.
type SelectElement struct {
	action
	ID string
}

// SetZoom sets the zoom factor, clamped to the allowed range.
type SetZoom struct {
	action
	Zoom float64
}

// ToggleGrid flips the alignment grid overlay.
type ToggleGrid struct{ action }

// SetExporting sets the single-flight export guard.
type SetExporting struct {
	action
	Exporting bool
}

// ElementPatch carries the fields of a partial element update; nil fields
// are left untouched. The pointer-per-field shape keeps "not provided"
// distinct from zero values.
type ElementPatch struct {
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	Rotation *float64

	Text       *string
	FontSize   *float64
	FontFamily *string
	FontWeight *string
	Fill       *string
	Align      *string

	ShapeType    *string
	Stroke       *string
	StrokeWidth  *float64
	CornerRadius *float64

	Src *string
	Alt *string
}

func applyPatch(el *domain.Element, p ElementPatch) {
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.Text != nil {
		el.Text = *p.Text
	}
	if p.FontSize != nil {
		el.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		el.FontFamily = *p.FontFamily
	}
	if p.FontWeight != nil {
		el.FontWeight = *p.FontWeight
	}
	if p.Fill != nil {
		el.Fill = *p.Fill
	}
	if p.Align != nil {
		el.Align = *p.Align
	}
	if p.ShapeType != nil {
		el.ShapeType = *p.ShapeType
	}
	if p.Stroke != nil {
		el.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		el.StrokeWidth = *p.StrokeWidth
	}
	if p.CornerRadius != nil {
		el.CornerRadius = *p.CornerRadius
	}
	if p.Src != nil {
		el.Src = *p.Src
	}
	if p.Alt != nil {
		el.Alt = *p.Alt
	}
}

// Name returns a short identifier for logging and telemetry.
func Name(a Action) string {
	switch a.(type) {
	case AddSlide:
		return "add_slide"
	case DeleteSlide:
		return "delete_slide"
	case DuplicateSlide:
		return "duplicate_slide"
	case MoveSlide:
		return "move_slide"
	case SetSlideBackground:
		return "set_slide_background"
	case AddElement:
		return "add_element"
	case UpdateElement:
		return "update_element"
	case DeleteElement:
		return "delete_element"
	case ApplyTemplate:
		return "apply_template"
	case ReplaceSlides:
		return "replace_slides"
	case SetCurrentSlide:
		return "set_current_slide"
	case SelectElement:
		return "select_element"
	case SetZoom:
		return "set_zoom"
	case ToggleGrid:
		return "toggle_grid"
	case SetExporting:
		return "set_exporting"
	default:
		return "unknown"
	}
}
