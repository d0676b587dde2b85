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

import (
	"math"

	"carouselstudio/internal/domain"
)

// Deck and view limits. The slide bounds are the document invariants from
// the domain package; zoom bounds are purely a view concern.
const (
	MinSlides = domain.MinSlides
	MaxSlides = domain.MaxSlides
	MinZoom   = 0.25
	MaxZoom   = 2.0
)

// State is the complete editable state of a carousel session. Slides is
// the document; the remaining fields are selection and view state that do
// not participate in undo history.
type State struct {
	Slides          []domain.Slide
	CurrentSlide    int
	SelectedElement string
	Template        *domain.Template
	Zoom            float64
	ShowGrid        bool
	Exporting       bool
}

// NewState returns the initial session state: one blank slide, no
// selection, zoom 1.0.
func NewState() State {
	sl := domain.NewSlide()
	return State{Slides: []domain.Slide{sl}, Zoom: 1.0}
}

// Clone returns a deep copy; mutating the copy never affects the
// original.
func (s State) Clone() State {
	c := s
	c.Slides = domain.CopySlides(s.Slides)
	if s.Template != nil {
		t := *s.Template
		t.DefaultSlides = domain.CopySlides(s.Template.DefaultSlides)
		c.Template = &t
	}
	return c
}

// Reduce applies a to s and returns the next state. It is pure (the input
// state is never mutated) and total: actions that would violate a deck
// invariant return the input state unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddSlide:
		if len(s.Slides) >= MaxSlides {
			return s
		}
		sl := append(domain.CopySlides(s.Slides), domain.NewSlide())
		renumber(sl)
		s.Slides = sl
		s.CurrentSlide = len(sl) - 1
		s.SelectedElement = ""
		return s

	case DeleteSlide:
		if len(s.Slides) <= MinSlides || act.Index < 0 || act.Index >= len(s.Slides) {
			return s
		}
		sl := domain.CopySlides(s.Slides)
		sl = append(sl[:act.Index], sl[act.Index+1:]...)
		renumber(sl)
		s.Slides = sl
		switch {
		case act.Index == s.CurrentSlide:
			s.CurrentSlide = clampIndex(s.CurrentSlide, len(sl))
			s.SelectedElement = ""
		case act.Index < s.CurrentSlide:
			s.CurrentSlide--
		}
		return s

	case DuplicateSlide:
		if len(s.Slides) >= MaxSlides || act.Index < 0 || act.Index >= len(s.Slides) {
			return s
		}
		sl := domain.CopySlides(s.Slides)
		dup := domain.CloneSlide(sl[act.Index])
		sl = append(sl[:act.Index+1], append([]domain.Slide{dup}, sl[act.Index+1:]...)...)
		renumber(sl)
		s.Slides = sl
		s.CurrentSlide = act.Index + 1
		s.SelectedElement = ""
		return s

	case MoveSlide:
		if act.From < 0 || act.From >= len(s.Slides) || act.To < 0 || act.To >= len(s.Slides) || act.From == act.To {
			return s
		}
		sl := domain.CopySlides(s.Slides)
		moved := sl[act.From]
		sl = append(sl[:act.From], sl[act.From+1:]...)
		sl = append(sl[:act.To], append([]domain.Slide{moved}, sl[act.To:]...)...)
		renumber(sl)
		s.Slides = sl
		if s.CurrentSlide != act.From {
			s.SelectedElement = ""
		}
		s.CurrentSlide = act.To
		return s

	case SetSlideBackground:
		if act.Index < 0 || act.Index >= len(s.Slides) {
			return s
		}
		sl := domain.CopySlides(s.Slides)
		sl[act.Index].BackgroundColor = act.Color
		s.Slides = sl
		return s

	case AddElement:
		if act.SlideIndex < 0 || act.SlideIndex >= len(s.Slides) {
			return s
		}
		el := act.Element
		if el.ID == "" {
			el.ID = domain.NewID()
		}
		sl := domain.CopySlides(s.Slides)
		sl[act.SlideIndex].Elements = append(sl[act.SlideIndex].Elements, el)
		s.Slides = sl
		if act.SlideIndex == s.CurrentSlide {
			s.SelectedElement = el.ID
		}
		return s

	case UpdateElement:
		sl := domain.CopySlides(s.Slides)
		for i := range sl {
			if el := sl[i].FindElement(act.ID); el != nil {
				applyPatch(el, act.Patch)
				s.Slides = sl
				return s
			}
		}
		return s

	case DeleteElement:
		sl := domain.CopySlides(s.Slides)
		for i := range sl {
			for j := range sl[i].Elements {
				if sl[i].Elements[j].ID != act.ID {
					continue
				}
				sl[i].Elements = append(sl[i].Elements[:j], sl[i].Elements[j+1:]...)
				s.Slides = sl
				if s.SelectedElement == act.ID {
					s.SelectedElement = ""
				}
				return s
			}
		}
		return s

	case ApplyTemplate:
		if len(act.Template.DefaultSlides) == 0 {
			return s
		}
		sl := domain.CloneSlides(act.Template.DefaultSlides)
		if len(sl) > MaxSlides {
			sl = sl[:MaxSlides]
		}
		renumber(sl)
		s.Slides = sl
		s.CurrentSlide = 0
		s.SelectedElement = ""
		t := act.Template
		t.DefaultSlides = domain.CopySlides(act.Template.DefaultSlides)
		s.Template = &t
		return s

	case ReplaceSlides:
		if len(act.Slides) == 0 {
			return s
		}
		sl := domain.CopySlides(act.Slides)
		if len(sl) > MaxSlides {
			sl = sl[:MaxSlides]
		}
		renumber(sl)
		s.Slides = sl
		s.CurrentSlide = 0
		s.SelectedElement = ""
		return s

	case SetCurrentSlide:
		if act.Index < 0 || act.Index >= len(s.Slides) || act.Index == s.CurrentSlide {
			return s
		}
		s.CurrentSlide = act.Index
		s.SelectedElement = ""
		return s

	case SelectElement:
		if act.ID == "" {
			s.SelectedElement = ""
			return s
		}
		cur := s.Slides[s.CurrentSlide]
		if cur.FindElement(act.ID) == nil {
			return s
		}
		s.SelectedElement = act.ID
		return s

	case SetZoom:
		if math.IsNaN(act.Zoom) {
			return s
		}
		s.Zoom = math.Min(MaxZoom, math.Max(MinZoom, act.Zoom))
		return s

	case ToggleGrid:
		s.ShowGrid = !s.ShowGrid
		return s

	case SetExporting:
		s.Exporting = act.Exporting
		return s
	}
	return s
}

// renumber rewrites the order field to match array position after any
// change to the slide set, keeping export page order aligned with what
// the user sees.
func renumber(sl []domain.Slide) {
	for i := range sl {
		sl[i].Order = i
	}
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
