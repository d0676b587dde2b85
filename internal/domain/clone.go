/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "github.com/google/uuid"

// Identity rules: duplicated slides and applied templates must never alias
// ids with their source or with anything already in the live document. The
// Clone* functions therefore deep-copy and then remap every id they see.

// NewID returns a fresh globally unique id.
func NewID() string { return uuid.NewString() }

// CopySlide returns a deep copy of s that keeps all ids. Use it for
// snapshots where identity must be preserved (history, export).
func CopySlide(s Slide) Slide {
	out := s
	out.Elements = make([]Element, len(s.Elements))
	copy(out.Elements, s.Elements)
	return out
}

// CopySlides deep-copies a slide collection, ids preserved.
func CopySlides(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	for i, s := range slides {
		out[i] = CopySlide(s)
	}
	return out
}

// CloneSlide deep-copies s and assigns a fresh id to the slide and to every
// element within it.
func CloneSlide(s Slide) Slide {
	out := CopySlide(s)
	out.ID = NewID()
	for i := range out.Elements {
		out.Elements[i].ID = NewID()
	}
	return out
}

// CloneSlides clones every slide in order, regenerating all ids.
func CloneSlides(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	for i, s := range slides {
		out[i] = CloneSlide(s)
	}
	return out
}
