/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor owns the live carousel session: the slide document, the
// selection and view state around it, and the undo history. All edits go
// through Dispatch; document changes are snapshotted before they apply
// and reported to the change hook afterwards, which is how autosave and
// previews stay current without the reducer knowing about them.
package editor

import (
	"errors"
	"log/slog"
	"sync"

	"carouselstudio/internal/domain"
	"carouselstudio/internal/export"
	"carouselstudio/internal/geom"
	"carouselstudio/internal/history"
	applog "carouselstudio/internal/log"
)

// ErrExportInFlight is returned when an export is requested while a
// previous one has not finished.
var ErrExportInFlight = errors.New("editor: export already in flight")

// Options configures a new Editor.
type Options struct {
	// History bounds the undo log; zero values mean defaults.
	History history.Config
	// OnDocumentChange, when set, is invoked with a copy of the slide
	// collection after every document mutation, including undo/redo.
	OnDocumentChange func([]domain.Slide)
	// Logger defaults to the shared application logger.
	Logger *slog.Logger
}

// Editor wraps the pure reducer with history recording and change
// notification. Safe for concurrent use.
type Editor struct {
	mu          sync.Mutex
	state       State
	hist        *history.Log
	onDocChange func([]domain.Slide)
	logger      *slog.Logger
}

func New(opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = applog.WithComponent("editor")
	}
	return &Editor{
		state:       NewState(),
		hist:        history.NewLog(opts.History),
		onDocChange: opts.OnDocumentChange,
		logger:      logger,
	}
}

// State returns a deep copy of the current state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Dispatch runs a through the reducer. Document mutations record the
// pre-action state into the history log first, so the entry survives even
// when an invariant guard turns the action into a no-op.
func (e *Editor) Dispatch(a Action) State {
	e.mu.Lock()
	doc := IsDocumentMutation(a)
	if doc {
		e.hist.Record(entryOf(e.state))
	}
	e.state = Reduce(e.state, a)
	st := e.state.Clone()
	var changed []domain.Slide
	if doc && e.onDocChange != nil {
		changed = domain.CopySlides(e.state.Slides)
	}
	e.mu.Unlock()

	e.logger.Debug("action dispatched", "action", Name(a), "slides", len(st.Slides))
	if changed != nil {
		e.onDocChange(changed)
	}
	return st
}

// Undo steps the document back one history entry. Returns false when
// nothing can be undone.
func (e *Editor) Undo() bool { return e.replay(true) }

// Redo steps the document forward one history entry. Returns false when
// nothing can be redone.
func (e *Editor) Redo() bool { return e.replay(false) }

func (e *Editor) replay(back bool) bool {
	e.mu.Lock()
	var (
		snap history.Entry
		ok   bool
	)
	if back {
		snap, ok = e.hist.Undo(entryOf(e.state))
	} else {
		snap, ok = e.hist.Redo()
	}
	if !ok {
		e.mu.Unlock()
		return false
	}
	// Apply through the same record path as a normal mutation; the log's
	// one-shot replay flag swallows this Record call so the replay does
	// not log itself.
	e.hist.Record(entryOf(e.state))
	e.state.Slides = snap.Slides
	e.state.CurrentSlide = snap.CurrentSlide
	e.state.SelectedElement = snap.SelectedElement
	var changed []domain.Slide
	if e.onDocChange != nil {
		changed = domain.CopySlides(e.state.Slides)
	}
	e.mu.Unlock()

	if changed != nil {
		e.onDocChange(changed)
	}
	return true
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Restore replaces the document with a previously persisted slide
// collection without recording history, and resets the undo log. It is
// meant for the single startup read of the draft store; empty collections
// are rejected so a broken draft never wipes the blank document. The
// change hook is not fired, the data just came from storage.
func (e *Editor) Restore(slides []domain.Slide) bool {
	if len(slides) == 0 {
		return false
	}
	sl := domain.CopySlides(slides)
	if len(sl) > MaxSlides {
		sl = sl[:MaxSlides]
	}
	renumber(sl)

	e.mu.Lock()
	e.state.Slides = sl
	e.state.CurrentSlide = 0
	e.state.SelectedElement = ""
	e.state.Template = nil
	e.hist.Clear()
	e.mu.Unlock()

	e.logger.Info("draft restored", "slides", len(sl))
	return true
}

// ExportPDF renders the current deck with the given brand kit, template
// style and page format. A second call while one export is running
// returns ErrExportInFlight; the render itself happens outside the state
// lock on a snapshot of the slides.
func (e *Editor) ExportPDF(brand domain.BrandKit, style export.Style, format export.PageFormat) ([]byte, error) {
	e.mu.Lock()
	if e.state.Exporting {
		e.mu.Unlock()
		return nil, ErrExportInFlight
	}
	e.state.Exporting = true
	slides := domain.CopySlides(e.state.Slides)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.state.Exporting = false
		e.mu.Unlock()
	}()

	data, err := export.RenderDeckPDF(slides, brand, style, format)
	if err != nil {
		e.logger.Warn("export failed", "style", string(style), "format", string(format), "err", err)
		return nil, err
	}
	e.logger.Info("export completed", "style", string(style), "format", string(format), "bytes", len(data))
	return data, nil
}

// ElementAt returns the id of the topmost element of the current slide
// containing p, honoring element rotation. Later elements paint on top,
// so the scan runs back to front.
func (e *Editor) ElementAt(p geom.Pt) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sl := e.state.Slides[e.state.CurrentSlide]
	for i := len(sl.Elements) - 1; i >= 0; i-- {
		el := sl.Elements[i]
		r := geom.R(el.X, el.Y, el.Width, el.Height)
		if geom.RotatedRectContains(r, el.Rotation, p) {
			return el.ID, true
		}
	}
	return "", false
}

func entryOf(s State) history.Entry {
	return history.Entry{
		Slides:          s.Slides,
		CurrentSlide:    s.CurrentSlide,
		SelectedElement: s.SelectedElement,
	}
}
