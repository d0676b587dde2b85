/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"sync"

	"carouselstudio/internal/domain"
)

// Entry is a deep snapshot of the editable document state captured
// immediately before a mutating action executes. Selection and the slide
// cursor travel with the snapshot so undo lands the user where they were.
type Entry struct {
	Slides          []domain.Slide
	CurrentSlide    int
	SelectedElement string
}

func (e Entry) clone() Entry {
	return Entry{
		Slides:          domain.CopySlides(e.Slides),
		CurrentSlide:    e.CurrentSlide,
		SelectedElement: e.SelectedElement,
	}
}

// Config controls the depth cap of the log.
type Config struct {
	// MaxEntries limits the number of snapshots kept in memory; the oldest
	// entry is dropped once the cap is exceeded (0 means the default of 50).
	MaxEntries int
}

// Log is a bounded snapshot log with a cursor. Entries below the cursor are
// the undoable past; entries at or above it are the redoable future that a
// fresh action truncates. The live state is never stored until the first
// undo, which stashes it as a boundary entry so redo can return to it.
// It is safe for concurrent use.
type Log struct {
	cfg Config
	mu  sync.Mutex

	entries []Entry
	cursor  int
	// replaying suppresses exactly one Record call so that applying an
	// undo/redo snapshot does not log itself as a new action.
	replaying bool
}

func NewLog(cfg Config) *Log {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 50
	}
	return &Log{cfg: cfg}
}

// Record captures the pre-mutation state. A new action after an undo
// discards the redo branch before appending. The call is a no-op when the
// one-shot replaying flag is set; the flag is cleared either way.
func (l *Log) Record(pre Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.replaying {
		l.replaying = false
		return
	}
	l.entries = append(l.entries[:l.cursor], pre.clone())
	if len(l.entries) > l.cfg.MaxEntries {
		drop := len(l.entries) - l.cfg.MaxEntries
		l.entries = append([]Entry{}, l.entries[drop:]...)
	}
	l.cursor = len(l.entries)
}

// Undo moves the cursor back one step and returns the snapshot to restore.
// The live state is appended as the redo target when the cursor sits at the
// end of the log; it participates in the depth cap like any other entry.
// Returns false when there is nothing to undo.
func (l *Log) Undo(live Entry) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor == 0 {
		return Entry{}, false
	}
	if l.cursor == len(l.entries) {
		l.entries = append(l.entries, live.clone())
		if len(l.entries) > l.cfg.MaxEntries {
			l.entries = append([]Entry{}, l.entries[1:]...)
			l.cursor--
		}
	}
	l.cursor--
	l.replaying = true
	return l.entries[l.cursor].clone(), true
}

// Redo moves the cursor forward one step and returns the snapshot to
// restore. Returns false when the cursor is already at the newest state.
func (l *Log) Redo() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 || l.cursor >= len(l.entries)-1 {
		return Entry{}, false
	}
	l.cursor++
	l.replaying = true
	return l.entries[l.cursor].clone(), true
}

// CanUndo reports whether an undo step is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) > 0 && l.cursor < len(l.entries)-1
}

// Clear drops all entries, e.g. after loading a different document.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.cursor = 0
	l.replaying = false
}

// Stats returns current depth and cursor position for diagnostics.
func (l *Log) Stats() (entries int, cursor int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries), l.cursor
}
