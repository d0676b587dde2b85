/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	"carouselstudio/internal/domain"
	applog "carouselstudio/internal/log"
)

// DefaultAutosaveInterval is how long the deck must sit unchanged before the
// draft is written. Rapid edit bursts collapse into a single store write.
const DefaultAutosaveInterval = time.Second

// Autosaver persists the working deck to the draft slot, debounced.
// Notify is cheap and safe to call on every document change; the actual write
// happens on a timer goroutine once edits settle. Autosave failures are logged
// and retried on the next change, never surfaced to the editing flow.
type Autosaver struct {
	store   *Store
	trigger func(f func())
	logger  *slog.Logger

	mu      sync.Mutex
	pending []domain.Slide
	dirty   bool
}

// NewAutosaver wires an autosaver to the given store. A non-positive interval
// falls back to DefaultAutosaveInterval.
func NewAutosaver(store *Store, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		store:   store,
		trigger: debounce.New(interval),
		logger:  applog.WithComponent("autosave"),
	}
}

// Notify records the latest deck and (re)arms the debounce timer.
func (a *Autosaver) Notify(slides []domain.Slide) {
	a.mu.Lock()
	a.pending = domain.CopySlides(slides)
	a.dirty = true
	a.mu.Unlock()
	a.trigger(a.write)
}

// Flush writes any pending deck immediately, bypassing the debounce window.
// Shutdown and crash paths call this; a clean autosaver is a no-op.
func (a *Autosaver) Flush() {
	a.write()
}

func (a *Autosaver) write() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	slides := a.pending
	a.dirty = false
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := SaveDraft(ctx, a.store, slides); err != nil {
		a.logger.Warn("autosave failed", slog.Any("err", err))
		// Leave the deck marked dirty so the next notify or flush retries.
		a.mu.Lock()
		a.dirty = true
		a.mu.Unlock()
		return
	}
	a.logger.Debug("draft autosaved", slog.Int("slides", len(slides)))
}
