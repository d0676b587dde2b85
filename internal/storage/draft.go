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
	"encoding/json"
	"fmt"
	"log/slog"

	"carouselstudio/internal/domain"
	applog "carouselstudio/internal/log"
)

// DraftKey is the fixed store key for the autosaved working deck.
// There is exactly one draft slot; saving overwrites the previous one.
const DraftKey = "carousel/draft/slides"

// SaveDraft serializes the slides and upserts them under DraftKey.
func SaveDraft(ctx context.Context, s *Store, slides []domain.Slide) error {
	data, err := json.Marshal(slides)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.Put(ctx, DraftKey, data)
}

// LoadDraft returns the autosaved deck, or ok=false when none is usable.
// A missing, malformed, or schema-violating draft is treated as no draft:
// recovery must never hand the editor a deck it would refuse to edit.
func LoadDraft(ctx context.Context, s *Store) ([]domain.Slide, bool) {
	l := applog.WithComponent("storage")
	data, ok, err := s.Get(ctx, DraftKey)
	if err != nil {
		l.Warn("read draft failed", slog.Any("err", err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if err := ValidateSlidesJSON(data); err != nil {
		l.Warn("stored draft rejected", slog.Any("err", err))
		return nil, false
	}
	var slides []domain.Slide
	if err := json.Unmarshal(data, &slides); err != nil {
		l.Warn("decode draft failed", slog.Any("err", err))
		return nil, false
	}
	if len(slides) == 0 {
		return nil, false
	}
	return slides, true
}

// ClearDraft removes the autosaved deck, e.g. after an explicit save or discard.
func ClearDraft(ctx context.Context, s *Store) error {
	return s.Delete(ctx, DraftKey)
}
