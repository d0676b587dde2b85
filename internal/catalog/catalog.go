/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package catalog manages the template library: the built-in starter
// templates plus user templates loaded from YAML descriptor files, with
// optional hot reload while the application runs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"carouselstudio/internal/domain"
	"carouselstudio/internal/export"
	applog "carouselstudio/internal/log"
)

// Catalog is a thread-safe template registry. Built-ins are always present;
// LoadDir adds file templates on top and Watch keeps them fresh.
type Catalog struct {
	mu        sync.RWMutex
	byID      map[string]domain.Template
	order     []string
	fileIDs   map[string]struct{}
	remoteIDs map[string]struct{}
	dir       string

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// New returns a catalog seeded with the built-in templates.
func New() *Catalog {
	c := &Catalog{
		byID:      make(map[string]domain.Template),
		fileIDs:   make(map[string]struct{}),
		remoteIDs: make(map[string]struct{}),
		logger:    applog.WithComponent("catalog"),
	}
	for _, t := range Builtin() {
		c.byID[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c
}

// Templates lists all templates, built-ins first, file templates in load
// order. The returned slice and its slides are deep copies.
func (c *Catalog) Templates() []domain.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyTemplate(c.byID[id]))
	}
	return out
}

// Get returns a deep copy of the template with the given id.
func (c *Catalog) Get(id string) (domain.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byID[id]
	if !ok {
		return domain.Template{}, false
	}
	return copyTemplate(t), true
}

// Register adds a template obtained from a remote catalog source. Ids that
// belong to built-ins or file templates are rejected; registering the same
// remote id again replaces the earlier version.
func (c *Catalog) Register(t domain.Template) error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("template id is empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byID[t.ID]; exists {
		if _, remote := c.remoteIDs[t.ID]; !remote {
			return fmt.Errorf("template id %q already present", t.ID)
		}
		c.byID[t.ID] = copyTemplate(t)
		return nil
	}
	c.byID[t.ID] = copyTemplate(t)
	c.order = append(c.order, t.ID)
	c.remoteIDs[t.ID] = struct{}{}
	return nil
}

// LoadDir reads every *.yaml/*.yml descriptor in dir and replaces the
// catalog's file-template set with the result. Files that fail to parse or
// validate are skipped with a warning; the directory itself must be
// readable. Returns the number of templates loaded from files.
func (c *Catalog) LoadDir(dir string) (int, error) {
	l := applog.WithOperation(c.logger, "load_dir").With(slog.String("dir", dir))
	ents, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read templates dir: %w", err)
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	loaded := make([]domain.Template, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		t, err := parseTemplateFile(path)
		if err != nil {
			l.Warn("template descriptor skipped", slog.String("file", name), slog.Any("err", err))
			continue
		}
		loaded = append(loaded, t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dir = dir
	// Drop the previous file-template generation.
	kept := c.order[:0]
	for _, id := range c.order {
		if _, fromFile := c.fileIDs[id]; fromFile {
			delete(c.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	c.fileIDs = make(map[string]struct{})
	count := 0
	for _, t := range loaded {
		if _, exists := c.byID[t.ID]; exists {
			l.Warn("template id collides with built-in", slog.String("id", t.ID))
			continue
		}
		c.byID[t.ID] = t
		c.order = append(c.order, t.ID)
		c.fileIDs[t.ID] = struct{}{}
		count++
	}
	l.Info("templates loaded", slog.Int("files", count))
	return count, nil
}

// Watch reloads the previously loaded directory whenever a descriptor file
// changes. It returns once the watcher is armed; reloads happen on a
// background goroutine until ctx ends or Close is called.
func (c *Catalog) Watch(ctx context.Context) error {
	c.mu.RLock()
	dir := c.dir
	c.mu.RUnlock()
	if dir == "" {
		return errors.New("no template directory loaded")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.watcher = watcher
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		var reload *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				ext := strings.ToLower(filepath.Ext(event.Name))
				if ext != ".yaml" && ext != ".yml" {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				// Editors fire bursts of events per save; coalesce them.
				if reload != nil {
					reload.Stop()
				}
				reload = time.AfterFunc(250*time.Millisecond, func() {
					if _, err := c.LoadDir(dir); err != nil {
						c.logger.Warn("template reload failed", slog.Any("err", err))
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warn("template watcher error", slog.Any("err", err))
			}
		}
	}()

	c.logger.Info("template directory watched", slog.String("dir", dir))
	return nil
}

// Close stops the watcher, if any. The catalog remains usable.
func (c *Catalog) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.watcher != nil {
		_ = c.watcher.Close()
		c.watcher = nil
	}
}

func copyTemplate(t domain.Template) domain.Template {
	out := t
	out.DefaultSlides = domain.CopySlides(t.DefaultSlides)
	return out
}

// templateDoc is the YAML descriptor shape. Field names are snake_case as
// in the application config files.
type templateDoc struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Style  string     `yaml:"style"`
	Slides []slideDoc `yaml:"slides"`
}

type slideDoc struct {
	Background string       `yaml:"background"`
	Elements   []elementDoc `yaml:"elements"`
}

type elementDoc struct {
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Rotation float64 `yaml:"rotation"`

	Text       string  `yaml:"text"`
	FontSize   float64 `yaml:"font_size"`
	FontFamily string  `yaml:"font_family"`
	FontWeight string  `yaml:"font_weight"`
	Fill       string  `yaml:"fill"`
	Align      string  `yaml:"align"`

	Shape        string  `yaml:"shape"`
	Stroke       string  `yaml:"stroke"`
	StrokeWidth  float64 `yaml:"stroke_width"`
	CornerRadius float64 `yaml:"corner_radius"`

	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

func parseTemplateFile(path string) (domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Template{}, fmt.Errorf("read descriptor: %w", err)
	}
	t, err := decodeTemplate(data)
	if err != nil {
		return domain.Template{}, err
	}
	if t.ID == "" {
		// Default the template id to the file stem.
		base := filepath.Base(path)
		t.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return t, nil
}

// ParseDescriptor decodes a template descriptor document. YAML and JSON
// payloads are both accepted, so remote catalog sources can reuse the file
// format on the wire. The returned template may have an empty id; callers
// decide the fallback.
func ParseDescriptor(data []byte) (domain.Template, error) {
	return decodeTemplate(data)
}

func decodeTemplate(data []byte) (domain.Template, error) {
	if err := validateDescriptor(data); err != nil {
		return domain.Template{}, err
	}
	var doc templateDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Template{}, fmt.Errorf("parse descriptor: %w", err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return domain.Template{}, errors.New("template name is required")
	}
	if doc.Style != "" {
		if _, err := export.ParseStyle(doc.Style); err != nil {
			return domain.Template{}, err
		}
	}
	if len(doc.Slides) == 0 {
		return domain.Template{}, errors.New("template needs at least one slide")
	}
	if len(doc.Slides) > domain.MaxSlides {
		return domain.Template{}, fmt.Errorf("template has %d slides, maximum is %d", len(doc.Slides), domain.MaxSlides)
	}

	slides := make([]domain.Slide, 0, len(doc.Slides))
	for i, sd := range doc.Slides {
		sl := domain.NewSlide()
		sl.Order = i
		if sd.Background != "" {
			sl.BackgroundColor = sd.Background
		}
		for _, ed := range sd.Elements {
			el, err := decodeElement(ed)
			if err != nil {
				return domain.Template{}, fmt.Errorf("slide %d: %w", i+1, err)
			}
			sl.Elements = append(sl.Elements, el)
		}
		slides = append(slides, sl)
	}
	return domain.Template{
		ID:            strings.TrimSpace(doc.ID),
		Name:          strings.TrimSpace(doc.Name),
		Style:         strings.ToLower(strings.TrimSpace(doc.Style)),
		DefaultSlides: slides,
	}, nil
}

func decodeElement(ed elementDoc) (domain.Element, error) {
	el := domain.Element{
		ID:       domain.NewID(),
		X:        ed.X,
		Y:        ed.Y,
		Width:    ed.Width,
		Height:   ed.Height,
		Rotation: ed.Rotation,
	}
	switch domain.ElementType(strings.ToLower(ed.Type)) {
	case domain.ElementText:
		el.Type = domain.ElementText
		el.Text = ed.Text
		el.FontSize = ed.FontSize
		el.FontFamily = ed.FontFamily
		el.FontWeight = ed.FontWeight
		el.Fill = ed.Fill
		el.Align = ed.Align
	case domain.ElementShape:
		el.Type = domain.ElementShape
		el.ShapeType = ed.Shape
		el.Fill = ed.Fill
		el.Stroke = ed.Stroke
		el.StrokeWidth = ed.StrokeWidth
		el.CornerRadius = ed.CornerRadius
	case domain.ElementImage:
		el.Type = domain.ElementImage
		el.Src = ed.Src
		el.Alt = ed.Alt
	default:
		return domain.Element{}, fmt.Errorf("unknown element type %q", ed.Type)
	}
	return el, nil
}
