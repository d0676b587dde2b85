/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"carouselstudio/internal/domain"
)

const (
	DeckFileName   = "deck.json"
	BackupsDirName = "backups"
)

// Standard subfolders scaffolded next to the deck file.
var standardSubDirs = []string{
	"assets",
	"exports",
	BackupsDirName,
}

// DeckHandle keeps track of the deck state loaded/saved from disk.
// Root is the deck directory containing deck.json and subfolders.
// Deck holds the in-memory representation of the document.
type DeckHandle struct {
	Root     string
	DeckPath string
	Deck     domain.Deck
}

// InitDeck creates a new deck directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, and writes the given deck file transactionally.
func InitDeck(root string, deck domain.Deck) (*DeckHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create deck root: %w", err)
	}
	// Create standard subfolders
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	h := &DeckHandle{
		Root:     root,
		DeckPath: filepath.Join(root, DeckFileName),
		Deck:     deck,
	}
	if err := SaveDeck(h); err != nil {
		return nil, err
	}
	return h, nil
}

// OpenDeck loads an existing deck from the given root directory.
// If the current deck file cannot be read or parsed, it will attempt last backup.
func OpenDeck(root string) (*DeckHandle, error) {
	dpath := filepath.Join(root, DeckFileName)
	b, err := os.ReadFile(dpath)
	if err != nil {
		// try backup
		deck, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open deck: %w; backup attempt: %v", err, berr)
		}
		return &DeckHandle{Root: root, DeckPath: dpath, Deck: *deck}, nil
	}
	var d domain.Deck
	if uerr := json.Unmarshal(b, &d); uerr != nil {
		deck, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse deck: %w; backup attempt: %v", uerr, berr)
		}
		return &DeckHandle{Root: root, DeckPath: dpath, Deck: *deck}, nil
	}
	return &DeckHandle{Root: root, DeckPath: dpath, Deck: d}, nil
}

// SaveDeck writes the current DeckHandle.Deck to disk with transactional semantics
// and a timestamped backup of the previous deck file (if present).
func SaveDeck(h *DeckHandle) error {
	if h == nil {
		return errors.New("nil DeckHandle")
	}
	if h.Root == "" || h.DeckPath == "" {
		return errors.New("invalid DeckHandle: missing paths")
	}
	// Marshal in human-readable form
	data, err := json.MarshalIndent(h.Deck, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	data = append(data, '\n')

	// Ensure backups dir exists
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current deck file exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(h.DeckPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", DeckFileName, stamp)
		bpath := filepath.Join(bdir, bname)
		if cerr := copyFile(h.DeckPath, bpath); cerr != nil {
			return fmt.Errorf("backup current deck: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(h.DeckPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", DeckFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp deck: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.DeckPath); err == nil {
		_ = os.Remove(h.DeckPath)
	}
	if rerr := os.Rename(temp, h.DeckPath); rerr != nil {
		// attempt cleanup temp
		_ = os.Remove(temp)
		return fmt.Errorf("replace deck: %w", rerr)
	}
	return nil
}

// SaveDeckAs writes the deck to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveDeckAs(h *DeckHandle, newRoot string) error {
	if h == nil {
		return errors.New("nil DeckHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	h.Root = newRoot
	h.DeckPath = filepath.Join(newRoot, DeckFileName)
	return SaveDeck(h)
}

// AutosaveCrashSnapshot writes an emergency copy of the in-memory deck to the
// backups folder without touching deck.json. Called from the panic handler, so
// it avoids the backup/rename dance and just writes one fresh file.
func AutosaveCrashSnapshot(h *DeckHandle) (string, error) {
	if h == nil {
		return "", errors.New("nil DeckHandle")
	}
	if h.Root == "" {
		return "", errors.New("invalid DeckHandle: missing root")
	}
	data, err := json.MarshalIndent(h.Deck, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal deck: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("crash-autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return path, fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Deck, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DeckFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var d domain.Deck
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &d, nil
}
