package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carouselstudio/internal/domain"
)

func testDeck(name string) domain.Deck {
	sl := domain.NewSlide()
	sl.Elements = append(sl.Elements, domain.TextElement("Hello", 40, 40))
	return domain.Deck{Name: name, Slides: []domain.Slide{sl}}
}

func TestInitDeckCreatesStructureAndDeckFile(t *testing.T) {
	root := t.TempDir()
	deck := testDeck("Test Deck")

	h, err := InitDeck(root, deck)
	if err != nil {
		t.Fatalf("InitDeck error: %v", err)
	}
	if h == nil {
		t.Fatalf("InitDeck returned nil handle")
	}

	// Check deck file exists
	if h.DeckPath == "" {
		t.Fatalf("DeckPath not set")
	}
	// Load deck file and compare
	b, err := os.ReadFile(h.DeckPath)
	if err != nil {
		t.Fatalf("read deck file: %v", err)
	}
	var got domain.Deck
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal deck file: %v", err)
	}
	if got.Name != deck.Name {
		t.Fatalf("deck name mismatch: got %q want %q", got.Name, deck.Name)
	}
	if len(got.Slides) != 1 || len(got.Slides[0].Elements) != 1 {
		t.Fatalf("deck contents not round-tripped: %+v", got)
	}

	// Standard subdirs should exist
	wantDirs := []string{"assets", "exports", BackupsDirName}
	for _, d := range wantDirs {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestSaveDeckCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	h, err := InitDeck(root, testDeck("Backup Test"))
	if err != nil {
		t.Fatalf("InitDeck error: %v", err)
	}

	// Change something and save again to force a backup
	h.Deck.Name = "changed"
	if err := SaveDeck(h); err != nil {
		t.Fatalf("SaveDeck error: %v", err)
	}

	// Expect at least one .bak file under backups
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var bakCount int
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DeckFileName+".") && strings.HasSuffix(name, ".bak") {
			bakCount++
		}
	}
	if bakCount == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
}

func TestOpenDeckFallsBackToLatestBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	deck := testDeck("Open From Backup")
	h, err := InitDeck(root, deck)
	if err != nil {
		t.Fatalf("InitDeck error: %v", err)
	}

	// Force a backup to exist by saving
	if err := SaveDeck(h); err != nil {
		t.Fatalf("SaveDeck error: %v", err)
	}

	// Corrupt the deck file
	if err := os.WriteFile(h.DeckPath, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt deck file: %v", err)
	}

	// Now opening should succeed via latest backup
	opened, err := OpenDeck(root)
	if err != nil {
		t.Fatalf("OpenDeck error: %v", err)
	}
	if opened.Deck.Name != deck.Name {
		t.Fatalf("opened deck name mismatch: got %q want %q", opened.Deck.Name, deck.Name)
	}
}

func TestOpenDeckWithoutFileOrBackupFails(t *testing.T) {
	root := t.TempDir()
	if _, err := OpenDeck(root); err == nil {
		t.Fatalf("expected error opening empty directory")
	}
}

func TestSaveDeckAsMovesHandle(t *testing.T) {
	root := t.TempDir()
	h, err := InitDeck(root, testDeck("Move Me"))
	if err != nil {
		t.Fatalf("InitDeck error: %v", err)
	}

	newRoot := filepath.Join(t.TempDir(), "elsewhere")
	if err := SaveDeckAs(h, newRoot); err != nil {
		t.Fatalf("SaveDeckAs error: %v", err)
	}
	if h.Root != newRoot {
		t.Fatalf("handle root not updated: %q", h.Root)
	}
	if _, err := os.Stat(filepath.Join(newRoot, DeckFileName)); err != nil {
		t.Fatalf("deck file missing at new root: %v", err)
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	deck := testDeck("Crash Snapshot")
	h, err := InitDeck(root, deck)
	if err != nil {
		t.Fatalf("InitDeck error: %v", err)
	}

	path, err := AutosaveCrashSnapshot(h)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file does not exist: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got domain.Deck
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got.Name != deck.Name {
		t.Fatalf("snapshot content mismatch: got %q want %q", got.Name, deck.Name)
	}
}
