package storage

import (
	"context"
	"testing"
	"time"

	"carouselstudio/internal/domain"
)

// waitForDraft polls until a draft appears or the deadline passes.
func waitForDraft(t *testing.T, s *Store) []domain.Slide {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if slides, ok := LoadDraft(context.Background(), s); ok {
			return slides
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("draft never appeared")
	return nil
}

func TestAutosaverWritesAfterQuietPeriod(t *testing.T) {
	s := draftStore(t)
	a := NewAutosaver(s, 25*time.Millisecond)

	sl := domain.NewSlide()
	sl.Elements = append(sl.Elements, domain.TextElement("typed", 0, 0))
	a.Notify([]domain.Slide{sl})

	got := waitForDraft(t, s)
	if len(got) != 1 || got[0].Elements[0].Text != "typed" {
		t.Fatalf("unexpected draft contents: %+v", got)
	}
}

func TestAutosaverCollapsesBurstsToLatest(t *testing.T) {
	s := draftStore(t)
	a := NewAutosaver(s, 40*time.Millisecond)

	// A burst of edits inside the debounce window: the last state must land
	// once edits settle. An intermediate write may sneak in if the scheduler
	// stalls past the window, so poll for the final revision.
	for i := 0; i < 5; i++ {
		sl := domain.NewSlide()
		sl.Elements = append(sl.Elements, domain.TextElement("rev", 0, 0))
		sl.Elements[0].FontSize = float64(10 + i)
		a.Notify([]domain.Slide{sl})
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := LoadDraft(context.Background(), s); ok && got[0].Elements[0].FontSize == 14 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("draft never settled on the latest revision")
}

func TestAutosaverFlushWritesImmediately(t *testing.T) {
	s := draftStore(t)
	// Long interval so the debounce timer cannot be the one writing.
	a := NewAutosaver(s, time.Hour)

	sl := domain.NewSlide()
	a.Notify([]domain.Slide{sl})
	a.Flush()

	if _, ok := LoadDraft(context.Background(), s); !ok {
		t.Fatalf("Flush did not persist the pending deck")
	}
}

func TestAutosaverFlushWithoutPendingIsNoOp(t *testing.T) {
	s := draftStore(t)
	a := NewAutosaver(s, time.Hour)
	a.Flush()
	if _, ok := LoadDraft(context.Background(), s); ok {
		t.Fatalf("no draft should exist after flushing a clean autosaver")
	}
}

func TestAutosaverCopiesNotifiedSlides(t *testing.T) {
	s := draftStore(t)
	a := NewAutosaver(s, time.Hour)

	sl := domain.NewSlide()
	sl.Elements = append(sl.Elements, domain.TextElement("before", 0, 0))
	slides := []domain.Slide{sl}
	a.Notify(slides)

	// Mutating the caller's slice after Notify must not leak into the draft.
	slides[0].Elements[0].Text = "after"
	a.Flush()

	got, ok := LoadDraft(context.Background(), s)
	if !ok {
		t.Fatalf("draft missing")
	}
	if got[0].Elements[0].Text != "before" {
		t.Fatalf("autosaver stored aliased slides: %q", got[0].Elements[0].Text)
	}
}
