package storage

import (
	"context"
	"encoding/json"
	"testing"

	"carouselstudio/internal/domain"
)

func draftStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDraftRoundTrip(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	sl := domain.NewSlide()
	sl.Elements = append(sl.Elements, domain.TextElement("Draft me", 10, 20))
	slides := []domain.Slide{sl}

	if err := SaveDraft(ctx, s, slides); err != nil {
		t.Fatalf("SaveDraft error: %v", err)
	}
	got, ok := LoadDraft(ctx, s)
	if !ok {
		t.Fatalf("LoadDraft returned no draft after save")
	}
	if len(got) != 1 || got[0].ID != sl.ID {
		t.Fatalf("draft mismatch: %+v", got)
	}
	if got[0].Elements[0].Text != "Draft me" {
		t.Fatalf("element text lost: %+v", got[0].Elements)
	}
}

func TestLoadDraftWithoutSaveReturnsNothing(t *testing.T) {
	s := draftStore(t)
	if slides, ok := LoadDraft(context.Background(), s); ok || slides != nil {
		t.Fatalf("expected no draft, got ok=%v slides=%v", ok, slides)
	}
}

func TestLoadDraftRejectsMalformedJSON(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()
	if err := s.Put(ctx, DraftKey, []byte("{ definitely not json")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if _, ok := LoadDraft(ctx, s); ok {
		t.Fatalf("malformed draft must be treated as absent")
	}
}

func TestLoadDraftRejectsWrongShape(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	cases := []string{
		`{}`,                         // not an array
		`[]`,                         // empty deck
		`[{"id":"a"}]`,               // slide missing required fields
		`"just a string"`,            // scalar
		`[{"id":"a","elements":[{"id":"e","type":"video","x":0,"y":0,"width":1,"height":1}],"backgroundColor":"#fff","order":0}]`, // bad element type
	}
	for _, raw := range cases {
		if err := s.Put(ctx, DraftKey, []byte(raw)); err != nil {
			t.Fatalf("Put error: %v", err)
		}
		if _, ok := LoadDraft(ctx, s); ok {
			t.Fatalf("draft %q should have been rejected", raw)
		}
	}
}

func TestLoadDraftAcceptsFullDeck(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	slides := make([]domain.Slide, 0, 10)
	for i := 0; i < 10; i++ {
		sl := domain.NewSlide()
		sl.Order = i
		slides = append(slides, sl)
	}
	if err := SaveDraft(ctx, s, slides); err != nil {
		t.Fatalf("SaveDraft error: %v", err)
	}
	got, ok := LoadDraft(ctx, s)
	if !ok || len(got) != 10 {
		t.Fatalf("full deck draft not restored: ok=%v len=%d", ok, len(got))
	}
}

func TestClearDraftRemovesSlot(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	if err := SaveDraft(ctx, s, []domain.Slide{domain.NewSlide()}); err != nil {
		t.Fatalf("SaveDraft error: %v", err)
	}
	if err := ClearDraft(ctx, s); err != nil {
		t.Fatalf("ClearDraft error: %v", err)
	}
	if _, ok := LoadDraft(ctx, s); ok {
		t.Fatalf("draft survived ClearDraft")
	}
}

func TestValidateSlidesJSONMatchesMarshaledDomain(t *testing.T) {
	sl := domain.NewSlide()
	sl.Elements = append(sl.Elements,
		domain.TextElement("T", 0, 0),
		domain.ShapeElement("rect", "#FF0000", 10, 10, 50, 50),
		domain.ImageElement("logo.png", "logo", 5, 5, 40, 40),
	)
	data, err := json.Marshal([]domain.Slide{sl})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ValidateSlidesJSON(data); err != nil {
		t.Fatalf("marshaled domain slides must validate: %v", err)
	}
}

func TestValidateSlidesJSONRejectsOversizedDeck(t *testing.T) {
	slides := make([]domain.Slide, 11)
	for i := range slides {
		slides[i] = domain.NewSlide()
		slides[i].Order = i
	}
	data, _ := json.Marshal(slides)
	if err := ValidateSlidesJSON(data); err == nil {
		t.Fatalf("11 slides must fail validation")
	}
}

func TestValidateSlidesJSONRejectsEmptyInput(t *testing.T) {
	if err := ValidateSlidesJSON(nil); err == nil {
		t.Fatalf("nil input must fail validation")
	}
}
