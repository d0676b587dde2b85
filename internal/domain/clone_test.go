package domain

import "testing"

func sampleSlides() []Slide {
	s1 := NewSlide()
	s1.Elements = append(s1.Elements, TextElement("one", 10, 10), ShapeElement("rect", "#00FF00", 0, 0, 50, 50))
	s2 := NewSlide()
	s2.Elements = append(s2.Elements, ImageElement("a.png", "a", 5, 5, 20, 20))
	return []Slide{s1, s2}
}

func TestCloneSlideRegeneratesEveryID(t *testing.T) {
	src := sampleSlides()[0]
	clone := CloneSlide(src)

	if clone.ID == src.ID {
		t.Fatalf("clone kept the slide id %q", src.ID)
	}
	if len(clone.Elements) != len(src.Elements) {
		t.Fatalf("element count changed: got %d want %d", len(clone.Elements), len(src.Elements))
	}
	seen := map[string]bool{src.ID: true}
	for _, el := range src.Elements {
		seen[el.ID] = true
	}
	for i, el := range clone.Elements {
		if seen[el.ID] {
			t.Fatalf("clone element %d reused id %q", i, el.ID)
		}
		if el.Text != src.Elements[i].Text || el.Type != src.Elements[i].Type {
			t.Fatalf("clone element %d lost content: %+v", i, el)
		}
	}
}

func TestCloneSlidesIsDeep(t *testing.T) {
	src := sampleSlides()
	clones := CloneSlides(src)

	// Mutating the clone must not touch the source.
	clones[0].Elements[0].Text = "mutated"
	if src[0].Elements[0].Text == "mutated" {
		t.Fatalf("clone shares element storage with source")
	}
}

func TestCopySlidesPreservesIDs(t *testing.T) {
	src := sampleSlides()
	cp := CopySlides(src)

	if cp[0].ID != src[0].ID || cp[1].ID != src[1].ID {
		t.Fatalf("CopySlides must keep slide ids")
	}
	if cp[0].Elements[0].ID != src[0].Elements[0].ID {
		t.Fatalf("CopySlides must keep element ids")
	}
	cp[0].Elements[0].X = 999
	if src[0].Elements[0].X == 999 {
		t.Fatalf("CopySlides shares element storage with source")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id at iteration %d: %q", i, id)
		}
		seen[id] = true
	}
}
