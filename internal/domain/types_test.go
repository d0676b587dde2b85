package domain

import (
	"encoding/json"
	"testing"
)

func TestSlideJSONRoundTrip(t *testing.T) {
	s := Slide{
		ID:              "s1",
		BackgroundColor: "#FAFAFA",
		Order:           2,
		Elements: []Element{
			{ID: "e1", Type: ElementText, X: 40, Y: 60, Width: 300, Height: 48, Text: "Hello", FontSize: 28, FontFamily: "Helvetica", FontWeight: "bold", Fill: "#111111", Align: "center"},
			{ID: "e2", Type: ElementShape, X: 0, Y: 500, Width: 612, Height: 8, ShapeType: "rect", Fill: "#3B82F6"},
			{ID: "e3", Type: ElementImage, X: 200, Y: 200, Width: 120, Height: 120, Src: "logo.png", Alt: "logo"},
		},
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Slide
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != s.ID || got.Order != s.Order || len(got.Elements) != 3 {
		t.Fatalf("unexpected slide structure: %+v", got)
	}
	if got.Elements[0].Type != ElementText || got.Elements[0].Text != "Hello" {
		t.Fatalf("text element mismatch: %+v", got.Elements[0])
	}
	if got.Elements[1].ShapeType != "rect" {
		t.Fatalf("shape element mismatch: %+v", got.Elements[1])
	}
}

func TestElementVariantFieldsOmitted(t *testing.T) {
	// A shape must not serialize text-only fields; a stale fontSize in the
	// draft JSON would confuse older readers.
	b, err := json.Marshal(ShapeElement("circle", "#FF0000", 1, 2, 3, 4))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"text", "fontSize", "src"} {
		if _, ok := m[k]; ok {
			t.Fatalf("field %q should be omitted for shapes, got %v", k, m[k])
		}
	}
	if m["shapeType"] != "circle" {
		t.Fatalf("shapeType missing: %v", m)
	}
}

func TestFindElement(t *testing.T) {
	s := NewSlide()
	el := TextElement("find me", 10, 10)
	s.Elements = append(s.Elements, el)

	if got := s.FindElement(el.ID); got == nil || got.Text != "find me" {
		t.Fatalf("FindElement(%q) = %+v", el.ID, got)
	}
	if got := s.FindElement("nope"); got != nil {
		t.Fatalf("FindElement for unknown id should be nil, got %+v", got)
	}
}
