package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"carouselstudio/internal/domain"
)

const sampleDescriptor = `
name: Team intro
style: minimalist
slides:
  - background: "#F8FAFC"
    elements:
      - type: text
        text: "Meet the team"
        x: 64
        y: 140
        width: 484
        height: 100
        font_size: 40
        font_weight: bold
      - type: shape
        shape: rect
        fill: "#3B82F6"
        x: 64
        y: 260
        width: 120
        height: 8
  - elements:
      - type: image
        src: "team.png"
        alt: "Team photo"
        x: 100
        y: 100
        width: 400
        height: 300
`

func TestBuiltinCoversEveryStyle(t *testing.T) {
	styles := map[string]bool{}
	for _, tpl := range Builtin() {
		if tpl.ID == "" || tpl.Name == "" {
			t.Fatalf("builtin template missing identity: %+v", tpl)
		}
		if len(tpl.DefaultSlides) == 0 || len(tpl.DefaultSlides) > domain.MaxSlides {
			t.Fatalf("builtin %s has %d slides", tpl.ID, len(tpl.DefaultSlides))
		}
		for _, sl := range tpl.DefaultSlides {
			if sl.ID == "" {
				t.Fatalf("builtin %s has slide without id", tpl.ID)
			}
			for _, el := range sl.Elements {
				if el.ID == "" {
					t.Fatalf("builtin %s has element without id", tpl.ID)
				}
			}
		}
		styles[tpl.Style] = true
	}
	for _, want := range []string{"bold", "minimalist", "data", "story"} {
		if !styles[want] {
			t.Fatalf("no builtin template for style %q", want)
		}
	}
}

func TestBuiltinReturnsFreshCopies(t *testing.T) {
	a := Builtin()
	a[0].DefaultSlides[0].BackgroundColor = "#000000"
	b := Builtin()
	if b[0].DefaultSlides[0].BackgroundColor == "#000000" {
		t.Fatalf("Builtin shares state between calls")
	}
}

func TestNewSeedsBuiltins(t *testing.T) {
	c := New()
	got := c.Templates()
	if len(got) != len(Builtin()) {
		t.Fatalf("expected %d templates, got %d", len(Builtin()), len(got))
	}
	if _, ok := c.Get("bold-launch"); !ok {
		t.Fatalf("bold-launch builtin missing")
	}
	if _, ok := c.Get("nope"); ok {
		t.Fatalf("unknown id should miss")
	}
}

func TestGetReturnsCopies(t *testing.T) {
	c := New()
	tpl, ok := c.Get("story-arc")
	if !ok {
		t.Fatalf("story-arc missing")
	}
	tpl.DefaultSlides[0].Elements[0].Text = "mutated"
	again, _ := c.Get("story-arc")
	if again.DefaultSlides[0].Elements[0].Text == "mutated" {
		t.Fatalf("Get returned aliased template state")
	}
}

func TestLoadDirAddsDescriptors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "team-intro.yaml"), []byte(sampleDescriptor), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	c := New()
	n, err := c.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 loaded template, got %d", n)
	}

	tpl, ok := c.Get("team-intro") // id defaults to file stem
	if !ok {
		t.Fatalf("team-intro not in catalog")
	}
	if tpl.Name != "Team intro" || tpl.Style != "minimalist" {
		t.Fatalf("descriptor fields lost: %+v", tpl)
	}
	if len(tpl.DefaultSlides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(tpl.DefaultSlides))
	}
	first := tpl.DefaultSlides[0]
	if first.BackgroundColor != "#F8FAFC" {
		t.Fatalf("background not applied: %q", first.BackgroundColor)
	}
	if len(first.Elements) != 2 {
		t.Fatalf("expected 2 elements on slide 1, got %d", len(first.Elements))
	}
	if first.Elements[0].Type != domain.ElementText || first.Elements[0].FontWeight != "bold" {
		t.Fatalf("text element not decoded: %+v", first.Elements[0])
	}
	if first.Elements[1].Type != domain.ElementShape || first.Elements[1].ShapeType != "rect" {
		t.Fatalf("shape element not decoded: %+v", first.Elements[1])
	}
	img := tpl.DefaultSlides[1].Elements[0]
	if img.Type != domain.ElementImage || img.Src != "team.png" {
		t.Fatalf("image element not decoded: %+v", img)
	}
}

func TestLoadDirSkipsBrokenDescriptors(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"no-name.yaml":   "style: bold\nslides:\n  - elements: []\n",
		"bad-style.yaml": "name: X\nstyle: neon\nslides:\n  - elements: []\n",
		"bad-type.yaml":  "name: X\nslides:\n  - elements:\n      - type: video\n",
		"not-yaml.yaml":  "{{{{",
		"empty.yaml":     "name: X\nslides: []\n",
		"good.yaml":      "name: Good\nslides:\n  - elements: []\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	c := New()
	n, err := c.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the good descriptor, got %d", n)
	}
	if _, ok := c.Get("good"); !ok {
		t.Fatalf("good descriptor missing")
	}
}

func TestLoadDirRejectsOversizedTemplate(t *testing.T) {
	dir := t.TempDir()
	body := "name: Too big\nslides:\n"
	for i := 0; i < domain.MaxSlides+1; i++ {
		body += "  - elements: []\n"
	}
	if err := os.WriteFile(filepath.Join(dir, "big.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	c := New()
	n, err := c.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	if n != 0 {
		t.Fatalf("oversized template must be skipped, loaded %d", n)
	}
}

func TestLoadDirProtectsBuiltinIds(t *testing.T) {
	dir := t.TempDir()
	body := "id: bold-launch\nname: Impostor\nslides:\n  - elements: []\n"
	if err := os.WriteFile(filepath.Join(dir, "impostor.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	c := New()
	if _, err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	tpl, _ := c.Get("bold-launch")
	if tpl.Name == "Impostor" {
		t.Fatalf("file template overrode a builtin")
	}
}

func TestLoadDirReplacesPreviousGeneration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.yaml")
	if err := os.WriteFile(path, []byte("name: One\nslides:\n  - elements: []\n"), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	c := New()
	if _, err := c.LoadDir(dir); err != nil {
		t.Fatalf("first LoadDir: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove descriptor: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "two.yaml"), []byte("name: Two\nslides:\n  - elements: []\n"), 0o644); err != nil {
		t.Fatalf("write second descriptor: %v", err)
	}
	if _, err := c.LoadDir(dir); err != nil {
		t.Fatalf("second LoadDir: %v", err)
	}
	if _, ok := c.Get("one"); ok {
		t.Fatalf("removed descriptor still present")
	}
	if _, ok := c.Get("two"); !ok {
		t.Fatalf("new descriptor missing")
	}
}

func TestWatchPicksUpNewDescriptors(t *testing.T) {
	dir := t.TempDir()
	c := New()
	if _, err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Watch(ctx); err != nil {
		t.Fatalf("Watch error: %v", err)
	}
	defer c.Close()

	body := "name: Hot\nslides:\n  - elements: []\n"
	if err := os.WriteFile(filepath.Join(dir, "hot.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := c.Get("hot"); ok {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("watcher never loaded the new descriptor")
}

func TestWatchWithoutLoadDirFails(t *testing.T) {
	c := New()
	if err := c.Watch(context.Background()); err == nil {
		t.Fatalf("Watch without LoadDir must fail")
	}
}
