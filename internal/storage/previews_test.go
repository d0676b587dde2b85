package storage

import (
	"bytes"
	"context"
	"testing"

	"carouselstudio/internal/domain"
)

func TestPreviewPutGetRoundTrip(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	sl := domain.NewSlide()
	key := PreviewContentKey(sl)
	blob := []byte("png-bytes")

	if err := s.PutPreview(ctx, sl.ID, 256, key, blob); err != nil {
		t.Fatalf("PutPreview error: %v", err)
	}
	got, err := s.GetPreview(ctx, sl.ID, 256, key)
	if err != nil {
		t.Fatalf("GetPreview error: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("preview blob mismatch: got %q", got)
	}
}

func TestPreviewStaleContentKeyCountsAsMiss(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	sl := domain.NewSlide()
	oldKey := PreviewContentKey(sl)
	if err := s.PutPreview(ctx, sl.ID, 256, oldKey, []byte("old")); err != nil {
		t.Fatalf("PutPreview error: %v", err)
	}

	// The slide changed; its fingerprint moved on.
	sl.Elements = append(sl.Elements, domain.TextElement("new", 0, 0))
	newKey := PreviewContentKey(sl)
	if newKey == oldKey {
		t.Fatalf("content key did not change with slide contents")
	}

	got, err := s.GetPreview(ctx, sl.ID, 256, newKey)
	if err != nil {
		t.Fatalf("GetPreview error: %v", err)
	}
	if got != nil {
		t.Fatalf("stale preview served: %q", got)
	}
}

func TestGetOrCreatePreviewGeneratesOnce(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	sl := domain.NewSlide()
	key := PreviewContentKey(sl)
	calls := 0
	gen := func(context.Context) ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrCreatePreview(ctx, sl.ID, 128, key, gen)
		if err != nil {
			t.Fatalf("GetOrCreatePreview error: %v", err)
		}
		if string(got) != "rendered" {
			t.Fatalf("unexpected preview: %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("generator ran %d times, want 1", calls)
	}
}

func TestPreviewDifferentWidthsAreSeparateEntries(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	sl := domain.NewSlide()
	key := PreviewContentKey(sl)
	if err := s.PutPreview(ctx, sl.ID, 128, key, []byte("small")); err != nil {
		t.Fatalf("PutPreview 128 error: %v", err)
	}
	if err := s.PutPreview(ctx, sl.ID, 512, key, []byte("large")); err != nil {
		t.Fatalf("PutPreview 512 error: %v", err)
	}
	small, _ := s.GetPreview(ctx, sl.ID, 128, key)
	large, _ := s.GetPreview(ctx, sl.ID, 512, key)
	if string(small) != "small" || string(large) != "large" {
		t.Fatalf("width variants collided: %q %q", small, large)
	}
}

func TestDeletePreviewsDropsAllWidths(t *testing.T) {
	s := draftStore(t)
	ctx := context.Background()

	sl := domain.NewSlide()
	key := PreviewContentKey(sl)
	_ = s.PutPreview(ctx, sl.ID, 128, key, []byte("a"))
	_ = s.PutPreview(ctx, sl.ID, 512, key, []byte("b"))

	if err := s.DeletePreviews(ctx, sl.ID); err != nil {
		t.Fatalf("DeletePreviews error: %v", err)
	}
	total, err := s.TotalPreviewBytes(ctx)
	if err != nil {
		t.Fatalf("TotalPreviewBytes error: %v", err)
	}
	if total != 0 {
		t.Fatalf("previews remain after delete: %d bytes", total)
	}
}

func TestPreviewEvictionRespectsByteCap(t *testing.T) {
	t.Setenv("CRS_PREVIEWS_MAX_BYTES", "64")
	s := draftStore(t)
	ctx := context.Background()

	blob := bytes.Repeat([]byte("x"), 48)
	if err := s.PutPreview(ctx, "slide-a", 128, "ka", blob); err != nil {
		t.Fatalf("PutPreview a error: %v", err)
	}
	if err := s.PutPreview(ctx, "slide-b", 128, "kb", blob); err != nil {
		t.Fatalf("PutPreview b error: %v", err)
	}

	total, err := s.TotalPreviewBytes(ctx)
	if err != nil {
		t.Fatalf("TotalPreviewBytes error: %v", err)
	}
	if total > 64 {
		t.Fatalf("cache above cap after eviction: %d bytes", total)
	}
	// One of the two entries fit under the cap; the other must be gone.
	// last_access has second precision, so back-to-back puts can tie and the
	// victim choice between them is not pinned down.
	remaining := 0
	if got, _ := s.GetPreview(ctx, "slide-a", 128, "ka"); got != nil {
		remaining++
	}
	if got, _ := s.GetPreview(ctx, "slide-b", 128, "kb"); got != nil {
		remaining++
	}
	if remaining != 1 {
		t.Fatalf("expected exactly one surviving preview, got %d", remaining)
	}
}

func TestMaxPreviewsBytesFromEnv(t *testing.T) {
	t.Setenv("CRS_PREVIEWS_MAX_BYTES", "")
	if got := MaxPreviewsBytesFromEnv(); got != 64*1024*1024 {
		t.Fatalf("default cap mismatch: %d", got)
	}
	t.Setenv("CRS_PREVIEWS_MAX_BYTES", "1234")
	if got := MaxPreviewsBytesFromEnv(); got != 1234 {
		t.Fatalf("env cap ignored: %d", got)
	}
	t.Setenv("CRS_PREVIEWS_MAX_BYTES", "not-a-number")
	if got := MaxPreviewsBytesFromEnv(); got != 64*1024*1024 {
		t.Fatalf("bad env should fall back to default: %d", got)
	}
}
