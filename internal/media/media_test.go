// ABOUTME: Tests for disk-backed media storage
// ABOUTME: Covers saving, size limits, extension checks, and removal

package media

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "/media", maxBytes)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestSave_Video(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	blob, err := s.Save(ctx, KindVideo, "clip.mp4", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasPrefix(blob.URL, "/media/videos/") {
		t.Errorf("unexpected blob URL: %s", blob.URL)
	}
	if !strings.HasSuffix(blob.URL, ".mp4") {
		t.Errorf("expected .mp4 suffix, got %s", blob.URL)
	}
	if blob.Size != int64(len("fake video bytes")) {
		t.Errorf("expected size %d, got %d", len("fake video bytes"), blob.Size)
	}
	if blob.ContentType != "video/mp4" {
		t.Errorf("expected video/mp4, got %s", blob.ContentType)
	}

	data, err := os.ReadFile(blob.Path)
	if err != nil {
		t.Fatalf("reading stored blob: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Error("stored bytes do not match upload")
	}
}

func TestSave_RandomizesNames(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	first, err := s.Save(ctx, KindThumbnail, "same.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := s.Save(ctx, KindThumbnail, "same.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first.URL == second.URL {
		t.Error("expected distinct URLs for same original filename")
	}
}

func TestSave_RejectsOversize(t *testing.T) {
	s := newTestStore(t, 8)

	_, err := s.Save(context.Background(), KindVideo, "big.mp4", strings.NewReader("way more than eight bytes"))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestSave_RejectsEmpty(t *testing.T) {
	s := newTestStore(t, 1024)

	_, err := s.Save(context.Background(), KindVideo, "empty.mp4", strings.NewReader(""))
	if !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestSave_RejectsBadExtension(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	tests := []struct {
		kind     Kind
		filename string
	}{
		{KindVideo, "malware.exe"},
		{KindVideo, "image.png"},
		{KindAvatar, "clip.mp4"},
		{KindThumbnail, "noext"},
	}
	for _, tt := range tests {
		if _, err := s.Save(ctx, tt.kind, tt.filename, strings.NewReader("x")); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Save(%s, %s): expected ErrUnsupported, got %v", tt.kind, tt.filename, err)
		}
	}
}

func TestSave_UnknownKind(t *testing.T) {
	s := newTestStore(t, 1024)

	_, err := s.Save(context.Background(), Kind("documents"), "a.pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	blob, err := s.Save(ctx, KindAvatar, "face.jpg", strings.NewReader("portrait"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Remove(blob.URL); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(blob.Path); !os.IsNotExist(err) {
		t.Error("expected blob file to be gone")
	}

	// Removing again is a no-op.
	if err := s.Remove(blob.URL); err != nil {
		t.Errorf("expected repeated Remove to succeed, got %v", err)
	}

	// URLs outside our base are ignored.
	if err := s.Remove("https://elsewhere.example/file.png"); err != nil {
		t.Errorf("expected foreign URL to be ignored, got %v", err)
	}

	// Path traversal is refused.
	if err := s.Remove("/media/../../etc/passwd"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}
