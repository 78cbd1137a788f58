package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_SaveAndRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	p, err := store.Save(context.Background(), "cat.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(p, "images/") || !strings.HasSuffix(p, "-cat.png") {
		t.Errorf("unexpected path %q", p)
	}

	full := filepath.Join(store.Dir(), strings.TrimPrefix(p, "images/"))
	b, err := os.ReadFile(full)
	if err != nil || string(b) != "png" {
		t.Fatalf("stored file: %q, %v", b, err)
	}

	if err := store.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Errorf("expected file to be gone, stat err = %v", err)
	}
}

func TestDiskStore_SaveUsesFreshNames(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	a, _ := store.Save(context.Background(), "same.png", strings.NewReader("1"))
	b, _ := store.Save(context.Background(), "same.png", strings.NewReader("2"))
	if a == b {
		t.Fatalf("expected distinct paths, both %q", a)
	}
}

func TestDiskStore_SaveStripsDirectories(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	p, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Count(p, "/") != 1 || !strings.HasSuffix(p, "-passwd") {
		t.Errorf("unexpected path %q", p)
	}
}

func TestDiskStore_RemoveAcceptsLeadingSlash(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	p, _ := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	if err := store.Remove("/" + p); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestDiskStore_RemoveRejectsOutsidePaths(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	for _, p := range []string{
		"",
		"images/",
		"other/a.png",
		"images/../../secret",
		"images/sub/a.png",
	} {
		if err := store.Remove(p); !errors.Is(err, ErrOutsideStore) {
			t.Errorf("Remove(%q) = %v, want ErrOutsideStore", p, err)
		}
	}
}

func TestDiskStore_Writable(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	if err := store.Writable(); err != nil {
		t.Fatalf("expected writable store, got %v", err)
	}
}
