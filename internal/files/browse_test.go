package files

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList_FiltersVideoExtensions(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "clips", "b.MOV"))
	write(t, filepath.Join(root, "clips", "a.mp4"))
	write(t, filepath.Join(root, "clips", "notes.txt"))
	write(t, filepath.Join(root, "clips", ".hidden.mp4"))
	write(t, filepath.Join(root, "clips", "Season 1", "ep.mp4"))

	l, err := List(root, "clips", []string{".mp4", ".mov"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l.Files, []string{"a.mp4", "b.MOV"}) {
		t.Fatalf("files = %v", l.Files)
	}
	if !reflect.DeepEqual(l.Dirs, []string{"Season 1"}) {
		t.Fatalf("dirs = %v", l.Dirs)
	}
	if l.Path != "clips" || l.Parent != "" {
		t.Fatalf("path=%q parent=%q", l.Path, l.Parent)
	}
}

func TestList_NestedParent(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a", "b", "c.mp4"))

	l, err := List(root, "a/b", []string{".mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if l.Parent != "a" {
		t.Fatalf("parent = %q", l.Parent)
	}
}

func TestList_RejectsEscape(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := List(root, "../", []string{".mp4"}); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}
	if _, err := Resolve(root, "../../etc/passwd"); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected ErrPermission from Resolve, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	got, err := Resolve(root, Join("clips", "a.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, "clips", "a.mp4") {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestCheckVideo(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "clip.MP4"))
	write(t, filepath.Join(root, "notes.txt"))
	if err := os.MkdirAll(filepath.Join(root, "sub.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}
	exts := []string{".mp4", ".mov"}

	if err := CheckVideo(filepath.Join(root, "clip.MP4"), exts); err != nil {
		t.Fatalf("expected clip.MP4 to pass, got %v", err)
	}
	for _, name := range []string{"notes.txt", "sub.mp4"} {
		if err := CheckVideo(filepath.Join(root, name), exts); !errors.Is(err, ErrNotVideo) {
			t.Fatalf("%s: expected ErrNotVideo, got %v", name, err)
		}
	}
	if err := CheckVideo(filepath.Join(root, "missing.mp4"), exts); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
