package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFiles(t *testing.T, root string, paths []string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

func TestWalk_IncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{
		"a.txt",
		"notes/b.md",
		"notes/c.bin",
	})

	w := NewWalker([]string{"**/*.txt", "**/*.md"}, nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	got := relAll(t, root, files)
	want := []string{"a.txt", filepath.Join("notes", "b.md")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Walk = %v, want %v", got, want)
	}
}

func TestWalk_ExcludeDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{
		"keep.txt",
		"skip/drop.txt",
	})

	w := NewWalker([]string{"**/*.txt"}, []string{"skip/**"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	got := relAll(t, root, files)
	if len(got) != 1 || got[0] != "keep.txt" {
		t.Errorf("Walk = %v, want [keep.txt]", got)
	}
}

func TestWalk_DefaultIncludesEverything(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{"a.txt", "b.bin"})

	w := NewWalker(nil, nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %v", files)
	}
}

func TestReadFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("ReadFile = %q", got)
	}

	if _, err := ReadFile(filepath.Join(root, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
