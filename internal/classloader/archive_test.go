package classloader

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenArchiveDirectory(t *testing.T) {
	dir := t.TempDir()
	classDir := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(classDir, "C.class"), []byte("fake-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reader, err := OpenArchive(dir)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer reader.Close()

	data, err := reader.ReadClass("a/b/C")
	if err != nil {
		t.Fatalf("ReadClass: %v", err)
	}
	if string(data) != "fake-bytes" {
		t.Errorf("ReadClass returned %q, want %q", data, "fake-bytes")
	}

	if _, err := reader.ReadClass("a/b/Missing"); err == nil {
		t.Fatalf("expected a ClassNotFoundError for a missing class")
	} else if _, ok := err.(*ClassNotFoundError); !ok {
		t.Errorf("expected *ClassNotFoundError, got %T", err)
	}
}

func TestOpenArchiveZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "archive.jar")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("a/b/C.class")
	if err != nil {
		t.Fatalf("zip Create: %v", err)
	}
	if _, err := w.Write([]byte("fake-bytes")); err != nil {
		t.Fatalf("zip Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close: %v", err)
	}

	reader, err := OpenArchive(zipPath)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer reader.Close()

	data, err := reader.ReadClass("a/b/C")
	if err != nil {
		t.Fatalf("ReadClass: %v", err)
	}
	if string(data) != "fake-bytes" {
		t.Errorf("ReadClass returned %q, want %q", data, "fake-bytes")
	}

	if _, err := reader.ReadClass("a/b/Missing"); err == nil {
		t.Fatalf("expected a ClassNotFoundError for a missing class")
	}
}
