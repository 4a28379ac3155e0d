package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystemRoundTrip(t *testing.T) {
	fs := OSFileSystem{}
	dir := t.TempDir()
	name := filepath.Join(dir, "sub", "out.txt")

	if err := fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := fs.WriteFile(name, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !fs.Exists(name) {
		t.Error("Exists returned false for written file")
	}
	data, err := fs.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadFile = %q, want %q", data, "hello")
	}
	info, err := fs.Stat(name)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size = %d, want 5", info.Size())
	}
}

func TestMemoryFileSystemCreate(t *testing.T) {
	fs := NewMemoryFileSystem()

	w, err := fs.Create("/out/snapshot.png")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := fs.ReadFile("/out/snapshot.png")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("contents = %q", data)
	}

	info, err := fs.Stat("/out")
	if err != nil {
		t.Fatalf("Stat parent dir: %v", err)
	}
	if !info.IsDir() {
		t.Error("parent should be a directory")
	}
}

func TestMemoryFileSystemMissing(t *testing.T) {
	fs := NewMemoryFileSystem()
	if _, err := fs.ReadFile("/nope"); !os.IsNotExist(err) {
		t.Errorf("ReadFile error = %v, want not-exist", err)
	}
	if _, err := fs.Stat("/nope"); !os.IsNotExist(err) {
		t.Errorf("Stat error = %v, want not-exist", err)
	}
	if fs.Exists("/nope") {
		t.Error("Exists should be false")
	}
}

func TestMemoryFileSystemList(t *testing.T) {
	fs := NewMemoryFileSystem()
	if err := fs.WriteFile("/b.txt", nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile("/a.txt", nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got := fs.List()
	if len(got) != 2 || got[0] != "/a.txt" || got[1] != "/b.txt" {
		t.Errorf("List = %v", got)
	}
}
