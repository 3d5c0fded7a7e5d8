package jfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lattice-substrate/jtree/jfile"
)

func TestReadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	want := []byte(`{"a":1}`)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile (setup): %v", err)
	}
	got, err := jfile.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("ReadFile() = %q, want %q", got, want)
	}
}

func TestReadFileExceedsLimitFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.json")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, err := jfile.ReadFileLimit(path, 4)
	if err == nil {
		t.Fatal("expected size-limit error")
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := jfile.WriteFile(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("WriteFile() left %q, want {\"a\":1}", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory has %d entries after WriteFile, want 1 (no leftover temp file)", len(entries))
	}
}
