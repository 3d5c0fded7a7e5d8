// Package jfile provides file I/O helpers: slurping a path into a byte
// buffer, and atomically writing a byte buffer to a path.
package jfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lattice-substrate/jtree/jerr"
)

// DefaultMaxInputSize bounds ReadFile's slurp to 64 MiB.
const DefaultMaxInputSize = 64 * 1024 * 1024

// ReadFile reads path in full, bounded by DefaultMaxInputSize bytes.
func ReadFile(path string) ([]byte, error) {
	return ReadFileLimit(path, DefaultMaxInputSize)
}

// ReadFileLimit is ReadFile with a caller-supplied byte limit.
func ReadFileLimit(path string, maxSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, jerr.Wrap(jerr.ClassAlloc, -1, fmt.Sprintf("jfile: open %q", path), err)
	}
	defer f.Close()

	lr := io.LimitReader(f, int64(maxSize)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, jerr.Wrap(jerr.ClassAlloc, -1, fmt.Sprintf("jfile: read %q", path), err)
	}
	if len(data) > maxSize {
		return nil, jerr.New(jerr.ClassAlloc, fmt.Sprintf("jfile: %q exceeds maximum size %d bytes", path, maxSize))
	}
	return data, nil
}

// WriteFile atomically writes data to path: it writes to a temp file in
// the same directory, fsyncs it, then renames it over path, so a reader
// never observes a partially written file at path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jtree-*.tmp")
	if err != nil {
		return jerr.Wrap(jerr.ClassAlloc, -1, "jfile: create temp file", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return jerr.Wrap(jerr.ClassAlloc, -1, "jfile: write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return jerr.Wrap(jerr.ClassAlloc, -1, "jfile: sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return jerr.Wrap(jerr.ClassAlloc, -1, "jfile: close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return jerr.Wrap(jerr.ClassAlloc, -1, "jfile: rename temp file into place", err)
	}
	success = true
	return nil
}
