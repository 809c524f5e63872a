// Package docstore persists collections as flat JSON documents, one file per
// collection, rewritten wholesale on every mutation. Each File serializes its
// read-modify-write cycles behind a mutex so two concurrent mutations can
// never lose an update.
package docstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Read decodes the document into v. A missing file is not an error: v is
// left at its zero value, matching an empty collection.
func (f *File) Read(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(v)
}

// Update runs mutate on the decoded document and writes the result back,
// all under the file lock. Returning an error from mutate aborts the write.
func (f *File) Update(v interface{}, mutate func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.read(v); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return err
	}
	return f.write(v)
}

func (f *File) read(v interface{}) error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// write replaces the document atomically: marshal to a sibling temp file,
// then rename over the target, so readers never observe a torn file.
func (f *File) write(v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
