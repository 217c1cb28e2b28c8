package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vthunder/tock/internal/tasks"
)

// DefaultFilename is the task file inside the state directory.
const DefaultFilename = "tasks.json"

// JSONFile persists the task set as a JSON array of flat records at a
// fixed path.
type JSONFile struct {
	path string
}

// NewJSONFile creates a JSON persister for path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the file the persister writes.
func (f *JSONFile) Path() string { return f.path }

// Load reads the task file. A missing file is an empty task set.
func (f *JSONFile) Load() ([]tasks.Task, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []tasks.Task{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: f.path, Err: err}
	}

	var records []tasks.Task
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ParseError{Path: f.path, Record: -1, Err: err}
	}
	if err := checkRecords(records); err != nil {
		err.Path = f.path
		return nil, err
	}
	if records == nil {
		records = []tasks.Task{}
	}
	return records, nil
}

// Save replaces the task file with the given set. The data is written to
// a temp file in the same directory and renamed over the target, so a
// crash leaves either the old file or the new one.
func (f *JSONFile) Save(all []tasks.Task) error {
	if all == nil {
		all = []tasks.Task{}
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if err := writeFileAtomic(f.path, data); err != nil {
		return &IOError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// checkRecords applies the store's invariants to loaded records.
func checkRecords(records []tasks.Task) *ParseError {
	seen := make(map[int]bool, len(records))
	for i, r := range records {
		if r.ID <= 0 {
			return &ParseError{Record: i, Err: fmt.Errorf("invalid id %d", r.ID)}
		}
		if seen[r.ID] {
			return &ParseError{Record: i, Err: fmt.Errorf("duplicate id %d", r.ID)}
		}
		seen[r.ID] = true
		if err := r.Fields().Validate(); err != nil {
			return &ParseError{Record: i, Err: err}
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file beside path, syncs it and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
