// Package favorites persists the set of starred project ids as a JSON array
// on disk, the server-side equivalent of the old browser-local store.
package favorites

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

// FileStore reads and writes the favorites file. Failures are returned
// explicitly; the caller decides whether to surface or deliberately ignore
// them.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted id list. A missing file or malformed content
// yields an empty list and no error, matching the reset-to-empty behavior of
// the original local store.
func (s *FileStore) Load() ([]int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []int{}, nil
		}
		return nil, &domain.ErrPersistence{Op: "load", Err: err}
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		// Corrupt content is discarded, not surfaced.
		return []int{}, nil
	}
	return ids, nil
}

// Save writes the id list atomically (temp file + rename).
func (s *FileStore) Save(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "favorites-*.json")
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	return nil
}
